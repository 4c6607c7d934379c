package models

// CurrentSettingsVersion is the schema version written into every persisted
// settings document. Older documents pass through migration on load.
const CurrentSettingsVersion = 1

type ProviderName string

const (
	ProviderOpenAI           ProviderName = "openai"
	ProviderAnthropic        ProviderName = "anthropic"
	ProviderGemini           ProviderName = "gemini"
	ProviderOllama           ProviderName = "ollama"
	ProviderOpenAICompatible ProviderName = "openAICompatible"
)

// AllProviderNames returns providers in stable display order.
func AllProviderNames() []ProviderName {
	return []ProviderName{
		ProviderOpenAI,
		ProviderAnthropic,
		ProviderGemini,
		ProviderOllama,
		ProviderOpenAICompatible,
	}
}

type FeatureName string

const (
	FeatureChat         FeatureName = "chat"
	FeatureQuickEdit    FeatureName = "quickEdit"
	FeatureAutocomplete FeatureName = "autocomplete"
	FeatureApplyEdits   FeatureName = "applyEdits"
)

func AllFeatureNames() []FeatureName {
	return []FeatureName{FeatureChat, FeatureQuickEdit, FeatureAutocomplete, FeatureApplyEdits}
}

type FlagName string

const (
	FlagAutoRefreshModels  FlagName = "autoRefreshModels"
	FlagAutoApprove        FlagName = "autoApprove"
	FlagSyncThreads        FlagName = "syncThreads"
	FlagEnableAutocomplete FlagName = "enableAutocomplete"
)

func AllFlagNames() []FlagName {
	return []FlagName{FlagAutoRefreshModels, FlagAutoApprove, FlagSyncThreads, FlagEnableAutocomplete}
}

// ModelInfo is one entry in a provider's ordered model list. Default entries
// are rebuilt from provider discovery; non-default entries are user-added.
type ModelInfo struct {
	ModelName string `json:"modelName"`
	IsDefault bool   `json:"isDefault"`
	IsHidden  bool   `json:"isHidden"`
}

// ProviderSettings holds one provider's configuration. The JSON key for
// Enabled keeps the leading underscore the persisted documents have always
// used.
type ProviderSettings struct {
	Enabled  bool        `json:"_enabled"`
	Endpoint string      `json:"endpoint,omitempty"`
	Models   []ModelInfo `json:"models"`
}

// Clone returns a deep copy; the models slice is never shared.
func (p ProviderSettings) Clone() ProviderSettings {
	out := p
	out.Models = make([]ModelInfo, len(p.Models))
	copy(out.Models, p.Models)
	return out
}

// ModelSelection identifies one model of one provider.
type ModelSelection struct {
	ProviderName ProviderName `json:"providerName"`
	ModelName    string       `json:"modelName"`
}

// ModelOption is a derived dropdown entry. Never persisted.
type ModelOption struct {
	DisplayText string         `json:"displayText"`
	Value       ModelSelection `json:"value"`
}

// SettingsDocument is the persisted settings payload. Invariant: every known
// provider, feature, and flag has an entry.
type SettingsDocument struct {
	Version                 int                               `json:"version"`
	SettingsOfProvider      map[ProviderName]ProviderSettings `json:"settingsOfProvider"`
	ModelSelectionOfFeature map[FeatureName]*ModelSelection   `json:"modelSelectionOfFeature"`
	FeatureFlagSettings     map[FlagName]bool                 `json:"featureFlagSettings"`
}

// Clone deep-copies the document so a snapshot handed out before a mutation
// never observes it.
func (d *SettingsDocument) Clone() *SettingsDocument {
	out := &SettingsDocument{
		Version:                 d.Version,
		SettingsOfProvider:      make(map[ProviderName]ProviderSettings, len(d.SettingsOfProvider)),
		ModelSelectionOfFeature: make(map[FeatureName]*ModelSelection, len(d.ModelSelectionOfFeature)),
		FeatureFlagSettings:     make(map[FlagName]bool, len(d.FeatureFlagSettings)),
	}
	for name, settings := range d.SettingsOfProvider {
		out.SettingsOfProvider[name] = settings.Clone()
	}
	for feature, sel := range d.ModelSelectionOfFeature {
		if sel == nil {
			out.ModelSelectionOfFeature[feature] = nil
			continue
		}
		copied := *sel
		out.ModelSelectionOfFeature[feature] = &copied
	}
	for flag, value := range d.FeatureFlagSettings {
		out.FeatureFlagSettings[flag] = value
	}
	return out
}

// DefaultSettingsDocument builds a fresh document; maps and slices are
// constructed per call so defaults are never aliased between documents.
func DefaultSettingsDocument() *SettingsDocument {
	doc := &SettingsDocument{
		Version:                 CurrentSettingsVersion,
		SettingsOfProvider:      make(map[ProviderName]ProviderSettings),
		ModelSelectionOfFeature: make(map[FeatureName]*ModelSelection),
		FeatureFlagSettings:     make(map[FlagName]bool),
	}
	for _, provider := range AllProviderNames() {
		doc.SettingsOfProvider[provider] = defaultProviderSettings(provider)
	}
	for _, feature := range AllFeatureNames() {
		doc.ModelSelectionOfFeature[feature] = nil
	}
	for _, flag := range AllFlagNames() {
		doc.FeatureFlagSettings[flag] = defaultFlagValue(flag)
	}
	return doc
}

func defaultProviderSettings(provider ProviderName) ProviderSettings {
	settings := ProviderSettings{Models: defaultModels(provider)}
	switch provider {
	case ProviderOllama:
		settings.Endpoint = "http://localhost:11434"
	case ProviderOpenAICompatible:
		settings.Endpoint = ""
	}
	return settings
}

func defaultModels(provider ProviderName) []ModelInfo {
	names := defaultModelNames(provider)
	models := make([]ModelInfo, 0, len(names))
	for _, name := range names {
		models = append(models, ModelInfo{ModelName: name, IsDefault: true})
	}
	return models
}

func defaultModelNames(provider ProviderName) []string {
	switch provider {
	case ProviderOpenAI:
		return []string{"gpt-4o", "gpt-4o-mini", "o3-mini"}
	case ProviderAnthropic:
		return []string{"claude-3-7-sonnet-latest", "claude-3-5-haiku-latest"}
	case ProviderGemini:
		return []string{"gemini-2.0-flash", "gemini-1.5-pro"}
	default:
		// ollama and openAICompatible models are discovered at runtime
		return nil
	}
}

func defaultFlagValue(flag FlagName) bool {
	switch flag {
	case FlagAutoRefreshModels, FlagEnableAutocomplete:
		return true
	default:
		return false
	}
}

// FillMissing back-fills entries a loaded document lacks, so documents
// written by older builds still satisfy the no-missing-keys invariant.
func (d *SettingsDocument) FillMissing() {
	if d.SettingsOfProvider == nil {
		d.SettingsOfProvider = make(map[ProviderName]ProviderSettings)
	}
	if d.ModelSelectionOfFeature == nil {
		d.ModelSelectionOfFeature = make(map[FeatureName]*ModelSelection)
	}
	if d.FeatureFlagSettings == nil {
		d.FeatureFlagSettings = make(map[FlagName]bool)
	}
	for _, provider := range AllProviderNames() {
		if _, ok := d.SettingsOfProvider[provider]; !ok {
			d.SettingsOfProvider[provider] = defaultProviderSettings(provider)
		}
	}
	for _, feature := range AllFeatureNames() {
		if _, ok := d.ModelSelectionOfFeature[feature]; !ok {
			d.ModelSelectionOfFeature[feature] = nil
		}
	}
	for _, flag := range AllFlagNames() {
		if _, ok := d.FeatureFlagSettings[flag]; !ok {
			d.FeatureFlagSettings[flag] = defaultFlagValue(flag)
		}
	}
}
