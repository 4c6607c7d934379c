package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"voidstate/internal/events"
	"voidstate/internal/models"
	"voidstate/internal/storage"
)

// SettingsStorageKey is the single document key the settings store owns in
// the encrypted key-value store.
const SettingsStorageKey = "void.settingsServiceStorage"

type SettingsEventTag string

const (
	TagSettingsOfProvider      SettingsEventTag = "settingsOfProvider"
	TagModelSelectionOfFeature SettingsEventTag = "modelSelectionOfFeature"
	TagFeatureFlagSettings     SettingsEventTag = "featureFlagSettings"
)

// SettingsEvent is published on every state change. Initial marks the
// one-time notification fired when persisted state finishes loading; usual
// change events carry the tag of the sub-field that changed instead.
type SettingsEvent struct {
	Tag     SettingsEventTag
	Initial bool
}

// ProviderSettingName names one mutable field of ProviderSettings.
type ProviderSettingName string

const (
	SettingEnabled  ProviderSettingName = "_enabled"
	SettingEndpoint ProviderSettingName = "endpoint"
	SettingModels   ProviderSettingName = "models"
)

// SetModelSelectionOptions controls side effects of a selection change.
// DoNotApplyEffects updates in-memory state only, without persisting or
// notifying; the store uses it internally during cascading fixups.
type SetModelSelectionOptions struct {
	DoNotApplyEffects bool
}

type SettingsService interface {
	Startup(ctx context.Context) error
	WaitInitState(ctx context.Context) error
	Ready() bool
	State() *models.SettingsDocument
	ModelOptions() []models.ModelOption
	LoadError() error
	Subscribe(fn func(SettingsEvent)) *events.Subscription

	SetSettingOfProvider(ctx context.Context, provider models.ProviderName, setting ProviderSettingName, value any) error
	SetModelSelectionOfFeature(ctx context.Context, feature models.FeatureName, selection *models.ModelSelection, opts *SetModelSelectionOptions) error
	SetFeatureFlag(ctx context.Context, flag models.FlagName, value bool) error
	SetDefaultModels(ctx context.Context, provider models.ProviderName, names []string) error
	ToggleModelHidden(ctx context.Context, provider models.ProviderName, modelName string) error
	AddModel(ctx context.Context, provider models.ProviderName, modelName string) error
	DeleteModel(ctx context.Context, provider models.ProviderName, modelName string) (bool, error)
}

type settingsService struct {
	store storage.Store

	mu      sync.Mutex
	state   *models.SettingsDocument
	options []models.ModelOption
	loadErr error
	ready   bool
	readyCh chan struct{}

	onChange *events.Emitter[SettingsEvent]
}

// NewSettingsService constructs the store with its storage collaborator.
// State holds deep-cloned defaults until Startup overwrites it with whatever
// the encrypted store has.
func NewSettingsService(store storage.Store) SettingsService {
	doc := models.DefaultSettingsDocument()
	return &settingsService{
		store:    store,
		state:    doc,
		options:  computeModelOptions(doc),
		readyCh:  make(chan struct{}),
		onChange: events.NewEmitter[SettingsEvent](),
	}
}

// Startup reads the persisted document and transitions the store to ready.
// A missing record is first run, not an error. A record that cannot be
// decrypted or parsed falls back to defaults; the error is logged and kept
// readable through LoadError.
func (s *settingsService) Startup(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return nil
	}

	var loaded models.SettingsDocument
	ok, err := s.store.Load(ctx, SettingsStorageKey, &loaded)
	switch {
	case err != nil:
		log.Printf("settings: cannot load persisted state, using defaults: %v", err)
		s.loadErr = err
	case ok:
		if doc, usable := migrateSettingsDocument(&loaded); usable {
			s.state = doc
		}
	}

	s.options = computeModelOptions(s.state)
	s.fixInvalidSelectionsLocked(s.state)
	s.ready = true
	close(s.readyCh)
	s.mu.Unlock()

	s.onChange.Fire(SettingsEvent{Initial: true})
	return nil
}

// migrateSettingsDocument normalizes a loaded document to the current schema.
// Documents written by a newer build are unusable and reported as such.
func migrateSettingsDocument(doc *models.SettingsDocument) (*models.SettingsDocument, bool) {
	if doc.Version > models.CurrentSettingsVersion {
		log.Printf("settings: persisted document has version %d, newer than %d; using defaults",
			doc.Version, models.CurrentSettingsVersion)
		return nil, false
	}
	doc.Version = models.CurrentSettingsVersion
	doc.FillMissing()
	return doc, true
}

// WaitInitState blocks until the one-time ready transition or ctx expiry.
func (s *settingsService) WaitInitState(ctx context.Context) error {
	select {
	case <-s.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *settingsService) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// State returns the current document snapshot. Mutations replace the
// document wholesale, so a returned snapshot never changes underneath the
// caller.
func (s *settingsService) State() *models.SettingsDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *settingsService) ModelOptions() []models.ModelOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

func (s *settingsService) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *settingsService) Subscribe(fn func(SettingsEvent)) *events.Subscription {
	return s.onChange.Subscribe(fn)
}

func (s *settingsService) SetSettingOfProvider(ctx context.Context, provider models.ProviderName, setting ProviderSettingName, value any) error {
	s.mu.Lock()
	current, ok := s.state.SettingsOfProvider[provider]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown provider %q", provider)
	}

	next := s.state.Clone()
	updated := current.Clone()
	affectsOptions := false

	switch setting {
	case SettingEnabled:
		enabled, ok := value.(bool)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("setting %q expects bool, got %T", setting, value)
		}
		updated.Enabled = enabled
		affectsOptions = true
	case SettingEndpoint:
		endpoint, ok := value.(string)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("setting %q expects string, got %T", setting, value)
		}
		updated.Endpoint = endpoint
	case SettingModels:
		list, ok := value.([]models.ModelInfo)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("setting %q expects []models.ModelInfo, got %T", setting, value)
		}
		updated.Models = make([]models.ModelInfo, len(list))
		copy(updated.Models, list)
		affectsOptions = true
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown provider setting %q", setting)
	}

	next.SettingsOfProvider[provider] = updated
	if affectsOptions {
		s.options = computeModelOptions(next)
		s.fixInvalidSelectionsLocked(next)
	}
	s.state = next
	s.mu.Unlock()

	if err := s.store.Save(ctx, SettingsStorageKey, next); err != nil {
		return err
	}
	s.onChange.Fire(SettingsEvent{Tag: TagSettingsOfProvider})
	return nil
}

// fixInvalidSelectionsLocked reassigns any feature whose selection is no
// longer in the option list to the first remaining option, or to no
// selection when the list is empty. Reassignments ride along with the
// caller's persist and deliberately fire no selection notification of their
// own.
func (s *settingsService) fixInvalidSelectionsLocked(doc *models.SettingsDocument) {
	for _, feature := range models.AllFeatureNames() {
		sel := doc.ModelSelectionOfFeature[feature]
		if sel == nil || selectionAvailable(s.options, *sel) {
			continue
		}
		if len(s.options) > 0 {
			replacement := s.options[0].Value
			doc.ModelSelectionOfFeature[feature] = &replacement
		} else {
			doc.ModelSelectionOfFeature[feature] = nil
		}
	}
}

func selectionAvailable(options []models.ModelOption, sel models.ModelSelection) bool {
	for _, option := range options {
		if option.Value == sel {
			return true
		}
	}
	return false
}

// computeModelOptions flattens every enabled provider's non-hidden models
// into the derived dropdown list, in stable provider order.
func computeModelOptions(doc *models.SettingsDocument) []models.ModelOption {
	options := make([]models.ModelOption, 0)
	for _, provider := range models.AllProviderNames() {
		settings, ok := doc.SettingsOfProvider[provider]
		if !ok || !settings.Enabled {
			continue
		}
		for _, model := range settings.Models {
			if model.IsHidden {
				continue
			}
			options = append(options, models.ModelOption{
				DisplayText: fmt.Sprintf("%s (%s)", model.ModelName, provider),
				Value:       models.ModelSelection{ProviderName: provider, ModelName: model.ModelName},
			})
		}
	}
	return options
}

func (s *settingsService) SetModelSelectionOfFeature(ctx context.Context, feature models.FeatureName, selection *models.ModelSelection, opts *SetModelSelectionOptions) error {
	s.mu.Lock()
	if _, ok := s.state.ModelSelectionOfFeature[feature]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("unknown feature %q", feature)
	}
	next := s.state.Clone()
	if selection == nil {
		next.ModelSelectionOfFeature[feature] = nil
	} else {
		copied := *selection
		next.ModelSelectionOfFeature[feature] = &copied
	}
	s.state = next
	s.mu.Unlock()

	if opts != nil && opts.DoNotApplyEffects {
		return nil
	}
	if err := s.store.Save(ctx, SettingsStorageKey, next); err != nil {
		return err
	}
	s.onChange.Fire(SettingsEvent{Tag: TagModelSelectionOfFeature})
	return nil
}

func (s *settingsService) SetFeatureFlag(ctx context.Context, flag models.FlagName, value bool) error {
	s.mu.Lock()
	next := s.state.Clone()
	next.FeatureFlagSettings[flag] = value
	s.state = next
	s.mu.Unlock()

	if err := s.store.Save(ctx, SettingsStorageKey, next); err != nil {
		return err
	}
	s.onChange.Fire(SettingsEvent{Tag: TagFeatureFlagSettings})
	return nil
}

// SetDefaultModels rebuilds the provider's auto-detected entries from names,
// keeping any user-added non-default models and the hidden flag of entries
// that survive by name.
func (s *settingsService) SetDefaultModels(ctx context.Context, provider models.ProviderName, names []string) error {
	existing, ok := s.providerModels(provider)
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}

	hiddenByName := make(map[string]bool, len(existing))
	for _, model := range existing {
		hiddenByName[model.ModelName] = model.IsHidden
	}

	rebuilt := make([]models.ModelInfo, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		rebuilt = append(rebuilt, models.ModelInfo{
			ModelName: name,
			IsDefault: true,
			IsHidden:  hiddenByName[name],
		})
	}
	for _, model := range existing {
		if !model.IsDefault && !seen[model.ModelName] {
			rebuilt = append(rebuilt, model)
		}
	}

	return s.SetSettingOfProvider(ctx, provider, SettingModels, rebuilt)
}

func (s *settingsService) ToggleModelHidden(ctx context.Context, provider models.ProviderName, modelName string) error {
	existing, ok := s.providerModels(provider)
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}
	found := false
	for i := range existing {
		if existing[i].ModelName == modelName {
			existing[i].IsHidden = !existing[i].IsHidden
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("model %q not found for provider %q", modelName, provider)
	}
	return s.SetSettingOfProvider(ctx, provider, SettingModels, existing)
}

// AddModel appends a user model. Adding a name that already exists is a
// no-op: the list, storage, and listeners all stay untouched.
func (s *settingsService) AddModel(ctx context.Context, provider models.ProviderName, modelName string) error {
	if modelName == "" {
		return fmt.Errorf("model name is required")
	}
	existing, ok := s.providerModels(provider)
	if !ok {
		return fmt.Errorf("unknown provider %q", provider)
	}
	for _, model := range existing {
		if model.ModelName == modelName {
			return nil
		}
	}
	existing = append(existing, models.ModelInfo{ModelName: modelName})
	return s.SetSettingOfProvider(ctx, provider, SettingModels, existing)
}

// DeleteModel reports whether a model was found and removed.
func (s *settingsService) DeleteModel(ctx context.Context, provider models.ProviderName, modelName string) (bool, error) {
	existing, ok := s.providerModels(provider)
	if !ok {
		return false, fmt.Errorf("unknown provider %q", provider)
	}
	index := -1
	for i := range existing {
		if existing[i].ModelName == modelName {
			index = i
			break
		}
	}
	if index < 0 {
		return false, nil
	}
	trimmed := append(existing[:index], existing[index+1:]...)
	if err := s.SetSettingOfProvider(ctx, provider, SettingModels, trimmed); err != nil {
		return false, err
	}
	return true, nil
}

// providerModels returns a copy of the provider's model list so positional
// edits never touch the live document.
func (s *settingsService) providerModels(provider models.ProviderName) ([]models.ModelInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.state.SettingsOfProvider[provider]
	if !ok {
		return nil, false
	}
	out := make([]models.ModelInfo, len(settings.Models))
	copy(out, settings.Models)
	return out, true
}
