package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsDocument_NoAliasing(t *testing.T) {
	a := DefaultSettingsDocument()
	b := DefaultSettingsDocument()

	settings := a.SettingsOfProvider[ProviderOpenAI]
	settings.Models[0].IsHidden = true
	settings.Enabled = true
	a.SettingsOfProvider[ProviderOpenAI] = settings
	a.FeatureFlagSettings[FlagAutoApprove] = true

	assert.False(t, b.SettingsOfProvider[ProviderOpenAI].Models[0].IsHidden)
	assert.False(t, b.SettingsOfProvider[ProviderOpenAI].Enabled)
	assert.False(t, b.FeatureFlagSettings[FlagAutoApprove])
}

func TestDefaultSettingsDocument_CoversAllKeys(t *testing.T) {
	doc := DefaultSettingsDocument()

	assert.Len(t, doc.SettingsOfProvider, len(AllProviderNames()))
	assert.Len(t, doc.ModelSelectionOfFeature, len(AllFeatureNames()))
	assert.Len(t, doc.FeatureFlagSettings, len(AllFlagNames()))
	assert.Equal(t, CurrentSettingsVersion, doc.Version)
}

func TestSettingsDocument_CloneIsDeep(t *testing.T) {
	doc := DefaultSettingsDocument()
	sel := &ModelSelection{ProviderName: ProviderOpenAI, ModelName: "gpt-4o"}
	doc.ModelSelectionOfFeature[FeatureChat] = sel

	clone := doc.Clone()
	require.Equal(t, doc, clone)

	clone.FeatureFlagSettings[FlagSyncThreads] = true
	clone.ModelSelectionOfFeature[FeatureChat].ModelName = "other"
	settings := clone.SettingsOfProvider[ProviderOpenAI]
	settings.Models[0].ModelName = "mutated"
	clone.SettingsOfProvider[ProviderOpenAI] = settings

	assert.False(t, doc.FeatureFlagSettings[FlagSyncThreads])
	assert.Equal(t, "gpt-4o", doc.ModelSelectionOfFeature[FeatureChat].ModelName)
	assert.Equal(t, "gpt-4o", doc.SettingsOfProvider[ProviderOpenAI].Models[0].ModelName)
}

func TestFillMissing_BackfillsEverything(t *testing.T) {
	doc := &SettingsDocument{}
	doc.FillMissing()

	assert.Len(t, doc.SettingsOfProvider, len(AllProviderNames()))
	assert.Len(t, doc.ModelSelectionOfFeature, len(AllFeatureNames()))
	assert.Len(t, doc.FeatureFlagSettings, len(AllFlagNames()))
}

func TestFillMissing_KeepsExistingEntries(t *testing.T) {
	doc := &SettingsDocument{
		SettingsOfProvider: map[ProviderName]ProviderSettings{
			ProviderOllama: {Enabled: true, Endpoint: "http://box:11434"},
		},
		FeatureFlagSettings: map[FlagName]bool{FlagAutoRefreshModels: false},
	}
	doc.FillMissing()

	assert.True(t, doc.SettingsOfProvider[ProviderOllama].Enabled)
	assert.Equal(t, "http://box:11434", doc.SettingsOfProvider[ProviderOllama].Endpoint)
	assert.False(t, doc.FeatureFlagSettings[FlagAutoRefreshModels])
}
