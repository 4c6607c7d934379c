package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voidstate/internal/models"
)

func TestSidebarService(t *testing.T) {
	svc := NewSidebarService()
	var last models.SidebarState
	svc.Subscribe(func(state models.SidebarState) { last = state })

	svc.Toggle()
	assert.False(t, last.IsOpen)

	require.NoError(t, svc.SetActiveTab("settings"))
	assert.Equal(t, "settings", last.ActiveTab)

	assert.Error(t, svc.SetActiveTab("bogus"))

	svc.SetOpen(true)
	assert.True(t, svc.State().IsOpen)
}

func TestThemeService(t *testing.T) {
	svc := NewThemeService()
	assert.Equal(t, "dark", svc.State().Kind)

	require.NoError(t, svc.SetTheme("light"))
	assert.Equal(t, "light", svc.State().Kind)

	assert.Error(t, svc.SetTheme("sepia"))
	assert.Equal(t, "light", svc.State().Kind)
}

func TestQuickEditService_Lifecycle(t *testing.T) {
	svc := NewQuickEditService()
	var statuses []models.QuickEditStatus
	svc.Subscribe(func(state models.QuickEditState) { statuses = append(statuses, state.Status) })

	id := svc.Begin("rename this function")
	require.NotEmpty(t, id)
	assert.Equal(t, models.QuickEditEditing, svc.State().Status)

	require.NoError(t, svc.UpdateInstructions(id, "rename to parseConfig"))
	assert.Equal(t, "rename to parseConfig", svc.State().Instructions)

	require.NoError(t, svc.Accept(id))
	assert.Equal(t, models.QuickEditIdle, svc.State().Status)
	assert.Equal(t, []models.QuickEditStatus{
		models.QuickEditEditing,
		models.QuickEditEditing,
		models.QuickEditApplying,
		models.QuickEditIdle,
	}, statuses)

	// the session is gone; further edits are misuse
	assert.Error(t, svc.UpdateInstructions(id, "again"))
	assert.Error(t, svc.Reject(id))
}

func TestQuickEditService_Reject(t *testing.T) {
	svc := NewQuickEditService()
	id := svc.Begin("delete dead code")

	require.NoError(t, svc.Reject(id))
	assert.Equal(t, models.QuickEditIdle, svc.State().Status)
	assert.Empty(t, svc.State().Instructions)
}
