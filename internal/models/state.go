package models

// SidebarState mirrors what the sidebar pane needs to render.
type SidebarState struct {
	IsOpen    bool   `json:"isOpen"`
	ActiveTab string `json:"activeTab"` // "chat" | "settings" | "history"
}

func DefaultSidebarState() SidebarState {
	return SidebarState{IsOpen: true, ActiveTab: "chat"}
}

// ThreadState is the thread domain snapshot: every thread plus the id of the
// one currently open in the chat pane.
type ThreadState struct {
	CurrentThreadID string       `json:"currentThreadId"`
	Threads         []ChatThread `json:"threads"`
}

type QuickEditStatus string

const (
	QuickEditIdle     QuickEditStatus = "idle"
	QuickEditEditing  QuickEditStatus = "editing"
	QuickEditApplying QuickEditStatus = "applying"
)

// QuickEditState tracks the inline-edit session bound to the editor.
type QuickEditState struct {
	SessionID    string          `json:"sessionId"`
	Status       QuickEditStatus `json:"status"`
	Instructions string          `json:"instructions"`
}

// ThemeState carries the active color theme kind.
type ThemeState struct {
	Kind string `json:"kind"` // "light" | "dark" | "highContrast"
}

func DefaultThemeState() ThemeState {
	return ThemeState{Kind: "dark"}
}

type RefreshStatus string

const (
	RefreshIdle       RefreshStatus = "idle"
	RefreshInProgress RefreshStatus = "refreshing"
	RefreshDone       RefreshStatus = "done"
	RefreshError      RefreshStatus = "error"
)

// RefreshState is the per-provider model-discovery progress snapshot.
type RefreshState struct {
	StateOfProvider map[ProviderName]RefreshStatus `json:"stateOfProvider"`
}

func DefaultRefreshState() RefreshState {
	state := RefreshState{StateOfProvider: make(map[ProviderName]RefreshStatus)}
	for _, provider := range AllProviderNames() {
		state.StateOfProvider[provider] = RefreshIdle
	}
	return state
}

// Clone copies the map so a published snapshot is never mutated afterwards.
func (r RefreshState) Clone() RefreshState {
	out := RefreshState{StateOfProvider: make(map[ProviderName]RefreshStatus, len(r.StateOfProvider))}
	for provider, status := range r.StateOfProvider {
		out.StateOfProvider[provider] = status
	}
	return out
}
