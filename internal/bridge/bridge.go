// Package bridge mirrors the latest known state of every domain into a
// cache UI components can read synchronously, and fans domain change
// notifications out to per-component subscribers. It is an explicit object
// owned by the app, not package-level state.
package bridge

import (
	"fmt"
	"log"
	"sync"

	"voidstate/internal/events"
	"voidstate/internal/models"
	"voidstate/internal/services"
)

type Domain string

const (
	DomainSettings  Domain = "settings"
	DomainSidebar   Domain = "sidebar"
	DomainThreads   Domain = "threads"
	DomainQuickEdit Domain = "quickEdit"
	DomainRefresh   Domain = "refreshModel"
	DomainTheme     Domain = "theme"
)

func AllDomains() []Domain {
	return []Domain{DomainSettings, DomainSidebar, DomainThreads, DomainQuickEdit, DomainRefresh, DomainTheme}
}

// ServiceName identifies a service handle for lookup through the bridge.
type ServiceName string

const (
	ServiceSettings  ServiceName = "settingsService"
	ServiceThreads   ServiceName = "threadService"
	ServiceSidebar   ServiceName = "sidebarService"
	ServiceQuickEdit ServiceName = "quickEditService"
	ServiceTheme     ServiceName = "themeService"
	ServiceRefresh   ServiceName = "refreshModelService"
)

// ErrNotInitialized signals programmer misuse: a service handle was looked
// up before Initialize ran. This is intentionally loud; snapshots, by
// contrast, degrade to benign defaults.
var ErrNotInitialized = fmt.Errorf("bridge: not initialized")

// SettingsSnapshot pairs the settings document with its derived options, the
// two things the settings panes read together.
type SettingsSnapshot struct {
	Document *models.SettingsDocument
	Options  []models.ModelOption
}

// Handle proves Initialize ran; repeated Initialize calls return the same one.
type Handle struct {
	bridge *Bridge
}

type Bridge struct {
	services *services.Services

	mu          sync.Mutex
	initialized bool
	handle      *Handle
	upstream    []*events.Subscription

	settingsSnap  SettingsSnapshot
	sidebarSnap   models.SidebarState
	threadsSnap   models.ThreadState
	quickEditSnap models.QuickEditState
	refreshSnap   models.RefreshState
	themeSnap     models.ThemeState

	notifiers map[Domain]*events.Emitter[struct{}]
}

// New constructs the bridge with benign default caches. Nothing listens
// until Initialize.
func New(svc *services.Services) *Bridge {
	notifiers := make(map[Domain]*events.Emitter[struct{}], len(AllDomains()))
	for _, domain := range AllDomains() {
		notifiers[domain] = events.NewEmitter[struct{}]()
	}
	return &Bridge{
		services:      svc,
		settingsSnap:  SettingsSnapshot{Document: models.DefaultSettingsDocument()},
		sidebarSnap:   models.DefaultSidebarState(),
		quickEditSnap: models.QuickEditState{Status: models.QuickEditIdle},
		refreshSnap:   models.DefaultRefreshState(),
		themeSnap:     models.DefaultThemeState(),
		notifiers:     notifiers,
	}
}

// Initialize performs exactly one subscription per underlying domain event
// and seeds every cache. It is idempotent: repeat calls log a diagnostic and
// return the original handle.
func (b *Bridge) Initialize() *Handle {
	b.mu.Lock()
	if b.initialized {
		b.mu.Unlock()
		log.Printf("bridge: Initialize called more than once; ignoring")
		return b.handle
	}
	b.initialized = true
	b.handle = &Handle{bridge: b}

	svc := b.services
	b.settingsSnap = SettingsSnapshot{Document: svc.Settings.State(), Options: svc.Settings.ModelOptions()}
	b.sidebarSnap = svc.Sidebar.State()
	b.threadsSnap = svc.Threads.State()
	b.quickEditSnap = svc.QuickEdit.State()
	b.refreshSnap = svc.Refresh.State()
	b.themeSnap = svc.Theme.State()
	b.mu.Unlock()

	b.upstream = append(b.upstream,
		svc.Settings.Subscribe(func(services.SettingsEvent) {
			b.update(DomainSettings, func() {
				b.settingsSnap = SettingsSnapshot{Document: svc.Settings.State(), Options: svc.Settings.ModelOptions()}
			})
		}),
		svc.Sidebar.Subscribe(func(state models.SidebarState) {
			b.update(DomainSidebar, func() { b.sidebarSnap = state })
		}),
		svc.Threads.Subscribe(func(state models.ThreadState) {
			b.update(DomainThreads, func() { b.threadsSnap = state })
		}),
		svc.QuickEdit.Subscribe(func(state models.QuickEditState) {
			b.update(DomainQuickEdit, func() { b.quickEditSnap = state })
		}),
		svc.Refresh.Subscribe(func(state models.RefreshState) {
			b.update(DomainRefresh, func() { b.refreshSnap = state })
		}),
		svc.Theme.Subscribe(func(state models.ThemeState) {
			b.update(DomainTheme, func() { b.themeSnap = state })
		}),
	)
	return b.handle
}

func (b *Bridge) update(domain Domain, apply func()) {
	b.mu.Lock()
	apply()
	b.mu.Unlock()
	b.notifiers[domain].Fire(struct{}{})
}

// Shutdown detaches the upstream subscriptions. Subscriber registries are
// left as-is; components stop being notified.
func (b *Bridge) Shutdown() {
	for _, sub := range b.upstream {
		sub.Dispose()
	}
	b.upstream = nil
}

// Subscribe registers a component callback for one domain under the
// component's key. Re-subscribing the same key is a no-op; disposing the
// subscription on unmount is idempotent.
func (b *Bridge) Subscribe(domain Domain, key string, fn func()) (*events.Subscription, error) {
	notifier, ok := b.notifiers[domain]
	if !ok {
		return nil, fmt.Errorf("unknown domain %q", domain)
	}
	return notifier.SubscribeWithKey(key, func(struct{}) { fn() }), nil
}

// Service returns the strongly-identified handle for name. Querying before
// Initialize is a programmer error and fails loudly.
func (b *Bridge) Service(name ServiceName) (any, error) {
	b.mu.Lock()
	initialized := b.initialized
	b.mu.Unlock()
	if !initialized {
		return nil, fmt.Errorf("%w: service %q requested too early", ErrNotInitialized, name)
	}

	switch name {
	case ServiceSettings:
		return b.services.Settings, nil
	case ServiceThreads:
		return b.services.Threads, nil
	case ServiceSidebar:
		return b.services.Sidebar, nil
	case ServiceQuickEdit:
		return b.services.QuickEdit, nil
	case ServiceTheme:
		return b.services.Theme, nil
	case ServiceRefresh:
		return b.services.Refresh, nil
	default:
		return nil, fmt.Errorf("unknown service %q", name)
	}
}

// Snapshot accessors read the latest cached value synchronously. Before
// Initialize they return the benign defaults seeded at construction.

func (b *Bridge) SettingsSnapshot() SettingsSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.settingsSnap
}

func (b *Bridge) SidebarSnapshot() models.SidebarState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sidebarSnap
}

func (b *Bridge) ThreadsSnapshot() models.ThreadState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.threadsSnap
}

func (b *Bridge) QuickEditSnapshot() models.QuickEditState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quickEditSnap
}

func (b *Bridge) RefreshSnapshot() models.RefreshState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshSnap
}

func (b *Bridge) ThemeSnapshot() models.ThemeState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.themeSnap
}
