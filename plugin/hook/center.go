package hook

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrInterrupt signals that a Hook handler wants to stop further processing.
// Only Before* events honour it as a veto.
var ErrInterrupt = errors.New("hook interrupted")

// HookFn is a hook handler function.
// Returns (modified data, nil) to continue, or (data, ErrInterrupt) to stop.
type HookFn func(ctx context.Context, event string, data interface{}) (interface{}, error)

type hookEntry struct {
	priority int
	fn       HookFn
	name     string
}

// HookCenter manages event hook registrations.
type HookCenter struct {
	mu    sync.RWMutex
	hooks map[string][]*hookEntry
}

// NewHookCenter creates a new HookCenter.
func NewHookCenter() *HookCenter {
	return &HookCenter{hooks: make(map[string][]*hookEntry)}
}

// Register adds a HookFn for the given event with the given priority (lower runs first).
// Equal priorities keep registration order. name is used for Unregister.
func (hc *HookCenter) Register(event string, priority int, name string, fn HookFn) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	entries := append(hc.hooks[event], &hookEntry{priority: priority, fn: fn, name: name})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})
	hc.hooks[event] = entries
}

// RegisterAll registers fn for every event in events.
func (hc *HookCenter) RegisterAll(events []string, priority int, name string, fn HookFn) {
	for _, ev := range events {
		hc.Register(ev, priority, name, fn)
	}
}

// Unregister removes all hooks with the given name for the given event.
func (hc *HookCenter) Unregister(event, name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	entries := hc.hooks[event]
	n := 0
	for _, e := range entries {
		if e.name != name {
			entries[n] = e
			n++
		}
	}
	hc.hooks[event] = entries[:n]
}

// Trigger executes all registered hooks for event in priority order.
// Data flows through each handler, allowing modification.
// If any handler returns ErrInterrupt, execution stops; other handler errors
// are ignored so one failing listener cannot starve the rest.
func (hc *HookCenter) Trigger(ctx context.Context, event string, data interface{}) (interface{}, error) {
	hc.mu.RLock()
	entries := make([]*hookEntry, len(hc.hooks[event]))
	copy(entries, hc.hooks[event])
	hc.mu.RUnlock()

	var err error
	for _, e := range entries {
		var out interface{}
		out, err = e.fn(ctx, event, data)
		if errors.Is(err, ErrInterrupt) {
			return out, err
		}
		if err == nil {
			data = out
		}
	}
	return data, nil
}

// ---- Table event names ----

const (
	BeforeInstanceSpawn = "before_instance_spawn"
	AfterInstanceSpawn  = "after_instance_spawn"
	OnCombatantAdded    = "on_combatant_added"
	OnCombatantRemoved  = "on_combatant_removed"
	OnInitiativeChange  = "on_initiative_change"
	OnHealthChange      = "on_health_change"
	OnCombatStart       = "on_combat_start"
	OnCombatStop        = "on_combat_stop"
)

// TableEvents lists the events that describe a change of the combat table.
var TableEvents = []string{
	AfterInstanceSpawn,
	OnCombatantAdded,
	OnCombatantRemoved,
	OnInitiativeChange,
	OnHealthChange,
	OnCombatStart,
	OnCombatStop,
}
