// Package hooking provides the observation side-channel of the overlay
// network. Components invoke hooks at well-known positions; hooks never
// influence the behavior of the component that invokes them.
package hooking

import (
	"reflect"
	"sync"
)

// HookPos names a place in a component where hooks are invoked.
type HookPos struct {
	Name string
}

// HookCtx describes one invocation: which component fired, where, and the
// item it is reporting.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable is a component that observers can attach to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	Hooks() []Hook
}

// Hook observes the items reported by a Hookable.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc lets a plain function serve as a Hook. Functions cannot be
// compared, so a HookFunc is never detected as a duplicate and cannot be
// detached. The same holds for any hook whose type is not comparable; attach
// hooks by pointer to be able to detach them.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// Named is implemented by domains and items that have a name.
type Named interface {
	Name() string
}

// Kinded is implemented by items that belong to a category, such as events.
type Kinded interface {
	Kind() string
}

// HookableBase keeps the hooks of a component. Hooks may be attached or
// detached while another goroutine invokes them; an invocation sees the
// hooks attached when it started.
type HookableBase struct {
	lock  sync.RWMutex
	hooks []Hook
}

// NumHooks returns the number of attached hooks.
func (h *HookableBase) NumHooks() int {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return len(h.hooks)
}

// Hooks returns the attached hooks in attachment order.
func (h *HookableBase) Hooks() []Hook {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return append([]Hook(nil), h.hooks...)
}

// AcceptHook attaches a hook. Attaching the same comparable hook twice
// panics.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.indexOf(hook) >= 0 {
		panic("hook attached twice")
	}

	hooks := make([]Hook, len(h.hooks), len(h.hooks)+1)
	copy(hooks, h.hooks)
	h.hooks = append(hooks, hook)
}

// DetachHook removes a hook. It reports whether the hook was attached.
func (h *HookableBase) DetachHook(hook Hook) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	i := h.indexOf(hook)
	if i < 0 {
		return false
	}

	hooks := make([]Hook, 0, len(h.hooks)-1)
	hooks = append(hooks, h.hooks[:i]...)
	h.hooks = append(hooks, h.hooks[i+1:]...)

	return true
}

// indexOf only matches hooks of comparable types; others, such as HookFunc
// or structs holding maps, are never found.
func (h *HookableBase) indexOf(hook Hook) int {
	if !isComparable(hook) {
		return -1
	}

	for i, attached := range h.hooks {
		if isComparable(attached) && attached == hook {
			return i
		}
	}

	return -1
}

func isComparable(hook Hook) bool {
	t := reflect.TypeOf(hook)
	return t != nil && t.Comparable()
}

// InvokeHook reports ctx to every attached hook.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	h.lock.RLock()
	hooks := h.hooks
	h.lock.RUnlock()

	for _, hook := range hooks {
		hook.Func(ctx)
	}
}

// DomainName returns the name of the component that fired, if it has one.
func DomainName(ctx HookCtx) string {
	if n, ok := ctx.Domain.(Named); ok {
		return n.Name()
	}

	return ""
}

// ItemKind returns the kind of the reported item, falling back to the name
// of the position.
func ItemKind(ctx HookCtx) string {
	if k, ok := ctx.Item.(Kinded); ok {
		return k.Kind()
	}

	if ctx.Pos != nil {
		return ctx.Pos.Name
	}

	return ""
}
