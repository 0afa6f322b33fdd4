package broadcast

import "github.com/Iron-Ham/focusgate/internal/errors"

// Handlers maps each event to an optional typed callback. Nil fields mean the
// surface is not interested in that event. A handler returning an error is
// treated the same as one that panics: logged and isolated.
type Handlers struct {
	OnSiteAdded            func(SiteAdded) error
	OnSiteUpdated          func(SiteUpdated) error
	OnSiteDeleted          func(SiteDeleted) error
	OnGroupAdded           func(GroupAdded) error
	OnGroupUpdated         func(GroupUpdated) error
	OnGroupDeleted         func(GroupDeleted) error
	OnSiteAddedToGroup     func(SiteAddedToGroup) error
	OnSiteRemovedFromGroup func(SiteRemovedFromGroup) error
	OnQuickLimitAdded      func(QuickLimitAdded) error
}

// HandlersFor builds a Handlers value with only the handler for name set.
// fn receives the typed payload as an Event. Unknown names yield an empty set.
func HandlersFor(name EventName, fn func(Event) error) Handlers {
	var h Handlers
	if fn == nil {
		return h
	}
	switch name {
	case EventSiteAdded:
		h.OnSiteAdded = func(e SiteAdded) error { return fn(e) }
	case EventSiteUpdated:
		h.OnSiteUpdated = func(e SiteUpdated) error { return fn(e) }
	case EventSiteDeleted:
		h.OnSiteDeleted = func(e SiteDeleted) error { return fn(e) }
	case EventGroupAdded:
		h.OnGroupAdded = func(e GroupAdded) error { return fn(e) }
	case EventGroupUpdated:
		h.OnGroupUpdated = func(e GroupUpdated) error { return fn(e) }
	case EventGroupDeleted:
		h.OnGroupDeleted = func(e GroupDeleted) error { return fn(e) }
	case EventSiteAddedToGroup:
		h.OnSiteAddedToGroup = func(e SiteAddedToGroup) error { return fn(e) }
	case EventSiteRemovedFromGroup:
		h.OnSiteRemovedFromGroup = func(e SiteRemovedFromGroup) error { return fn(e) }
	case EventQuickLimitAdded:
		h.OnQuickLimitAdded = func(e QuickLimitAdded) error { return fn(e) }
	}
	return h
}

// AllHandlers builds a Handlers value that sends every known event to fn.
func AllHandlers(fn func(Event) error) Handlers {
	var h Handlers
	for _, name := range EventNames() {
		h = h.Merge(HandlersFor(name, fn))
	}
	return h
}

// Compose returns a set that runs each set's handler for an event in the
// given order. Every handler runs even if an earlier one fails; their errors
// are joined. A panic stops the chain for that event.
func Compose(sets ...Handlers) Handlers {
	var h Handlers
	for _, s := range sets {
		h.OnSiteAdded = chain(h.OnSiteAdded, s.OnSiteAdded)
		h.OnSiteUpdated = chain(h.OnSiteUpdated, s.OnSiteUpdated)
		h.OnSiteDeleted = chain(h.OnSiteDeleted, s.OnSiteDeleted)
		h.OnGroupAdded = chain(h.OnGroupAdded, s.OnGroupAdded)
		h.OnGroupUpdated = chain(h.OnGroupUpdated, s.OnGroupUpdated)
		h.OnGroupDeleted = chain(h.OnGroupDeleted, s.OnGroupDeleted)
		h.OnSiteAddedToGroup = chain(h.OnSiteAddedToGroup, s.OnSiteAddedToGroup)
		h.OnSiteRemovedFromGroup = chain(h.OnSiteRemovedFromGroup, s.OnSiteRemovedFromGroup)
		h.OnQuickLimitAdded = chain(h.OnQuickLimitAdded, s.OnQuickLimitAdded)
	}
	return h
}

func chain[T Event](first, second func(T) error) func(T) error {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(e T) error {
		return errors.Join(first(e), second(e))
	}
}

// Has reports whether a handler is registered for name.
func (h Handlers) Has(name EventName) bool {
	switch name {
	case EventSiteAdded:
		return h.OnSiteAdded != nil
	case EventSiteUpdated:
		return h.OnSiteUpdated != nil
	case EventSiteDeleted:
		return h.OnSiteDeleted != nil
	case EventGroupAdded:
		return h.OnGroupAdded != nil
	case EventGroupUpdated:
		return h.OnGroupUpdated != nil
	case EventGroupDeleted:
		return h.OnGroupDeleted != nil
	case EventSiteAddedToGroup:
		return h.OnSiteAddedToGroup != nil
	case EventSiteRemovedFromGroup:
		return h.OnSiteRemovedFromGroup != nil
	case EventQuickLimitAdded:
		return h.OnQuickLimitAdded != nil
	default:
		return false
	}
}

// Events lists the names this set has handlers for.
func (h Handlers) Events() []EventName {
	var names []EventName
	for _, name := range EventNames() {
		if h.Has(name) {
			names = append(names, name)
		}
	}
	return names
}

// Merge returns a set where every handler present in other replaces the one
// in h.
func (h Handlers) Merge(other Handlers) Handlers {
	if other.OnSiteAdded != nil {
		h.OnSiteAdded = other.OnSiteAdded
	}
	if other.OnSiteUpdated != nil {
		h.OnSiteUpdated = other.OnSiteUpdated
	}
	if other.OnSiteDeleted != nil {
		h.OnSiteDeleted = other.OnSiteDeleted
	}
	if other.OnGroupAdded != nil {
		h.OnGroupAdded = other.OnGroupAdded
	}
	if other.OnGroupUpdated != nil {
		h.OnGroupUpdated = other.OnGroupUpdated
	}
	if other.OnGroupDeleted != nil {
		h.OnGroupDeleted = other.OnGroupDeleted
	}
	if other.OnSiteAddedToGroup != nil {
		h.OnSiteAddedToGroup = other.OnSiteAddedToGroup
	}
	if other.OnSiteRemovedFromGroup != nil {
		h.OnSiteRemovedFromGroup = other.OnSiteRemovedFromGroup
	}
	if other.OnQuickLimitAdded != nil {
		h.OnQuickLimitAdded = other.OnQuickLimitAdded
	}
	return h
}

// call invokes the handler matching ev. The switch is exhaustive over the
// Event union; handled is false when no handler is registered.
func (h Handlers) call(ev Event) (handled bool, err error) {
	switch e := ev.(type) {
	case SiteAdded:
		if h.OnSiteAdded == nil {
			return false, nil
		}
		return true, h.OnSiteAdded(e)
	case SiteUpdated:
		if h.OnSiteUpdated == nil {
			return false, nil
		}
		return true, h.OnSiteUpdated(e)
	case SiteDeleted:
		if h.OnSiteDeleted == nil {
			return false, nil
		}
		return true, h.OnSiteDeleted(e)
	case GroupAdded:
		if h.OnGroupAdded == nil {
			return false, nil
		}
		return true, h.OnGroupAdded(e)
	case GroupUpdated:
		if h.OnGroupUpdated == nil {
			return false, nil
		}
		return true, h.OnGroupUpdated(e)
	case GroupDeleted:
		if h.OnGroupDeleted == nil {
			return false, nil
		}
		return true, h.OnGroupDeleted(e)
	case SiteAddedToGroup:
		if h.OnSiteAddedToGroup == nil {
			return false, nil
		}
		return true, h.OnSiteAddedToGroup(e)
	case SiteRemovedFromGroup:
		if h.OnSiteRemovedFromGroup == nil {
			return false, nil
		}
		return true, h.OnSiteRemovedFromGroup(e)
	case QuickLimitAdded:
		if h.OnQuickLimitAdded == nil {
			return false, nil
		}
		return true, h.OnQuickLimitAdded(e)
	default:
		return false, nil
	}
}
