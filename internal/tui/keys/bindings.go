package keys

import "github.com/gdamore/tcell/v2"

// Action binds a key to a handler plus the hint shown in the status bar.
type Action struct {
	Key         tcell.Key
	Rune        rune
	Description string
	Handler     func()
	Visible     bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

type namedAction struct {
	name   string
	action *Action
}

// Registry holds keybindings organized by scope. Registration order is
// preserved so hints render in a stable order.
type Registry struct {
	global []namedAction
	views  map[string][]namedAction
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string][]namedAction),
	}
}

// AddGlobal registers a global keybinding. Re-registering a name replaces
// the earlier binding in place.
func (r *Registry) AddGlobal(name string, action *Action) {
	r.global = upsert(r.global, name, action)
}

// AddView registers a view-specific keybinding.
func (r *Registry) AddView(view, name string, action *Action) {
	r.views[view] = upsert(r.views[view], name, action)
}

func upsert(list []namedAction, name string, action *Action) []namedAction {
	for i := range list {
		if list[i].name == name {
			list[i].action = action
			return list
		}
	}
	return append(list, namedAction{name: name, action: action})
}

// Hints returns visible keybinding descriptions for a given view, view
// bindings first, in registration order.
func (r *Registry) Hints(view string) []string {
	var hints []string
	for _, na := range r.views[view] {
		if na.action.Visible {
			hints = append(hints, na.action.Description)
		}
	}
	for _, na := range r.global {
		if na.action.Visible {
			hints = append(hints, na.action.Description)
		}
	}
	return hints
}

// HandleEvent dispatches a key event to the matching action in the given
// view. View bindings win over global ones. Returns true if a handler ran.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, na := range r.views[view] {
		if na.action.Matches(ev) {
			na.action.Handler()
			return true
		}
	}
	for _, na := range r.global {
		if na.action.Matches(ev) {
			na.action.Handler()
			return true
		}
	}
	return false
}
