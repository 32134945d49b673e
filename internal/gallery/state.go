package gallery

import "fmt"

// State is a viewer's position in the gallery.
type State struct {
	Page int `json:"page"`
}

// Action is a navigation request.
type Action string

const (
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
)

// ParseAction converts a request value into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionNext, ActionPrevious:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown navigation action %q", s)
}

// CanPrevious reports whether a previous page exists.
func CanPrevious(state State, pageCount int) bool {
	return pageCount > 0 && state.Page > 0
}

// CanNext reports whether a next page exists.
func CanNext(state State, pageCount int) bool {
	return pageCount > 0 && state.Page < pageCount-1
}

// Previous moves back one page. It is a no-op on the first page.
func Previous(state State, pageCount int) State {
	if !CanPrevious(state, pageCount) {
		return state
	}
	return State{Page: state.Page - 1}
}

// Next moves forward one page. It is a no-op on the last page.
func Next(state State, pageCount int) State {
	if !CanNext(state, pageCount) {
		return state
	}
	return State{Page: state.Page + 1}
}

// Clamp resets to page 0 when the page count no longer covers state.
func Clamp(state State, pageCount int) State {
	if state.Page < 0 || state.Page >= pageCount {
		return State{}
	}
	return state
}
