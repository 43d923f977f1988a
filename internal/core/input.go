package core

// Action represents a semantic input, abstracted from physical key presses.
// Ships consume the movement actions; the viewer consumes the rest.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveUp           // W - thrust forward along the heading
	ActionMoveDown         // S - thrust backwards
	ActionMoveLeft         // A - strafe left
	ActionMoveRight        // D - strafe right
	ActionStop             // key released
	ActionFire             // pointer down / space
	ActionPause            // P
	ActionRedraw           // F - force a full board redraw
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionStop:
		return "Stop"
	case ActionFire:
		return "Fire"
	case ActionPause:
		return "Pause"
	case ActionRedraw:
		return "Redraw"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
