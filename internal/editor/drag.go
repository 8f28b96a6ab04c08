// Package editor holds interaction state for a timeline editing session.
// The drag lifecycle is modelled as an explicit state machine rather than
// nullable fields, so an update cannot observe a half-started drag.
package editor

import "fmt"

// DragPhase is the current point in the drag lifecycle
type DragPhase int

const (
	PhaseIdle DragPhase = iota
	PhaseDragging
)

func (p DragPhase) String() string {
	if p == PhaseDragging {
		return "dragging"
	}
	return "idle"
}

// EntityKind distinguishes what is being dragged
type EntityKind string

const (
	EntityClip  EntityKind = "clip"
	EntityAudio EntityKind = "audio"
)

// DragState is an immutable snapshot of the drag machine. Transitions
// return a new value; the zero value is Idle.
type DragState struct {
	phase DragPhase
	kind  EntityKind
	id    string

	// offset between the pointer and the entity's start when the drag
	// began, so the entity does not jump to the cursor
	pointerOffset float64
}

// Idle returns the initial state
func Idle() DragState { return DragState{} }

// Phase reports the current lifecycle phase
func (s DragState) Phase() DragPhase { return s.phase }

// Dragging reports whether a drag is in flight
func (s DragState) Dragging() bool { return s.phase == PhaseDragging }

// Entity returns the dragged entity's kind and id. Only meaningful while
// Dragging reports true.
func (s DragState) Entity() (EntityKind, string) { return s.kind, s.id }

// Begin starts a drag of the given entity. pointerAt is the pointer's
// timeline position, entityStart the entity's current start.
func (s DragState) Begin(kind EntityKind, id string, pointerAt, entityStart float64) (DragState, error) {
	if s.phase != PhaseIdle {
		return s, fmt.Errorf("drag already in progress for %s %s", s.kind, s.id)
	}
	if id == "" {
		return s, fmt.Errorf("drag target id is empty")
	}
	return DragState{
		phase:         PhaseDragging,
		kind:          kind,
		id:            id,
		pointerOffset: pointerAt - entityStart,
	}, nil
}

// Target translates a pointer position into the entity's desired start,
// preserving the grab offset and clamping at zero
func (s DragState) Target(pointerAt float64) (float64, error) {
	if s.phase != PhaseDragging {
		return 0, fmt.Errorf("no drag in progress")
	}
	start := pointerAt - s.pointerOffset
	if start < 0 {
		start = 0
	}
	return start, nil
}

// End finishes the drag and returns to Idle
func (s DragState) End() DragState { return DragState{} }
