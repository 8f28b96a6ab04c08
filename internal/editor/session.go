package editor

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sableview/montage/internal/timeline"
)

// Session owns the working timeline for one editing sitting. Every edit
// goes through timeline.Apply, so the held timeline is always valid; a
// rejected operation leaves it untouched.
type Session struct {
	logger zerolog.Logger
	tl     *timeline.Timeline
	drag   DragState
}

func NewSession(logger zerolog.Logger, tl *timeline.Timeline) *Session {
	if tl == nil {
		tl = timeline.NewDefault()
	}
	return &Session{
		logger: logger.With().Str("component", "editor").Logger(),
		tl:     tl,
		drag:   Idle(),
	}
}

// Timeline returns the current timeline. Callers must not mutate it;
// edits go through Apply.
func (s *Session) Timeline() *timeline.Timeline { return s.tl }

// Apply runs one edit operation against the session timeline
func (s *Session) Apply(op timeline.Op) error {
	next, err := timeline.Apply(s.tl, op)
	if err != nil {
		s.logger.Debug().Err(err).Msg("edit rejected")
		return err
	}
	s.tl = next
	return nil
}

// BeginDrag starts dragging a clip or audio track under the pointer
func (s *Session) BeginDrag(kind EntityKind, id string, pointerAt float64) error {
	var start float64
	switch kind {
	case EntityClip:
		c := s.tl.ClipByID(id)
		if c == nil {
			return fmt.Errorf("drag clip %s: %w", id, timeline.ErrNotFound)
		}
		start = c.Start
	case EntityAudio:
		a := s.tl.AudioByID(id)
		if a == nil {
			return fmt.Errorf("drag audio %s: %w", id, timeline.ErrNotFound)
		}
		if a.Linked() {
			return fmt.Errorf("drag audio %s: %w", id, timeline.ErrLinkedTrackImmutable)
		}
		start = a.Start
	default:
		return fmt.Errorf("unknown drag entity kind %q", kind)
	}

	next, err := s.drag.Begin(kind, id, pointerAt, start)
	if err != nil {
		return err
	}
	s.drag = next
	return nil
}

// DragTarget previews where the dragged entity would land for the given
// pointer position, without committing anything
func (s *Session) DragTarget(pointerAt float64) (float64, error) {
	return s.drag.Target(pointerAt)
}

// EndDrag commits the drag as a move at the final pointer position and
// returns the machine to idle. The timeline is unchanged if the move is
// rejected; the drag still ends.
func (s *Session) EndDrag(pointerAt float64) error {
	target, err := s.drag.Target(pointerAt)
	if err != nil {
		return err
	}
	kind, id := s.drag.Entity()
	s.drag = s.drag.End()

	switch kind {
	case EntityClip:
		c := s.tl.ClipByID(id)
		if c == nil {
			return fmt.Errorf("drag clip %s: %w", id, timeline.ErrNotFound)
		}
		return s.Apply(timeline.MoveClip{ID: id, Track: c.Track, Start: target})
	case EntityAudio:
		a := s.tl.AudioByID(id)
		if a == nil {
			return fmt.Errorf("drag audio %s: %w", id, timeline.ErrNotFound)
		}
		return s.Apply(timeline.MoveAudio{ID: id, Track: a.Track, Start: target})
	}
	return fmt.Errorf("unknown drag entity kind %q", kind)
}

// CancelDrag abandons an in-flight drag without moving anything
func (s *Session) CancelDrag() { s.drag = s.drag.End() }

// Drag exposes the current drag state for rendering
func (s *Session) Drag() DragState { return s.drag }
