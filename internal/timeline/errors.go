package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCutPosition means the cut position falls outside the
	// entity's open interval (start, end)
	ErrInvalidCutPosition = errors.New("cut position outside entity bounds")

	// ErrLinkedTrackNotCuttable means a linked audio track was cut
	// directly; the owning clip must be cut instead
	ErrLinkedTrackNotCuttable = errors.New("linked audio track cannot be cut directly")

	// ErrLinkedTrackImmutable means a linked audio track was moved or
	// trimmed directly; it only follows its clip
	ErrLinkedTrackImmutable = errors.New("linked audio track follows its clip")

	// ErrNotFound means an operation referenced an unknown clip or track id
	ErrNotFound = errors.New("entity not found in timeline")
)

// OverlapError reports two entities on the same track with intersecting
// [start,end) intervals
type OverlapError struct {
	Track    int
	FirstID  string
	SecondID string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("track %d: %s overlaps %s", e.Track, e.FirstID, e.SecondID)
}

// DanglingLinkError reports an audio track whose linked clip id does not
// resolve to any clip in the timeline
type DanglingLinkError struct {
	TrackID string
	ClipID  string
}

func (e *DanglingLinkError) Error() string {
	return fmt.Sprintf("audio track %s links to missing clip %s", e.TrackID, e.ClipID)
}

// DesyncError reports a linked audio track whose start/end no longer equal
// its clip's start/end
type DesyncError struct {
	TrackID string
	ClipID  string
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("audio track %s out of sync with clip %s", e.TrackID, e.ClipID)
}
