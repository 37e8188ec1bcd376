package layout

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoCrtcAvailable = errors.New("no CRTC available to put onto new output")
	ErrEmptyLayout     = errors.New("layout has no active CRTC")
	ErrNoMode          = errors.New("output has no mode to enable")
	ErrSelfRelative    = errors.New("cannot position an output relative to itself")
)

type OutputDisabledError struct {
	Name string
}

func (e *OutputDisabledError) Error() string {
	return fmt.Sprintf("the output %q is disabled", e.Name)
}

type OutputNotFoundError struct {
	Name string
}

func (e *OutputNotFoundError) Error() string {
	return fmt.Sprintf("output %q not found", e.Name)
}

type CrtcNotFoundError struct {
	ID ID
}

func (e *CrtcNotFoundError) Error() string {
	return fmt.Sprintf("could not find crtc with xid %d", e.ID)
}

// ModeNotFoundError is returned for an unknown mode id or, when ID is 0,
// an unmatched mode name.
type ModeNotFoundError struct {
	ID   ID
	Name string
}

func (e *ModeNotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("no mode matching %q", e.Name)
	}
	return fmt.Sprintf("no mode found with xid %d", e.ID)
}

type InvalidRotationError uint16

func (e InvalidRotationError) Error() string {
	return fmt.Sprintf("invalid rotation: %d", uint16(e))
}

type UnsupportedRotationError struct {
	Crtc     ID
	Rotation Rotation
}

func (e *UnsupportedRotationError) Error() string {
	return fmt.Sprintf("crtc %d does not support rotation %s", e.Crtc, e.Rotation)
}

// ScreenSizeError means a layout needs a larger screen than the server allows.
type ScreenSizeError struct {
	Width, Height uint32
	Range         SizeRange
}

func (e *ScreenSizeError) Error() string {
	return fmt.Sprintf("screen size %dx%d exceeds maximum %dx%d",
		e.Width, e.Height, e.Range.MaxWidth, e.Range.MaxHeight)
}

// QueryError is a failed read of a server resource.
type QueryError struct {
	Op  string
	ID  ID
	Err error
}

func (e *QueryError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s for xid %d failed: %v", e.Op, e.ID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// LayoutError reports a violated layout invariant. It points at a planner
// bug, never at a server condition.
type LayoutError struct {
	Crtc   ID
	X, Y   int64
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid layout for crtc %d at (%d, %d): %s", e.Crtc, e.X, e.Y, e.Reason)
}
