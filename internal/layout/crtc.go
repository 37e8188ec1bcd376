package layout

import (
	"math"
	"slices"
)

// MaxCoordinate is the largest position the server can represent.
const MaxCoordinate = math.MaxInt16

// Crtc is a snapshot of a hardware scan-out slot. Values are never shared
// with the server; the With* methods return modified copies.
type Crtc struct {
	ID        ID
	Timestamp uint32

	// X and Y may be negative only while a planner has not normalized yet.
	X, Y int
	// Width and Height already account for the current rotation.
	Width, Height uint32

	Mode     ID
	Rotation Rotation
	Outputs  []ID

	// Rotations is the bitmask of supported rotations.
	Rotations uint16
	Possible  []ID
}

// Enabled reports whether the CRTC takes part in the layout.
func (c Crtc) Enabled() bool {
	return c.Mode != 0
}

// Clone returns a deep copy.
func (c Crtc) Clone() Crtc {
	c.Outputs = slices.Clone(c.Outputs)
	c.Possible = slices.Clone(c.Possible)
	return c
}

// WithPosition returns a copy placed at (x, y). The position is not checked;
// run the set through Normalize before applying it.
func (c Crtc) WithPosition(x, y int) Crtc {
	n := c.Clone()
	n.X, n.Y = x, y
	return n
}

// WithMode returns a copy driving outputs with mode.
func (c Crtc) WithMode(mode ID, outputs ...ID) Crtc {
	n := c.Clone()
	n.Mode = mode
	n.Outputs = slices.Clone(outputs)
	return n
}

// WithRotation returns a copy shown with rotation r, its size adjusted.
func (c Crtc) WithRotation(r Rotation) Crtc {
	n := c.Clone()
	n.Width, n.Height = c.RotatedSize(r)
	n.Rotation = r
	return n
}

// Drives reports whether the CRTC currently shows output o.
func (c Crtc) Drives(o ID) bool {
	return slices.Contains(c.Outputs, o)
}

// CanDrive reports whether output o may be assigned to the CRTC.
func (c Crtc) CanDrive(o ID) bool {
	return slices.Contains(c.Possible, o)
}

// SupportsRotation reports whether r is in the supported bitmask. An empty
// bitmask is treated as unknown and accepts everything.
func (c Crtc) SupportsRotation(r Rotation) bool {
	return c.Rotations == 0 || c.Rotations&uint16(r) != 0
}

// RotatedSize returns the size of the CRTC once shown with rotation r.
func (c Crtc) RotatedSize(r Rotation) (uint32, uint32) {
	return RotatedSize(c.Width, c.Height, c.Rotation, r)
}

// Offset returns a copy shifted by (dx, dy). The result must be a normalized
// position the server can represent.
func (c Crtc) Offset(dx, dy int) (Crtc, error) {
	x := int64(c.X) + int64(dx)
	y := int64(c.Y) + int64(dy)

	if x > MaxCoordinate || y > MaxCoordinate {
		return Crtc{}, &LayoutError{Crtc: c.ID, X: x, Y: y, Reason: "position overflows"}
	}
	if x < 0 || y < 0 {
		return Crtc{}, &LayoutError{Crtc: c.ID, X: x, Y: y, Reason: "position is negative"}
	}

	return c.WithPosition(int(x), int(y)), nil
}

// MaxCoordinates returns the bottom-right corner of the occupied rectangle.
// The CRTC must be normalized.
func (c Crtc) MaxCoordinates() (uint32, uint32, error) {
	if c.X < 0 || c.Y < 0 {
		return 0, 0, &LayoutError{Crtc: c.ID, X: int64(c.X), Y: int64(c.Y), Reason: "not normalized"}
	}
	return uint32(c.X) + c.Width, uint32(c.Y) + c.Height, nil
}

// config returns the request that shows the CRTC as it is.
func (c Crtc) config() CrtcConfig {
	return CrtcConfig{
		Crtc:      c.ID,
		Timestamp: TimeCurrent,
		X:         c.X,
		Y:         c.Y,
		Mode:      c.Mode,
		Rotation:  c.Rotation,
		Outputs:   slices.Clone(c.Outputs),
	}
}

// Apply configures the CRTC on the server with its position, mode, rotation
// and outputs. The server decides whether the configuration is legal.
func (c Crtc) Apply(s Server) error {
	return s.SetCrtcConfig(c.config())
}

// Disable turns the CRTC off.
func (c Crtc) Disable(s Server) error {
	return s.SetCrtcConfig(CrtcConfig{
		Crtc:      c.ID,
		Timestamp: TimeCurrent,
		Rotation:  RotationNormal,
	})
}
