package layout

import (
	"fmt"
	"strings"
)

// ID is an opaque display-server handle for a CRTC, output or mode.
// The zero value means "none".
type ID uint32

// TimeCurrent tells the server to apply a configuration unconditionally.
const TimeCurrent uint32 = 0

// Rotation is the orientation of a CRTC, using the RandR wire values.
type Rotation uint16

const (
	RotationNormal   Rotation = 1
	RotationLeft     Rotation = 2
	RotationInverted Rotation = 4
	RotationRight    Rotation = 8
)

var rotationNames = map[Rotation]string{
	RotationNormal:   "normal",
	RotationLeft:     "left",
	RotationInverted: "inverted",
	RotationRight:    "right",
}

// ParseRotation decodes a rotation value as reported by the server.
func ParseRotation(v uint16) (Rotation, error) {
	r := Rotation(v)
	if _, ok := rotationNames[r]; !ok {
		return 0, InvalidRotationError(v)
	}
	return r, nil
}

// ParseRotationName accepts normal, left, inverted or right.
func ParseRotationName(name string) (Rotation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for r, n := range rotationNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("invalid rotation: %q, should be one of: normal, left, inverted, right", name)
}

func (r Rotation) String() string {
	if n, ok := rotationNames[r]; ok {
		return n
	}
	return fmt.Sprintf("rotation(%d)", uint16(r))
}

// portrait reports whether r swaps the width and height of the unrotated mode.
func (r Rotation) portrait() bool {
	return r == RotationLeft || r == RotationRight
}

// Relation places one output's rectangle against another's.
type Relation int

const (
	LeftOf Relation = iota
	RightOf
	Above
	Below
	SameAs
)

var relationNames = []string{
	LeftOf:  "left-of",
	RightOf: "right-of",
	Above:   "above",
	Below:   "below",
	SameAs:  "same-as",
}

// ParseRelation accepts left-of, right-of, above, below or same-as.
func ParseRelation(name string) (Relation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range relationNames {
		if n == name {
			return Relation(i), nil
		}
	}
	return 0, fmt.Errorf("invalid relation: %q, should be one of: %s", name, strings.Join(relationNames, ", "))
}

func (r Relation) String() string {
	if r < 0 || int(r) >= len(relationNames) {
		return fmt.Sprintf("relation(%d)", int(r))
	}
	return relationNames[r]
}

// Mode is an immutable resolution and refresh description.
type Mode struct {
	ID       ID
	Name     string
	Width    uint32
	Height   uint32
	DotClock uint32
	HTotal   uint32
	VTotal   uint32
}

// RotatedSize returns the size the mode occupies when shown with rotation r.
func (m Mode) RotatedSize(r Rotation) (uint32, uint32) {
	return RotatedSize(m.Width, m.Height, RotationNormal, r)
}

// RefreshRate in Hz, 0 if the timings are unknown.
func (m Mode) RefreshRate() float64 {
	if m.HTotal == 0 || m.VTotal == 0 {
		return 0
	}
	return float64(m.DotClock) / (float64(m.HTotal) * float64(m.VTotal))
}

func (m Mode) String() string {
	if rate := m.RefreshRate(); rate > 0 {
		return fmt.Sprintf("%dx%d@%.2f", m.Width, m.Height, rate)
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Output is a physical connector. It is read-only input to the planners.
type Output struct {
	ID   ID
	Name string

	// Crtc is the CRTC currently driving the output, 0 if none.
	Crtc ID
	// CurrentMode is 0 when the output is disabled.
	CurrentMode ID
	// PreferredModes are in priority order and are a prefix of Modes.
	PreferredModes []ID
	Modes          []ID

	Connected bool
	Primary   bool

	MmWidth  uint32
	MmHeight uint32
}

// Enabled reports whether the output is currently shown.
func (o Output) Enabled() bool {
	return o.CurrentMode != 0
}

// PreferredMode returns the first preferred mode, falling back to the first
// supported mode for outputs that advertise no preference.
func (o Output) PreferredMode() ID {
	if len(o.PreferredModes) > 0 {
		return o.PreferredModes[0]
	}
	if len(o.Modes) > 0 {
		return o.Modes[0]
	}
	return 0
}

// ScreenSize is the virtual screen size in pixels and millimeters.
type ScreenSize struct {
	Width    uint32
	Height   uint32
	WidthMM  uint32
	HeightMM uint32
}

func (s ScreenSize) String() string {
	return fmt.Sprintf("%dx%d (%dx%dmm)", s.Width, s.Height, s.WidthMM, s.HeightMM)
}

// SizeRange bounds the virtual screen size the server accepts.
type SizeRange struct {
	MinWidth, MinHeight uint32
	MaxWidth, MaxHeight uint32
}

// CrtcConfig holds the arguments of the "set CRTC configuration" request.
// A zero Mode with no outputs disables the CRTC.
type CrtcConfig struct {
	Crtc      ID
	Timestamp uint32
	X, Y      int
	Mode      ID
	Rotation  Rotation
	Outputs   []ID
}
