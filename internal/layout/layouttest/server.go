// Package layouttest provides an in-memory RandR server for tests.
package layouttest

import (
	"fmt"
	"slices"

	"github.com/fyshos/screens/internal/layout"
)

var _ layout.Server = (*Server)(nil)

// Call is one recorded mutation.
type Call struct {
	Op     string // SetCrtcConfig, SetScreenSize or SetOutputPrimary
	Config layout.CrtcConfig
	Size   layout.ScreenSize
	Output layout.ID
}

// Server behaves like an X server with RandR: CRTC widths follow their mode
// and rotation, outputs follow their CRTC, and no active CRTC may lie
// outside the screen.
type Server struct {
	CrtcList   []layout.Crtc
	OutputList []layout.Output
	ModeList   []layout.Mode
	Screen     layout.ScreenSize
	Range      layout.SizeRange

	// Fail makes the named operation return an error.
	Fail map[string]error

	Calls []Call
}

func (s *Server) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail[op]
}

// Mutations returns the recorded calls of op.
func (s *Server) Mutations(op string) []Call {
	var out []Call
	for _, c := range s.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) Crtcs() ([]layout.Crtc, error) {
	if err := s.fail("Crtcs"); err != nil {
		return nil, err
	}
	out := make([]layout.Crtc, len(s.CrtcList))
	for i, c := range s.CrtcList {
		out[i] = c.Clone()
	}
	return out, nil
}

func (s *Server) Crtc(id layout.ID) (layout.Crtc, error) {
	if err := s.fail("Crtc"); err != nil {
		return layout.Crtc{}, err
	}
	for _, c := range s.CrtcList {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return layout.Crtc{}, &layout.CrtcNotFoundError{ID: id}
}

func (s *Server) Outputs() ([]layout.Output, error) {
	if err := s.fail("Outputs"); err != nil {
		return nil, err
	}
	out := make([]layout.Output, len(s.OutputList))
	for i, o := range s.OutputList {
		o.Modes = slices.Clone(o.Modes)
		o.PreferredModes = slices.Clone(o.PreferredModes)
		out[i] = o
	}
	return out, nil
}

func (s *Server) Mode(id layout.ID) (layout.Mode, error) {
	if err := s.fail("Mode"); err != nil {
		return layout.Mode{}, err
	}
	for _, m := range s.ModeList {
		if m.ID == id {
			return m, nil
		}
	}
	return layout.Mode{}, &layout.ModeNotFoundError{ID: id}
}

func (s *Server) ScreenSize() (layout.ScreenSize, error) {
	if err := s.fail("ScreenSize"); err != nil {
		return layout.ScreenSize{}, err
	}
	return s.Screen, nil
}

func (s *Server) SizeRange() (layout.SizeRange, error) {
	if err := s.fail("SizeRange"); err != nil {
		return layout.SizeRange{}, err
	}
	return s.Range, nil
}

func (s *Server) SetCrtcConfig(cfg layout.CrtcConfig) error {
	s.Calls = append(s.Calls, Call{Op: "SetCrtcConfig", Config: cfg})
	if err := s.fail("SetCrtcConfig"); err != nil {
		return err
	}

	idx := slices.IndexFunc(s.CrtcList, func(c layout.Crtc) bool { return c.ID == cfg.Crtc })
	if idx < 0 {
		return &layout.CrtcNotFoundError{ID: cfg.Crtc}
	}
	crtc := s.CrtcList[idx].Clone()

	if cfg.Mode == 0 {
		crtc.X, crtc.Y, crtc.Width, crtc.Height = 0, 0, 0, 0
		crtc.Mode, crtc.Rotation, crtc.Outputs = 0, layout.RotationNormal, nil
	} else {
		mode, err := s.Mode(cfg.Mode)
		if err != nil {
			return err
		}
		w, h := mode.RotatedSize(cfg.Rotation)
		if cfg.X < 0 || cfg.Y < 0 || uint32(cfg.X)+w > s.Screen.Width || uint32(cfg.Y)+h > s.Screen.Height {
			return fmt.Errorf("crtc %d at %dx%d+%d+%d does not fit screen %dx%d",
				cfg.Crtc, w, h, cfg.X, cfg.Y, s.Screen.Width, s.Screen.Height)
		}
		crtc.X, crtc.Y, crtc.Width, crtc.Height = cfg.X, cfg.Y, w, h
		crtc.Mode, crtc.Rotation, crtc.Outputs = cfg.Mode, cfg.Rotation, slices.Clone(cfg.Outputs)
	}
	s.CrtcList[idx] = crtc

	for i, o := range s.OutputList {
		switch {
		case crtc.Drives(o.ID):
			s.OutputList[i].Crtc = crtc.ID
			s.OutputList[i].CurrentMode = crtc.Mode
		case o.Crtc == crtc.ID:
			s.OutputList[i].Crtc = 0
			s.OutputList[i].CurrentMode = 0
		}
	}

	return nil
}

func (s *Server) SetScreenSize(size layout.ScreenSize) error {
	s.Calls = append(s.Calls, Call{Op: "SetScreenSize", Size: size})
	if err := s.fail("SetScreenSize"); err != nil {
		return err
	}

	for _, c := range s.CrtcList {
		if !c.Enabled() {
			continue
		}
		if uint32(c.X)+c.Width > size.Width || uint32(c.Y)+c.Height > size.Height {
			return fmt.Errorf("crtc %d at %dx%d+%d+%d lies outside screen %dx%d",
				c.ID, c.Width, c.Height, c.X, c.Y, size.Width, size.Height)
		}
	}
	s.Screen = size
	return nil
}

func (s *Server) SetOutputPrimary(output layout.ID) error {
	s.Calls = append(s.Calls, Call{Op: "SetOutputPrimary", Output: output})
	if err := s.fail("SetOutputPrimary"); err != nil {
		return err
	}
	for i := range s.OutputList {
		s.OutputList[i].Primary = s.OutputList[i].ID == output
	}
	return nil
}

// Dual returns a server with two connected outputs side by side: DP-1 on
// crtc 10 at 800x600 and HDMI-1 on crtc 11 at 1024x768, plus a disabled
// output VGA-1 that only the free crtc 12 can drive.
func Dual() *Server {
	return &Server{
		ModeList: []layout.Mode{
			{ID: 100, Name: "800x600", Width: 800, Height: 600, DotClock: 40000000, HTotal: 1056, VTotal: 628},
			{ID: 101, Name: "1024x768", Width: 1024, Height: 768, DotClock: 65000000, HTotal: 1344, VTotal: 806},
			{ID: 102, Name: "1920x1080", Width: 1920, Height: 1080, DotClock: 148500000, HTotal: 2200, VTotal: 1125},
		},
		CrtcList: []layout.Crtc{
			{
				ID: 10, X: 0, Y: 0, Width: 800, Height: 600, Mode: 100,
				Rotation: layout.RotationNormal, Outputs: []layout.ID{1},
				Rotations: 15, Possible: []layout.ID{1, 2, 3},
			},
			{
				ID: 11, X: 800, Y: 0, Width: 1024, Height: 768, Mode: 101,
				Rotation: layout.RotationNormal, Outputs: []layout.ID{2},
				Rotations: 15, Possible: []layout.ID{1, 2, 3},
			},
			{
				ID: 12, Rotation: layout.RotationNormal,
				Rotations: 1, Possible: []layout.ID{3},
			},
		},
		OutputList: []layout.Output{
			{
				ID: 1, Name: "DP-1", Crtc: 10, CurrentMode: 100, Connected: true, Primary: true,
				PreferredModes: []layout.ID{100}, Modes: []layout.ID{100, 101},
				MmWidth: 280, MmHeight: 210,
			},
			{
				ID: 2, Name: "HDMI-1", Crtc: 11, CurrentMode: 101, Connected: true,
				PreferredModes: []layout.ID{101}, Modes: []layout.ID{101, 100},
				MmWidth: 340, MmHeight: 255,
			},
			{
				ID: 3, Name: "VGA-1", Connected: true,
				PreferredModes: []layout.ID{100}, Modes: []layout.ID{100, 102},
			},
		},
		Screen: layout.ScreenSize{Width: 1824, Height: 768, WidthMM: 482, HeightMM: 203},
		Range:  layout.SizeRange{MinWidth: 320, MinHeight: 200, MaxWidth: 8192, MaxHeight: 8192},
	}
}
