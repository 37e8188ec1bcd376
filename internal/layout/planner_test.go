package layout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyshos/screens/internal/layout"
	"github.com/fyshos/screens/internal/layout/layouttest"
)

func output(t *testing.T, srv *layouttest.Server, name string) layout.Output {
	t.Helper()

	outputs, err := srv.Outputs()
	require.NoError(t, err)
	o, err := layout.FindOutput(outputs, name)
	require.NoError(t, err)
	return o
}

func position(t *testing.T, srv *layouttest.Server, id layout.ID) (int, int) {
	t.Helper()

	c, err := srv.Crtc(id)
	require.NoError(t, err)
	return c.X, c.Y
}

// stacked puts HDMI-1 (crtc 11, 1024x768) on top of DP-1 (crtc 10, 800x600)
// so that every relation can be observed from the origin.
func stacked() *layouttest.Server {
	srv := layouttest.Dual()
	srv.CrtcList[1].X = 0
	return srv
}

func TestSetPosition(t *testing.T) {
	testCases := []struct {
		relation layout.Relation

		// HDMI-1 relative to DP-1, after normalization
		hdmiX, hdmiY int
		dpX, dpY     int
	}{
		{relation: layout.RightOf, hdmiX: 800, hdmiY: 0, dpX: 0, dpY: 0},
		{relation: layout.Below, hdmiX: 0, hdmiY: 600, dpX: 0, dpY: 0},
		{relation: layout.LeftOf, hdmiX: 0, hdmiY: 0, dpX: 1024, dpY: 0},
		{relation: layout.Above, hdmiX: 0, hdmiY: 0, dpX: 0, dpY: 768},
		{relation: layout.SameAs, hdmiX: 0, hdmiY: 0, dpX: 0, dpY: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.relation.String(), func(t *testing.T) {
			r := require.New(t)

			srv := stacked()
			m := layout.NewManager(srv)

			err := m.SetPosition(output(t, srv, "HDMI-1"), tc.relation, output(t, srv, "DP-1"))
			r.NoError(err)

			x, y := position(t, srv, 11)
			r.Equal(tc.hdmiX, x)
			r.Equal(tc.hdmiY, y)

			x, y = position(t, srv, 10)
			r.Equal(tc.dpX, x)
			r.Equal(tc.dpY, y)

			sizes := srv.Mutations("SetScreenSize")
			r.Len(sizes, 1)
		})
	}
}

func TestSetPosition_ScreenSize(t *testing.T) {
	r := require.New(t)

	srv := stacked()
	m := layout.NewManager(srv)

	r.NoError(m.SetPosition(output(t, srv, "HDMI-1"), layout.Below, output(t, srv, "DP-1")))

	r.Equal(uint32(1024), srv.Screen.Width)
	r.Equal(uint32(1368), srv.Screen.Height)
}

func TestSetPosition_DisablesCrtcsOutsideNewScreen(t *testing.T) {
	r := require.New(t)

	// side by side 1824x768 -> stacked 1024x1368
	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.SetPosition(output(t, srv, "DP-1"), layout.Below, output(t, srv, "HDMI-1")))

	r.Equal("SetCrtcConfig", srv.Calls[0].Op)
	r.Equal(layout.ID(11), srv.Calls[0].Config.Crtc)
	r.Zero(srv.Calls[0].Config.Mode)
	r.Equal("SetScreenSize", srv.Calls[1].Op)
	r.Equal(layout.ScreenSize{Width: 1024, Height: 1368, WidthMM: 270, HeightMM: 361}, srv.Calls[1].Size)

	x, y := position(t, srv, 10)
	r.Equal(0, x)
	r.Equal(768, y)
	x, y = position(t, srv, 11)
	r.Equal(0, x)
	r.Equal(0, y)
}

func TestSetPosition_Errors(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	dp, hdmi, vga := output(t, srv, "DP-1"), output(t, srv, "HDMI-1"), output(t, srv, "VGA-1")

	var disabled *layout.OutputDisabledError
	r.ErrorAs(m.SetPosition(vga, layout.LeftOf, dp), &disabled)
	r.Equal("VGA-1", disabled.Name)

	r.ErrorAs(m.SetPosition(dp, layout.LeftOf, vga), &disabled)
	r.Equal("VGA-1", disabled.Name)

	r.ErrorIs(m.SetPosition(dp, layout.LeftOf, dp), layout.ErrSelfRelative)

	stale := hdmi
	stale.Crtc = 99
	var notFound *layout.CrtcNotFoundError
	r.ErrorAs(m.SetPosition(stale, layout.LeftOf, dp), &notFound)
	r.Equal(layout.ID(99), notFound.ID)

	r.Empty(srv.Calls)
}

func TestSetRotation(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.SetRotation(output(t, srv, "HDMI-1"), layout.RotationLeft))

	c, err := srv.Crtc(11)
	r.NoError(err)
	r.Equal(layout.RotationLeft, c.Rotation)
	r.Equal(uint32(768), c.Width)
	r.Equal(uint32(1024), c.Height)
	r.Equal(800, c.X)

	r.Equal(uint32(1568), srv.Screen.Width)
	r.Equal(uint32(1024), srv.Screen.Height)

	// the old landscape crtc reached past x=1568 and had to go first
	r.Equal("SetCrtcConfig", srv.Calls[0].Op)
	r.Zero(srv.Calls[0].Config.Mode)
}

func TestSetRotation_Unsupported(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	srv.CrtcList[0].Rotations = uint16(layout.RotationNormal)
	m := layout.NewManager(srv)

	var unsupported *layout.UnsupportedRotationError
	r.ErrorAs(m.SetRotation(output(t, srv, "DP-1"), layout.RotationRight), &unsupported)
	r.Equal(layout.ID(10), unsupported.Crtc)
	r.Empty(srv.Calls)
}

func TestEnable(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.Enable(output(t, srv, "VGA-1")))

	r.Len(srv.Calls, 1)
	cfg := srv.Calls[0].Config
	r.Equal(layout.ID(12), cfg.Crtc)
	r.Equal(layout.ID(100), cfg.Mode)
	r.Equal([]layout.ID{3}, cfg.Outputs)

	r.True(output(t, srv, "VGA-1").Enabled())
}

func TestEnable_AlreadyEnabled(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.Enable(output(t, srv, "DP-1")))
	r.Empty(srv.Mutations("SetCrtcConfig"))
}

func TestEnable_NoCrtcAvailable(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	srv.CrtcList[2].Possible = nil
	m := layout.NewManager(srv)

	r.ErrorIs(m.Enable(output(t, srv, "VGA-1")), layout.ErrNoCrtcAvailable)
	r.Empty(srv.Calls)
}

func TestEnable_NoMode(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	vga := output(t, srv, "VGA-1")
	vga.PreferredModes, vga.Modes = nil, nil

	r.ErrorIs(m.Enable(vga), layout.ErrNoMode)
	r.Empty(srv.Calls)
}

func TestEnableNextTo(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.EnableNextTo(output(t, srv, "VGA-1"), layout.RightOf, output(t, srv, "HDMI-1")))

	r.Equal("SetScreenSize", srv.Calls[0].Op)
	r.Equal(uint32(2624), srv.Screen.Width)
	r.Equal(uint32(768), srv.Screen.Height)

	x, y := position(t, srv, 12)
	r.Equal(1824, x)
	r.Equal(0, y)
	r.True(output(t, srv, "VGA-1").Enabled())
}

func TestEnableNextTo_LeftOfShiftsOthers(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.EnableNextTo(output(t, srv, "VGA-1"), layout.LeftOf, output(t, srv, "DP-1")))

	x, _ := position(t, srv, 12)
	r.Equal(0, x)
	x, _ = position(t, srv, 10)
	r.Equal(800, x)
	x, _ = position(t, srv, 11)
	r.Equal(1600, x)
	r.Equal(uint32(2624), srv.Screen.Width)
}

func TestDisable(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.Disable(output(t, srv, "HDMI-1")))

	r.Len(srv.Calls, 1)
	r.Equal(layout.ID(11), srv.Calls[0].Config.Crtc)
	r.Zero(srv.Calls[0].Config.Mode)
	r.Equal(layout.RotationNormal, srv.Calls[0].Config.Rotation)
	r.False(output(t, srv, "HDMI-1").Enabled())
}

func TestDisable_RequiresActiveOutput(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	var disabled *layout.OutputDisabledError
	r.ErrorAs(m.Disable(output(t, srv, "VGA-1")), &disabled)
	r.Equal("VGA-1", disabled.Name)
	r.Contains(disabled.Error(), "VGA-1")
	r.Empty(srv.Calls)
}

func TestSetMode(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	hdmi := output(t, srv, "HDMI-1")
	modes, err := m.OutputModes(hdmi)
	r.NoError(err)
	mode, err := layout.FindMode(modes, "800x600")
	r.NoError(err)

	r.NoError(m.SetMode(hdmi, mode))

	r.Len(srv.Calls, 1)
	cfg := srv.Calls[0].Config
	r.Equal(layout.ID(11), cfg.Crtc)
	r.Equal(layout.ID(100), cfg.Mode)
	r.Equal(800, cfg.X)
	r.Equal([]layout.ID{2}, cfg.Outputs)
	r.Empty(srv.Mutations("SetScreenSize"))
}

func TestSetPrimary(t *testing.T) {
	r := require.New(t)

	srv := layouttest.Dual()
	m := layout.NewManager(srv)

	r.NoError(m.SetPrimary(output(t, srv, "HDMI-1")))

	r.Equal([]layouttest.Call{{Op: "SetOutputPrimary", Output: 2}}, srv.Calls)
	r.True(output(t, srv, "HDMI-1").Primary)
	r.False(output(t, srv, "DP-1").Primary)
}

func TestFindMode(t *testing.T) {
	modes := []layout.Mode{
		{ID: 1, Width: 1920, Height: 1080, DotClock: 148500000, HTotal: 2200, VTotal: 1125}, // 60Hz
		{ID: 2, Width: 1920, Height: 1080, DotClock: 74250000, HTotal: 2200, VTotal: 1125},  // 30Hz
		{ID: 3, Width: 1280, Height: 720, DotClock: 74250000, HTotal: 1650, VTotal: 750},    // 60Hz
	}

	testCases := []struct {
		input        string
		expected    layout.ID
		expectedErr bool
	}{
		{input: "1920x1080", expected: 1},
		{input: "1920x1080@30", expected: 2},
		{input: "1920x1080@59.94", expected: 1},
		{input: "1280X720", expected: 3},
		{input: "640x480", expectedErr: true},
		{input: "1920", expectedErr: true},
		{input: "axb", expectedErr: true},
		{input: "1920x1080@fast", expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			r := require.New(t)

			mode, err := layout.FindMode(modes, tc.input)
			if tc.expectedErr {
				r.Error(err)
				return
			}
			r.NoError(err)
			r.Equal(tc.expected, mode.ID)
		})
	}
}

func TestParseRelationAndRotation(t *testing.T) {
	r := require.New(t)

	rel, err := layout.ParseRelation("Left-Of")
	r.NoError(err)
	r.Equal(layout.LeftOf, rel)
	_, err = layout.ParseRelation("beside")
	r.Error(err)

	rot, err := layout.ParseRotationName("inverted")
	r.NoError(err)
	r.Equal(layout.RotationInverted, rot)
	_, err = layout.ParseRotationName("sideways")
	r.Error(err)

	rot, err = layout.ParseRotation(8)
	r.NoError(err)
	r.Equal(layout.RotationRight, rot)

	_, err = layout.ParseRotation(3)
	var invalid layout.InvalidRotationError
	r.ErrorAs(err, &invalid)
	r.Equal(layout.InvalidRotationError(3), invalid)
}
