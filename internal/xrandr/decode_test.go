package xrandr

import (
	"testing"

	"github.com/BurntSushi/xgb/randr"
	"github.com/stretchr/testify/require"

	"github.com/fyshos/screens/internal/layout"
)

func TestDecodeModes(t *testing.T) {
	r := require.New(t)

	res := &randr.GetScreenResourcesReply{
		Modes: []randr.ModeInfo{
			{Id: 70, Width: 1920, Height: 1080, DotClock: 148500000, Htotal: 2200, Vtotal: 1125, NameLen: 9},
			{Id: 71, Width: 800, Height: 600, NameLen: 7},
			{Id: 72, Width: 640, Height: 480, NameLen: 7},
		},
		Names: []byte("1920x1080800x600640x4"),
	}

	modes := decodeModes(res)
	r.Len(modes, 3)

	r.Equal(layout.Mode{
		ID: 70, Name: "1920x1080", Width: 1920, Height: 1080,
		DotClock: 148500000, HTotal: 2200, VTotal: 1125,
	}, modes[0])
	r.Equal("800x600", modes[1].Name)
	// truncated names blob
	r.Empty(modes[2].Name)
	r.Equal(uint32(480), modes[2].Height)
}

func TestDecodeCrtc(t *testing.T) {
	r := require.New(t)

	c, err := decodeCrtc(63, &randr.GetCrtcInfoReply{
		Timestamp: 1234,
		X:         -10, Y: 20,
		Width: 1080, Height: 1920,
		Mode:      70,
		Rotation:  randr.RotationRotate90,
		Rotations: randr.RotationRotate0 | randr.RotationRotate90,
		Outputs:   []randr.Output{65},
		Possible:  []randr.Output{65, 66},
	})
	r.NoError(err)

	r.Equal(layout.ID(63), c.ID)
	r.Equal(uint32(1234), c.Timestamp)
	r.Equal(-10, c.X)
	r.Equal(20, c.Y)
	r.Equal(layout.RotationLeft, c.Rotation)
	r.True(c.SupportsRotation(layout.RotationLeft))
	r.False(c.SupportsRotation(layout.RotationRight))
	r.Equal([]layout.ID{65}, c.Outputs)
	r.True(c.CanDrive(66))
}

func TestDecodeCrtc_ReflectedRotation(t *testing.T) {
	r := require.New(t)

	_, err := decodeCrtc(63, &randr.GetCrtcInfoReply{
		Rotation: randr.RotationRotate0 | randr.RotationReflectX,
	})

	var invalid layout.InvalidRotationError
	r.ErrorAs(err, &invalid)
}

func TestDecodeOutput(t *testing.T) {
	crtcModes := map[randr.Crtc]randr.Mode{63: 70, 64: 0}

	testCases := []struct {
		name     string
		info     randr.GetOutputInfoReply
		expected layout.Output
	}{
		{
			name: "enabled primary",
			info: randr.GetOutputInfoReply{
				Crtc: 63, MmWidth: 520, MmHeight: 290, Connection: randr.ConnectionConnected,
				NumPreferred: 1, Modes: []randr.Mode{70, 71}, Name: []byte("DP-1"),
			},
			expected: layout.Output{
				ID: 65, Name: "DP-1", Crtc: 63, CurrentMode: 70,
				PreferredModes: []layout.ID{70}, Modes: []layout.ID{70, 71},
				Connected: true, Primary: true, MmWidth: 520, MmHeight: 290,
			},
		},
		{
			name: "crtc without mode",
			info: randr.GetOutputInfoReply{
				Crtc: 64, Connection: randr.ConnectionConnected,
				Modes: []randr.Mode{71}, Name: []byte("DP-1"),
			},
			expected: layout.Output{
				ID: 65, Name: "DP-1",
				PreferredModes: []layout.ID{}, Modes: []layout.ID{71},
				Connected: true, Primary: true,
			},
		},
		{
			name: "disconnected",
			info: randr.GetOutputInfoReply{
				Connection: randr.ConnectionDisconnected, NumPreferred: 3, Name: []byte("DP-1"),
			},
			expected: layout.Output{
				ID: 65, Name: "DP-1", PreferredModes: []layout.ID{}, Modes: []layout.ID{}, Primary: true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := require.New(t)

			o := decodeOutput(65, &tc.info, 65, crtcModes)
			r.Equal(tc.expected, o)
			r.Equal(tc.expected.CurrentMode != 0, o.Enabled())
		})
	}
}

func TestConfigStatusError(t *testing.T) {
	r := require.New(t)

	err := &ConfigStatusError{Crtc: 63, Status: randr.SetConfigInvalidConfigTime}
	r.Equal("failed to configure crtc 63: invalid config time", err.Error())

	err = &ConfigStatusError{Crtc: 63, Status: 9}
	r.Contains(err.Error(), "unknown status 9")
}
