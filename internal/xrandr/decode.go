package xrandr

import (
	"github.com/BurntSushi/xgb/randr"

	"github.com/fyshos/screens/internal/layout"
)

// decodeModes converts the mode list of a resources reply. Mode names are
// packed back to back in Names, each NameLen bytes long.
func decodeModes(res *randr.GetScreenResourcesReply) []layout.Mode {
	modes := make([]layout.Mode, 0, len(res.Modes))
	offset := 0
	for _, m := range res.Modes {
		var name string
		end := offset + int(m.NameLen)
		if end <= len(res.Names) {
			name = string(res.Names[offset:end])
		}
		offset = end

		modes = append(modes, layout.Mode{
			ID:       layout.ID(m.Id),
			Name:     name,
			Width:    uint32(m.Width),
			Height:   uint32(m.Height),
			DotClock: m.DotClock,
			HTotal:   uint32(m.Htotal),
			VTotal:   uint32(m.Vtotal),
		})
	}
	return modes
}

func decodeCrtc(id randr.Crtc, info *randr.GetCrtcInfoReply) (layout.Crtc, error) {
	rotation, err := layout.ParseRotation(info.Rotation)
	if err != nil {
		return layout.Crtc{}, err
	}

	outputs := make([]layout.ID, len(info.Outputs))
	for i, o := range info.Outputs {
		outputs[i] = layout.ID(o)
	}
	possible := make([]layout.ID, len(info.Possible))
	for i, o := range info.Possible {
		possible[i] = layout.ID(o)
	}

	return layout.Crtc{
		ID:        layout.ID(id),
		Timestamp: uint32(info.Timestamp),
		X:         int(info.X),
		Y:         int(info.Y),
		Width:     uint32(info.Width),
		Height:    uint32(info.Height),
		Mode:      layout.ID(info.Mode),
		Rotation:  rotation,
		Outputs:   outputs,
		Rotations: info.Rotations,
		Possible:  possible,
	}, nil
}

// decodeOutput converts an output reply. The output is only considered
// enabled when it sits on a CRTC that shows a mode, so crtcModes maps every
// CRTC to its current mode.
func decodeOutput(id randr.Output, info *randr.GetOutputInfoReply, primary randr.Output, crtcModes map[randr.Crtc]randr.Mode) layout.Output {
	modes := make([]layout.ID, len(info.Modes))
	for i, m := range info.Modes {
		modes[i] = layout.ID(m)
	}
	preferred := min(int(info.NumPreferred), len(modes))

	o := layout.Output{
		ID:             layout.ID(id),
		Name:           string(info.Name),
		PreferredModes: modes[:preferred:preferred],
		Modes:          modes,
		Connected:      info.Connection == randr.ConnectionConnected,
		Primary:        id == primary,
		MmWidth:        info.MmWidth,
		MmHeight:       info.MmHeight,
	}
	if mode := crtcModes[info.Crtc]; info.Crtc != 0 && mode != 0 {
		o.Crtc = layout.ID(info.Crtc)
		o.CurrentMode = layout.ID(mode)
	}
	return o
}

func encodeOutputs(ids []layout.ID) []randr.Output {
	out := make([]randr.Output, len(ids))
	for i, id := range ids {
		out[i] = randr.Output(id)
	}
	return out
}
