package main

import (
	"fmt"
	"slices"

	"github.com/fyshos/screens/internal/layout"
)

// State is the snapshot of the display server one rendering of the window
// is built from.
type State struct {
	outputs []layout.Output
	crtcs   []layout.Crtc
	modes   map[layout.ID][]layout.Mode
}

func loadState(m *layout.Manager) (State, error) {
	outputs, err := m.Outputs()
	if err != nil {
		return State{}, err
	}
	crtcs, err := m.Crtcs()
	if err != nil {
		return State{}, err
	}

	s := State{outputs: outputs, crtcs: crtcs, modes: make(map[layout.ID][]layout.Mode)}
	for _, o := range outputs {
		if !o.Connected {
			continue
		}
		modes, err := m.OutputModes(o)
		if err != nil {
			return State{}, err
		}
		s.modes[o.ID] = modes
	}
	return s, nil
}

func (s State) crtc(id layout.ID) (layout.Crtc, bool) {
	i := slices.IndexFunc(s.crtcs, func(c layout.Crtc) bool { return c.ID == id })
	if i < 0 {
		return layout.Crtc{}, false
	}
	return s.crtcs[i], true
}

// primary returns the primary output, or the first enabled one when the
// server has no primary.
func (s State) primary() (layout.Output, bool) {
	var first *layout.Output
	for i, o := range s.outputs {
		if !o.Enabled() {
			continue
		}
		if o.Primary {
			return o, true
		}
		if first == nil {
			first = &s.outputs[i]
		}
	}
	if first == nil {
		return layout.Output{}, false
	}
	return *first, true
}

// anchor picks the enabled output a new output is placed against: the one
// on the outer edge of the layout in the direction of relation.
func (s State) anchor(relation layout.Relation) (layout.Output, bool) {
	if relation == layout.SameAs {
		return s.primary()
	}

	var (
		best     layout.Output
		bestEdge int
		found    bool
	)
	for _, o := range s.outputs {
		c, ok := s.crtc(o.Crtc)
		if !o.Enabled() || !ok {
			continue
		}

		var edge int
		switch relation {
		case layout.RightOf:
			edge = c.X + int(c.Width)
		case layout.LeftOf:
			edge = -c.X
		case layout.Below:
			edge = c.Y + int(c.Height)
		case layout.Above:
			edge = -c.Y
		}
		if !found || edge > bestEdge {
			best, bestEdge, found = o, edge, true
		}
	}
	return best, found
}

// resolutionOptions lists every distinct WIDTHxHEIGHT once, keeping the first
// mode of each size.
func resolutionOptions(modes []layout.Mode) ([]string, map[string]layout.Mode) {
	byName := map[string]layout.Mode{}
	var options []string
	for _, m := range modes {
		name := resolutionName(m)
		if _, found := byName[name]; found {
			continue
		}
		options = append(options, name)
		byName[name] = m
	}
	return options, byName
}

func resolutionName(m layout.Mode) string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}
