package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Crtcs returns the enabled CRTCs.
func (m *Manager) Crtcs() ([]Crtc, error) {
	all, err := m.srv.Crtcs()
	if err != nil {
		return nil, err
	}

	active := make([]Crtc, 0, len(all))
	for _, c := range all {
		if c.Enabled() {
			active = append(active, c)
		}
	}
	return active, nil
}

// Outputs returns every output known to the server.
func (m *Manager) Outputs() ([]Output, error) {
	return m.srv.Outputs()
}

func (m *Manager) ScreenSize() (ScreenSize, error) {
	return m.srv.ScreenSize()
}

// Output looks up an output by name.
func (m *Manager) Output(name string) (Output, error) {
	outputs, err := m.srv.Outputs()
	if err != nil {
		return Output{}, err
	}
	return FindOutput(outputs, name)
}

// OutputModes resolves every mode the output supports.
func (m *Manager) OutputModes(o Output) ([]Mode, error) {
	modes := make([]Mode, 0, len(o.Modes))
	for _, id := range o.Modes {
		mode, err := m.srv.Mode(id)
		if err != nil {
			return nil, err
		}
		modes = append(modes, mode)
	}
	return modes, nil
}

// FindOutput returns the output called name.
func FindOutput(outputs []Output, name string) (Output, error) {
	for _, o := range outputs {
		if o.Name == name {
			return o, nil
		}
	}
	return Output{}, &OutputNotFoundError{Name: name}
}

// FindMode picks the mode matching "WIDTHxHEIGHT" or "WIDTHxHEIGHT@RATE".
// Without a rate the first listed match wins, otherwise the closest refresh.
func FindMode(modes []Mode, want string) (Mode, error) {
	size, rateStr, hasRate := strings.Cut(strings.ToLower(want), "@")

	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return Mode{}, errors.Errorf("invalid mode format: %q, should be: <width>x<height>[@<rate>]", want)
	}
	w, err := strconv.ParseUint(ws, 10, 32)
	if err != nil {
		return Mode{}, errors.Errorf("invalid width parameter: %q - not a number", ws)
	}
	h, err := strconv.ParseUint(hs, 10, 32)
	if err != nil {
		return Mode{}, errors.Errorf("invalid height parameter: %q - not a number", hs)
	}
	var rate float64
	if hasRate {
		rate, err = strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return Mode{}, errors.Errorf("invalid refresh rate: %q - not a number", rateStr)
		}
	}

	var best *Mode
	var bestDist float64
	for i, mode := range modes {
		if mode.Width != uint32(w) || mode.Height != uint32(h) {
			continue
		}
		dist := 0.0
		if hasRate {
			dist = math.Abs(mode.RefreshRate() - rate)
		}
		if best == nil || dist < bestDist {
			best = &modes[i]
			bestDist = dist
		}
	}
	if best == nil {
		return Mode{}, &ModeNotFoundError{Name: want}
	}
	return *best, nil
}

func findCrtc(crtcs []Crtc, id ID) (int, error) {
	for i, c := range crtcs {
		if c.ID == id {
			return i, nil
		}
	}
	return -1, &CrtcNotFoundError{ID: id}
}

// place returns the position of a rectangle of size (w, h) put in relation
// to the rectangle at (relX, relY) with size (relW, relH).
func place(relation Relation, w, h uint32, relX, relY int, relW, relH uint32) (int, int, error) {
	switch relation {
	case LeftOf:
		return relX - int(w), relY, nil
	case RightOf:
		return relX + int(relW), relY, nil
	case Above:
		return relX, relY - int(h), nil
	case Below:
		return relX, relY + int(relH), nil
	case SameAs:
		return relX, relY, nil
	}
	return 0, 0, errors.Errorf("invalid relation: %d", int(relation))
}

// SetPosition moves output so that it has the given relation to relOutput,
// then normalizes and applies the whole layout.
func (m *Manager) SetPosition(output Output, relation Relation, relOutput Output) error {
	if !output.Enabled() {
		return &OutputDisabledError{Name: output.Name}
	}
	if !relOutput.Enabled() {
		return &OutputDisabledError{Name: relOutput.Name}
	}
	if output.ID == relOutput.ID {
		return ErrSelfRelative
	}

	oldCrtcs, err := m.Crtcs()
	if err != nil {
		return err
	}
	crtcs := make([]Crtc, len(oldCrtcs))
	for i, c := range oldCrtcs {
		crtcs[i] = c.Clone()
	}

	idx, err := findCrtc(crtcs, output.Crtc)
	if err != nil {
		return err
	}
	relIdx, err := findCrtc(oldCrtcs, relOutput.Crtc)
	if err != nil {
		return err
	}
	crtc, relCrtc := crtcs[idx], oldCrtcs[relIdx]

	mode, err := m.srv.Mode(output.CurrentMode)
	if err != nil {
		return err
	}
	relMode, err := m.srv.Mode(relOutput.CurrentMode)
	if err != nil {
		return err
	}

	w, h := mode.RotatedSize(crtc.Rotation)
	relW, relH := relMode.RotatedSize(relCrtc.Rotation)

	x, y, err := place(relation, w, h, relCrtc.X, relCrtc.Y, relW, relH)
	if err != nil {
		return err
	}
	m.log.Debug("positioning output", "output", output.Name, "relation", relation,
		"other", relOutput.Name, "x", x, "y", y)

	crtcs[idx] = crtc.WithPosition(x, y)

	newCrtcs, err := Normalize(crtcs)
	if err != nil {
		return err
	}

	return m.ApplyLayout(oldCrtcs, newCrtcs)
}

// SetRotation rotates the CRTC showing output. The position is kept, so the
// layout is applied without renormalizing.
func (m *Manager) SetRotation(output Output, rotation Rotation) error {
	oldCrtcs, err := m.Crtcs()
	if err != nil {
		return err
	}
	crtcs := make([]Crtc, len(oldCrtcs))
	for i, c := range oldCrtcs {
		crtcs[i] = c.Clone()
	}

	idx, err := findCrtc(crtcs, output.Crtc)
	if err != nil {
		return err
	}
	if !crtcs[idx].SupportsRotation(rotation) {
		return &UnsupportedRotationError{Crtc: crtcs[idx].ID, Rotation: rotation}
	}

	m.log.Debug("rotating output", "output", output.Name, "from", crtcs[idx].Rotation, "to", rotation)
	crtcs[idx] = crtcs[idx].WithRotation(rotation)

	return m.ApplyLayout(oldCrtcs, crtcs)
}

// findAvailableCrtc returns a CRTC that may drive o and currently drives nothing.
func (m *Manager) findAvailableCrtc(o Output) (Crtc, error) {
	crtcs, err := m.srv.Crtcs()
	if err != nil {
		return Crtc{}, err
	}

	for _, c := range crtcs {
		if c.CanDrive(o.ID) && len(c.Outputs) == 0 {
			return c, nil
		}
	}

	return Crtc{}, ErrNoCrtcAvailable
}

// Enable shows a disabled output with its preferred mode on a free CRTC.
// Enabled outputs are left alone.
func (m *Manager) Enable(o Output) error {
	if o.Enabled() {
		return nil
	}

	target := o.PreferredMode()
	if target == 0 {
		return errors.Wrapf(ErrNoMode, "output %q", o.Name)
	}

	crtc, err := m.findAvailableCrtc(o)
	if err != nil {
		return err
	}
	mode, err := m.srv.Mode(target)
	if err != nil {
		return err
	}

	m.log.Debug("enabling output", "output", o.Name, "crtc", crtc.ID, "mode", mode)
	return crtc.WithMode(mode.ID, o.ID).Apply(m.srv)
}

// EnableNextTo enables o with its preferred mode and places it in relation
// to rel in a single reconciliation, growing the screen as needed. An
// already enabled output is only repositioned.
func (m *Manager) EnableNextTo(o Output, relation Relation, rel Output) error {
	if o.Enabled() {
		return m.SetPosition(o, relation, rel)
	}
	if !rel.Enabled() {
		return &OutputDisabledError{Name: rel.Name}
	}
	if o.ID == rel.ID {
		return ErrSelfRelative
	}

	target := o.PreferredMode()
	if target == 0 {
		return errors.Wrapf(ErrNoMode, "output %q", o.Name)
	}
	free, err := m.findAvailableCrtc(o)
	if err != nil {
		return err
	}
	mode, err := m.srv.Mode(target)
	if err != nil {
		return err
	}

	oldCrtcs, err := m.Crtcs()
	if err != nil {
		return err
	}
	relIdx, err := findCrtc(oldCrtcs, rel.Crtc)
	if err != nil {
		return err
	}
	relCrtc := oldCrtcs[relIdx]

	w, h := mode.RotatedSize(free.Rotation)
	x, y, err := place(relation, w, h, relCrtc.X, relCrtc.Y, relCrtc.Width, relCrtc.Height)
	if err != nil {
		return err
	}

	added := free.WithMode(mode.ID, o.ID).WithPosition(x, y)
	added.Width, added.Height = w, h

	crtcs := make([]Crtc, 0, len(oldCrtcs)+1)
	for _, c := range oldCrtcs {
		crtcs = append(crtcs, c.Clone())
	}
	crtcs = append(crtcs, added)

	newCrtcs, err := Normalize(crtcs)
	if err != nil {
		return err
	}

	m.log.Debug("enabling output", "output", o.Name, "crtc", free.ID, "mode", mode,
		"relation", relation, "other", rel.Name)
	return m.ApplyLayout(oldCrtcs, newCrtcs)
}

// Disable turns off the CRTC showing o.
func (m *Manager) Disable(o Output) error {
	if o.Crtc == 0 {
		return &OutputDisabledError{Name: o.Name}
	}

	crtc, err := m.srv.Crtc(o.Crtc)
	if err != nil {
		return err
	}

	m.log.Debug("disabling output", "output", o.Name, "crtc", crtc.ID)
	return crtc.Disable(m.srv)
}

// SetMode switches the CRTC showing o to mode, keeping its position. The
// caller repositions when the new resolution requires it.
func (m *Manager) SetMode(o Output, mode Mode) error {
	if o.Crtc == 0 {
		return &OutputDisabledError{Name: o.Name}
	}

	crtc, err := m.srv.Crtc(o.Crtc)
	if err != nil {
		return err
	}

	m.log.Debug("setting mode", "output", o.Name, "crtc", crtc.ID, "mode", mode)
	return crtc.WithMode(mode.ID, crtc.Outputs...).Apply(m.srv)
}

// SetPrimary marks o as the primary output.
func (m *Manager) SetPrimary(o Output) error {
	return m.srv.SetOutputPrimary(o.ID)
}
