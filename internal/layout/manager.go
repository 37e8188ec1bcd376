// Package layout computes and applies arrangements of RandR CRTCs.
//
// Planners (SetPosition, SetRotation, Enable, ...) read the current CRTC set
// from a Server, build a new set in memory and hand both to ApplyLayout,
// which disables CRTCs that no longer fit, resizes the virtual screen and
// re-enables the remaining CRTCs at their new positions.
//
// ApplyLayout is not transactional: when a server call fails midway the
// display is left in whatever state the previous calls produced and the
// caller is expected to re-query and retry.
package layout

import (
	"github.com/charmbracelet/log"
)

// DefaultDPI is used when the server reports no physical screen size.
const DefaultDPI = 96.0

// Manager runs layout operations against a single Server.
type Manager struct {
	srv         Server
	log         *log.Logger
	fallbackDPI float64
}

type Option func(*Manager)

// WithLogger sets the logger used to trace server mutations.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.log = l
	}
}

// WithFallbackDPI sets the DPI used when the current screen has no
// physical size.
func WithFallbackDPI(dpi float64) Option {
	return func(m *Manager) {
		if dpi > 0 {
			m.fallbackDPI = dpi
		}
	}
}

func NewManager(srv Server, opts ...Option) *Manager {
	m := &Manager{
		srv:         srv,
		log:         log.Default(),
		fallbackDPI: DefaultDPI,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ScreenSizeFor computes the screen size that snugly fits crtcs, with the
// physical size derived from the current screen's DPI and the pixel size
// clamped to the server's range.
func (m *Manager) ScreenSizeFor(crtcs []Crtc) (ScreenSize, error) {
	width, height, err := BoundingSize(crtcs)
	if err != nil {
		return ScreenSize{}, err
	}

	limits, err := m.srv.SizeRange()
	if err != nil {
		return ScreenSize{}, err
	}
	if (limits.MaxWidth > 0 && width > limits.MaxWidth) ||
		(limits.MaxHeight > 0 && height > limits.MaxHeight) {
		return ScreenSize{}, &ScreenSizeError{Width: width, Height: height, Range: limits}
	}
	width = max(width, limits.MinWidth)
	height = max(height, limits.MinHeight)

	current, err := m.srv.ScreenSize()
	if err != nil {
		return ScreenSize{}, err
	}

	return screenSize(width, height, current, m.fallbackDPI), nil
}

// ApplyLayout moves the server from oldCrtcs to newCrtcs.
//
// CRTCs of the old set that would fall outside the new screen are disabled
// before the screen is resized, since the server rejects an active CRTC
// outside the screen. Then every enabled CRTC of the new set is applied.
// The first failing server call aborts the sequence.
func (m *Manager) ApplyLayout(oldCrtcs, newCrtcs []Crtc) error {
	size, err := m.ScreenSizeFor(newCrtcs)
	if err != nil {
		return err
	}

	for _, c := range oldCrtcs {
		if !c.Enabled() {
			continue
		}
		maxX, maxY, err := c.MaxCoordinates()
		if err != nil {
			return err
		}
		if maxX > size.Width || maxY > size.Height {
			m.log.Debug("disabling crtc outside new screen", "crtc", c.ID, "x", c.X, "y", c.Y,
				"width", c.Width, "height", c.Height)
			if err := c.Disable(m.srv); err != nil {
				return err
			}
		}
	}

	m.log.Debug("setting screen size", "size", size)
	if err := m.srv.SetScreenSize(size); err != nil {
		return err
	}

	for _, c := range newCrtcs {
		if !c.Enabled() {
			continue
		}
		m.log.Debug("applying crtc", "crtc", c.ID, "x", c.X, "y", c.Y, "mode", c.Mode, "rotation", c.Rotation)
		if err := c.Apply(m.srv); err != nil {
			return err
		}
	}

	return nil
}
