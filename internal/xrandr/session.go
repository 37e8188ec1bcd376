// Package xrandr talks to an X server through the RandR extension and
// exposes it as a layout.Server.
package xrandr

import (
	"math"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/fyshos/screens/internal/layout"
)

var _ layout.Server = (*Session)(nil)

// Session is a connection to the X server. Resource reads always query the
// server; only the current screen size is remembered, since the connection
// setup is the only place the physical size can be read from.
type Session struct {
	conn *xgb.Conn
	root xproto.Window
	log  *log.Logger

	mu     sync.Mutex
	screen layout.ScreenSize
	cfgTs  xproto.Timestamp
}

// Open connects to $DISPLAY and initializes RandR. Close the session when
// done.
func Open(logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.Default()
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to X server")
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "RandR extension unavailable")
	}

	screen := xproto.Setup(conn).DefaultScreen(conn)
	return &Session{
		conn: conn,
		root: screen.Root,
		log:  logger,
		screen: layout.ScreenSize{
			Width:    uint32(screen.WidthInPixels),
			Height:   uint32(screen.HeightInPixels),
			WidthMM:  uint32(screen.WidthInMillimeters),
			HeightMM: uint32(screen.HeightInMillimeters),
		},
	}, nil
}

func (s *Session) Close() {
	s.conn.Close()
}

func (s *Session) resources() (*randr.GetScreenResourcesReply, error) {
	res, err := randr.GetScreenResources(s.conn, s.root).Reply()
	if err != nil {
		return nil, &layout.QueryError{Op: "GetScreenResources", Err: err}
	}

	s.mu.Lock()
	s.cfgTs = res.ConfigTimestamp
	s.mu.Unlock()
	return res, nil
}

func (s *Session) crtcInfo(id randr.Crtc, ts xproto.Timestamp) (layout.Crtc, error) {
	info, err := randr.GetCrtcInfo(s.conn, id, ts).Reply()
	if err != nil {
		return layout.Crtc{}, &layout.QueryError{Op: "GetCrtcInfo", ID: layout.ID(id), Err: err}
	}
	c, err := decodeCrtc(id, info)
	if err != nil {
		return layout.Crtc{}, errors.Wrapf(err, "crtc %d", id)
	}
	return c, nil
}

func (s *Session) Crtcs() ([]layout.Crtc, error) {
	res, err := s.resources()
	if err != nil {
		return nil, err
	}

	crtcs := make([]layout.Crtc, 0, len(res.Crtcs))
	for _, id := range res.Crtcs {
		c, err := s.crtcInfo(id, res.ConfigTimestamp)
		if err != nil {
			return nil, err
		}
		crtcs = append(crtcs, c)
	}
	return crtcs, nil
}

func (s *Session) Crtc(id layout.ID) (layout.Crtc, error) {
	res, err := s.resources()
	if err != nil {
		return layout.Crtc{}, err
	}
	for _, c := range res.Crtcs {
		if layout.ID(c) == id {
			return s.crtcInfo(c, res.ConfigTimestamp)
		}
	}
	return layout.Crtc{}, &layout.CrtcNotFoundError{ID: id}
}

func (s *Session) Outputs() ([]layout.Output, error) {
	res, err := s.resources()
	if err != nil {
		return nil, err
	}

	primary, err := randr.GetOutputPrimary(s.conn, s.root).Reply()
	if err != nil {
		return nil, &layout.QueryError{Op: "GetOutputPrimary", Err: err}
	}

	crtcModes := make(map[randr.Crtc]randr.Mode, len(res.Crtcs))
	for _, id := range res.Crtcs {
		info, err := randr.GetCrtcInfo(s.conn, id, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, &layout.QueryError{Op: "GetCrtcInfo", ID: layout.ID(id), Err: err}
		}
		crtcModes[id] = info.Mode
	}

	outputs := make([]layout.Output, 0, len(res.Outputs))
	for _, id := range res.Outputs {
		info, err := randr.GetOutputInfo(s.conn, id, res.ConfigTimestamp).Reply()
		if err != nil {
			return nil, &layout.QueryError{Op: "GetOutputInfo", ID: layout.ID(id), Err: err}
		}
		outputs = append(outputs, decodeOutput(id, info, primary.Output, crtcModes))
	}
	return outputs, nil
}

func (s *Session) Mode(id layout.ID) (layout.Mode, error) {
	res, err := s.resources()
	if err != nil {
		return layout.Mode{}, err
	}
	for _, m := range decodeModes(res) {
		if m.ID == id {
			return m, nil
		}
	}
	return layout.Mode{}, &layout.ModeNotFoundError{ID: id}
}

func (s *Session) SetCrtcConfig(cfg layout.CrtcConfig) error {
	if cfg.X > math.MaxInt16 || cfg.Y > math.MaxInt16 || cfg.X < math.MinInt16 || cfg.Y < math.MinInt16 {
		return &layout.LayoutError{Crtc: cfg.Crtc, X: int64(cfg.X), Y: int64(cfg.Y), Reason: "position out of range"}
	}

	s.mu.Lock()
	cfgTs := s.cfgTs
	s.mu.Unlock()

	s.log.Debug("SetCrtcConfig", "crtc", cfg.Crtc, "cfgTs", cfgTs, "x", cfg.X, "y", cfg.Y,
		"mode", cfg.Mode, "rotation", cfg.Rotation, "outputs", cfg.Outputs)
	reply, err := randr.SetCrtcConfig(s.conn, randr.Crtc(cfg.Crtc), xproto.Timestamp(cfg.Timestamp), cfgTs,
		int16(cfg.X), int16(cfg.Y), randr.Mode(cfg.Mode), uint16(cfg.Rotation), encodeOutputs(cfg.Outputs)).Reply()
	if err != nil {
		return errors.Wrapf(err, "failed to configure crtc %d", cfg.Crtc)
	}
	if reply.Status != randr.SetConfigSuccess {
		return &ConfigStatusError{Crtc: cfg.Crtc, Status: reply.Status}
	}
	return nil
}

func (s *Session) SetScreenSize(size layout.ScreenSize) error {
	if size.Width > math.MaxUint16 || size.Height > math.MaxUint16 {
		return errors.Errorf("screen size %s too large", size)
	}

	s.log.Debug("SetScreenSize", "size", size)
	err := randr.SetScreenSizeChecked(s.conn, s.root, uint16(size.Width), uint16(size.Height),
		size.WidthMM, size.HeightMM).Check()
	if err != nil {
		return errors.Wrapf(err, "failed to set screen size %s", size)
	}

	s.mu.Lock()
	s.screen = size
	s.mu.Unlock()
	return nil
}

func (s *Session) SetOutputPrimary(output layout.ID) error {
	err := randr.SetOutputPrimaryChecked(s.conn, s.root, randr.Output(output)).Check()
	return errors.Wrapf(err, "failed to set output %d as primary", output)
}

func (s *Session) ScreenSize() (layout.ScreenSize, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen, nil
}

func (s *Session) SizeRange() (layout.SizeRange, error) {
	r, err := randr.GetScreenSizeRange(s.conn, s.root).Reply()
	if err != nil {
		return layout.SizeRange{}, &layout.QueryError{Op: "GetScreenSizeRange", Err: err}
	}
	return layout.SizeRange{
		MinWidth:  uint32(r.MinWidth),
		MinHeight: uint32(r.MinHeight),
		MaxWidth:  uint32(r.MaxWidth),
		MaxHeight: uint32(r.MaxHeight),
	}, nil
}

// Watch subscribes to screen, CRTC and output changes. onChange is called
// from a background goroutine for every change until the session is closed.
func (s *Session) Watch(onChange func()) error {
	err := randr.SelectInputChecked(s.conn, s.root,
		randr.NotifyMaskScreenChange|
			randr.NotifyMaskCrtcChange|
			randr.NotifyMaskOutputChange).Check()
	if err != nil {
		return errors.Wrap(err, "could not subscribe to RandR events")
	}

	go func() {
		for {
			ev, err := s.conn.WaitForEvent()
			if ev == nil && err == nil {
				return
			}
			if err != nil {
				s.log.Error("error waiting for X server event", "err", err)
				continue
			}

			switch e := ev.(type) {
			case randr.ScreenChangeNotifyEvent:
				s.mu.Lock()
				s.screen = layout.ScreenSize{
					Width:    uint32(e.Width),
					Height:   uint32(e.Height),
					WidthMM:  uint32(e.Mwidth),
					HeightMM: uint32(e.Mheight),
				}
				s.mu.Unlock()
				onChange()
			case randr.NotifyEvent:
				onChange()
			}
		}
	}()
	return nil
}
