package layout

// Server is a session with the display server. Reads return fresh snapshots;
// nothing is cached between calls. A Server is used by one goroutine at a time.
type Server interface {
	Crtcs() ([]Crtc, error)
	Crtc(id ID) (Crtc, error)
	Outputs() ([]Output, error)
	Mode(id ID) (Mode, error)

	SetCrtcConfig(cfg CrtcConfig) error
	SetScreenSize(size ScreenSize) error
	SetOutputPrimary(output ID) error

	// ScreenSize returns the current virtual screen size, used to keep the
	// DPI stable across resizes.
	ScreenSize() (ScreenSize, error)
	SizeRange() (SizeRange, error)
}
