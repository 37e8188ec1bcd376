package xrandr

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"

	"github.com/fyshos/screens/internal/layout"
)

// ConfigStatusError is a SetCrtcConfig request the server answered with a
// status other than success.
type ConfigStatusError struct {
	Crtc   layout.ID
	Status byte
}

func (e *ConfigStatusError) Error() string {
	return fmt.Sprintf("failed to configure crtc %d: %s", e.Crtc, statusName(e.Status))
}

func statusName(status byte) string {
	switch status {
	case randr.SetConfigSuccess:
		return "success"
	case randr.SetConfigInvalidConfigTime:
		return "invalid config time"
	case randr.SetConfigInvalidTime:
		return "invalid time"
	case randr.SetConfigFailed:
		return "failed"
	}
	return fmt.Sprintf("unknown status %d", status)
}
