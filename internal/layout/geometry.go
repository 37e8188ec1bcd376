package layout

import "math"

// inchMM is the number of millimeters in an inch.
const inchMM = 25.4

// RotatedSize converts a (w, h) shown with rotation from into the size it
// takes with rotation to. Width and height swap only when moving between
// the landscape pair {Normal, Inverted} and the portrait pair {Left, Right}.
func RotatedSize(w, h uint32, from, to Rotation) (uint32, uint32) {
	if from.portrait() != to.portrait() {
		return h, w
	}
	return w, h
}

// Normalize shifts every enabled CRTC so that the top-left-most one sits at
// the origin. Disabled CRTCs are copied unchanged. The set must contain at
// least one enabled CRTC.
func Normalize(crtcs []Crtc) ([]Crtc, error) {
	left, top := math.MaxInt, math.MaxInt
	active := 0
	for _, c := range crtcs {
		if !c.Enabled() {
			continue
		}
		active++
		left = min(left, c.X)
		top = min(top, c.Y)
	}
	if active == 0 {
		return nil, ErrEmptyLayout
	}

	out := make([]Crtc, 0, len(crtcs))
	for _, c := range crtcs {
		if !c.Enabled() {
			out = append(out, c.Clone())
			continue
		}
		n, err := c.Offset(-left, -top)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}

	return out, nil
}

// BoundingSize returns the smallest screen size that holds every enabled
// CRTC. The set must be normalized.
func BoundingSize(crtcs []Crtc) (uint32, uint32, error) {
	var width, height uint32
	active := 0
	for _, c := range crtcs {
		if !c.Enabled() {
			continue
		}
		active++

		x, y, err := c.MaxCoordinates()
		if err != nil {
			return 0, 0, err
		}
		width = max(width, x)
		height = max(height, y)
	}
	if active == 0 {
		return 0, 0, ErrEmptyLayout
	}

	return width, height, nil
}

// DPI derives the dots per inch of the current screen from its pixel and
// millimeter height, or returns fallback when the server reports no
// physical size.
func DPI(current ScreenSize, fallback float64) float64 {
	if current.Height == 0 || current.HeightMM == 0 {
		return fallback
	}
	return inchMM * float64(current.Height) / float64(current.HeightMM)
}

// PhysicalSize converts a pixel size to millimeters at the given DPI, so
// that resizing the screen keeps its apparent DPI.
func PhysicalSize(width, height uint32, dpi float64) (uint32, uint32) {
	if dpi <= 0 {
		return 0, 0
	}
	return uint32(inchMM * float64(width) / dpi), uint32(inchMM * float64(height) / dpi)
}

// screenSize builds the full screen size for a pixel size, keeping the DPI
// of current. When current is usable the ratio is applied in integers to
// avoid rounding the unchanged axis down.
func screenSize(width, height uint32, current ScreenSize, fallbackDPI float64) ScreenSize {
	size := ScreenSize{Width: width, Height: height}

	if current.Height == 0 || current.HeightMM == 0 {
		size.WidthMM, size.HeightMM = PhysicalSize(width, height, fallbackDPI)
		return size
	}

	size.WidthMM = uint32(uint64(width) * uint64(current.HeightMM) / uint64(current.Height))
	size.HeightMM = uint32(uint64(height) * uint64(current.HeightMM) / uint64(current.Height))
	return size
}
