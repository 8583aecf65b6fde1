package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
)

// ScreenSource captures the physical displays via the OS screen API.
type ScreenSource struct {
	primaryOnly bool
}

// NewScreenSource creates a source that grabs the primary display, or the
// union of all displays when primaryOnly is false.
func NewScreenSource(primaryOnly bool) *ScreenSource {
	return &ScreenSource{primaryOnly: primaryOnly}
}

// Capture grabs the screen and probes the foreground window. The probe is
// best-effort: an entry with an unknown app is still worth keeping.
func (s *ScreenSource) Capture(ctx context.Context) (*Frame, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays")
	}

	var img *image.RGBA
	var err error
	if s.primaryOnly || n == 1 {
		img, err = screenshot.CaptureDisplay(0)
	} else {
		bounds := screenshot.GetDisplayBounds(0)
		for i := 1; i < n; i++ {
			bounds = bounds.Union(screenshot.GetDisplayBounds(i))
		}
		img, err = screenshot.CaptureRect(bounds)
	}
	if err != nil {
		return nil, fmt.Errorf("capture display: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}

	app, title := foregroundWindow(ctx)

	return &Frame{
		Image: buf.Bytes(),
		App:   app,
		Title: title,
	}, nil
}
