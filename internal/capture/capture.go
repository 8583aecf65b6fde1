// Package capture produces timestamped screen observations: one tick grabs
// a frame, extracts text, computes an embedding, and persists both the
// screenshot artifact and the database entry.
package capture

import "context"

// Frame is one screen observation produced by a Source. Image holds the
// PNG-encoded screenshot; App and Title describe the foreground window and
// may be empty when the platform probe fails.
type Frame struct {
	Image []byte
	App   string
	Title string
}

// Source produces one frame per capture tick. Capture failures (no
// displays, permission denied) are recoverable: the loop retries on the
// next tick.
type Source interface {
	Capture(ctx context.Context) (*Frame, error)
}

// OCR extracts text from an encoded image.
type OCR interface {
	Text(ctx context.Context, image []byte) (string, error)
}

// Gate reports whether recording is paused. The loop polls it at tick
// boundaries; pausing is never preemptive.
type Gate interface {
	Paused() bool
}
