package controller

import "sync/atomic"

// State is the shared recording state handed to the capture loop (as its
// pause gate) and to the HTTP server (as its recording control). The
// controller owns it; no other component mutates the running flag.
type State struct {
	running atomic.Bool
	paused  atomic.Bool
}

func NewState() *State {
	return &State{}
}

// Paused reports whether recording is paused. The capture loop polls this
// at tick boundaries.
func (s *State) Paused() bool {
	return s.paused.Load()
}

// Pause suspends recording, effective on the loop's next tick boundary.
func (s *State) Pause() {
	s.paused.Store(true)
}

// Resume clears the pause flag.
func (s *State) Resume() {
	s.paused.Store(false)
}

// Running reports whether the controller has been started.
func (s *State) Running() bool {
	return s.running.Load()
}

// IsRecording reports true when started and not paused.
func (s *State) IsRecording() bool {
	return s.running.Load() && !s.paused.Load()
}

func (s *State) setRunning(v bool) {
	s.running.Store(v)
}
