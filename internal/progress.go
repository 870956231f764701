package internal

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/arikaim/controllers/pkg/envelope"
)

// ProgressStream emits one JSON envelope per task step over a single
// response body, assembling a top-level JSON array incrementally: the
// first flush opens the array, later flushes prepend a comma separator,
// and End closes it. Callers must flush in logical step order; the stream
// is not safe for concurrent use.
type ProgressStream struct {
	w          http.ResponseWriter
	env        *envelope.Envelope
	step       int
	totalSteps int
	started    bool
	ended      bool
}

// ProgressOption configures a ProgressStream.
type ProgressOption func(*ProgressStream)

// WithTotalSteps declares the expected number of steps. Unset, the
// total is reported as null.
func WithTotalSteps(n int) ProgressOption {
	return func(s *ProgressStream) {
		s.totalSteps = n
	}
}

// NewProgressStream creates a progress stream emitting env snapshots to w.
func NewProgressStream(w http.ResponseWriter, env *envelope.Envelope, opts ...ProgressOption) *ProgressStream {
	s := &ProgressStream{w: w, env: env}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// progressFrame is one streamed envelope with its progress markers.
type progressFrame struct {
	envelope.Result
	Progress           bool `json:"progress"`
	ProgressStep       int  `json:"progress_step"`
	ProgressTotalSteps any  `json:"progress_total_steps"`
	ProgressEnd        bool `json:"progress_end,omitempty"`
}

// Flush emits the envelope's current state as the next step frame and
// clears the envelope for the following step.
func (s *ProgressStream) Flush() error {
	return s.emit(false)
}

// End emits the terminal frame with the progress-end marker and closes
// the array. Further calls fail.
func (s *ProgressStream) End() error {
	if err := s.emit(true); err != nil {
		return err
	}
	s.ended = true
	if _, err := s.w.Write([]byte("]")); err != nil {
		return err
	}
	s.flushWriter()
	return nil
}

// Step returns the number of frames emitted so far.
func (s *ProgressStream) Step() int {
	return s.step
}

func (s *ProgressStream) emit(end bool) error {
	if s.ended {
		return fmt.Errorf("progress stream already ended")
	}

	if !s.started {
		s.started = true
		s.w.Header().Set("Content-Type", "application/json")
		s.w.WriteHeader(http.StatusOK)
		if _, err := s.w.Write([]byte("[")); err != nil {
			return err
		}
	} else {
		if _, err := s.w.Write([]byte(",")); err != nil {
			return err
		}
	}

	s.step++
	var total any
	if s.totalSteps > 0 {
		total = s.totalSteps
	}
	frame := progressFrame{
		Result:             s.env.Finalize(false).(envelope.Result),
		Progress:           true,
		ProgressStep:       s.step,
		ProgressTotalSteps: total,
		ProgressEnd:        end,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode progress frame: %w", err)
	}
	if _, err := s.w.Write(data); err != nil {
		return err
	}

	s.env.Clear()
	s.flushWriter()
	return nil
}

func (s *ProgressStream) flushWriter() {
	if flusher, ok := s.w.(http.Flusher); ok {
		flusher.Flush()
	}
}
