package views

import (
	"context"

	"github.com/Dosada05/swiss-tournament-ui/apiclient"
)

// Phase is the request lifecycle of a view component.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBusy
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBusy:
		return "busy"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// requestState is embedded in every component and guarded by the component's mutex.
type requestState struct {
	phase Phase
	err   string
}

func (s *requestState) busy() bool {
	return s.phase == PhaseBusy
}

// begin moves to busy and clears the previous error.
func (s *requestState) begin() error {
	if s.phase == PhaseBusy {
		return ErrBusy
	}
	s.start()
	return nil
}

// start moves to busy. Callers have already checked busy() under the same lock.
func (s *requestState) start() {
	s.phase = PhaseBusy
	s.err = ""
}

func (s *requestState) succeed() {
	s.phase = PhaseSettled
	s.err = ""
}

func (s *requestState) fail(err error, fallback string) {
	s.phase = PhaseSettled
	s.err = apiclient.ErrorMessage(err, fallback)
}

// reject records a local validation failure; no request was issued.
func (s *requestState) reject(msg string) {
	s.phase = PhaseIdle
	s.err = msg
}

// bind derives a request context that is also cancelled when the component's
// lifetime ends.
func bind(ctx, life context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
