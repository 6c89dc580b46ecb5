package views

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

const (
	SavedMessage = "Saved."

	// StatusMessageTTL is how long a submission status stays visible.
	StatusMessageTTL = 2500 * time.Millisecond
)

// MatchRow is the result entry of one match.
type MatchRow struct {
	mu          sync.Mutex
	life        context.Context
	backend     Backend
	clock       clockwork.Clock
	onSubmitted func(models.Match)

	match    models.Match
	selected models.ResultCode
	state    requestState
	message  string
	// messageGen identifies the message a pending clear timer belongs to.
	messageGen uint64
}

type MatchRowView struct {
	Match    models.Match
	Player1  string
	Player2  string
	Current  models.ResultCode
	Selected models.ResultCode
	Phase    Phase
	Busy     bool
	Message  string
}

func newMatchRow(life context.Context, backend Backend, clock clockwork.Clock, m models.Match, onSubmitted func(models.Match)) *MatchRow {
	return &MatchRow{
		life:        life,
		backend:     backend,
		clock:       clock,
		onSubmitted: onSubmitted,
		match:       m,
		selected:    m.CurrentResult(),
	}
}

func (r *MatchRow) ID() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match.ID
}

// Select sets the picked result. The empty code clears the selection.
func (r *MatchRow) Select(code models.ResultCode) error {
	if code != "" && !code.Valid() {
		return ErrInvalidResult
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.busy() {
		return ErrBusy
	}
	r.selected = code
	return nil
}

// Submit sends the selected result. Without a selection nothing is sent.
// Once the backend answered, the status message clears after StatusMessageTTL.
func (r *MatchRow) Submit(ctx context.Context) error {
	r.mu.Lock()
	if r.state.busy() {
		r.mu.Unlock()
		return ErrBusy
	}
	r.message = ""
	if r.selected == "" {
		r.state.reject(ErrNoResultSelected.Error())
		r.message = ErrNoResultSelected.Error()
		r.mu.Unlock()
		return ErrNoResultSelected
	}
	if !r.selected.Valid() {
		r.state.reject(ErrInvalidResult.Error())
		r.message = ErrInvalidResult.Error()
		r.mu.Unlock()
		return ErrInvalidResult
	}
	r.state.start()
	matchID := r.match.ID
	code := r.selected
	r.mu.Unlock()

	ctx, cancel := bind(ctx, r.life)
	defer cancel()
	updated, err := r.backend.SetResult(ctx, matchID, models.SetResultRequest{Result: code})

	r.mu.Lock()
	if r.life.Err() != nil {
		r.state.phase = PhaseIdle
		r.mu.Unlock()
		return ErrDiscarded
	}
	if err != nil {
		r.state.fail(err, "Failed.")
		r.message = r.state.err
	} else {
		r.state.succeed()
		r.message = SavedMessage
		if updated != nil {
			r.match = *updated
		} else {
			r.match.Result = &code
		}
	}
	r.messageGen++
	gen := r.messageGen
	match := r.match
	r.clock.AfterFunc(StatusMessageTTL, func() { r.clearMessage(gen) })
	r.mu.Unlock()

	if err != nil {
		return err
	}
	if r.onSubmitted != nil {
		r.onSubmitted(match)
	}
	return nil
}

func (r *MatchRow) clearMessage(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.messageGen == gen {
		r.message = ""
	}
}

func (r *MatchRow) View() MatchRowView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return MatchRowView{
		Match:    r.match,
		Player1:  r.match.Player1Display(),
		Player2:  r.match.Player2Display(),
		Current:  r.match.CurrentResult(),
		Selected: r.selected,
		Phase:    r.state.phase,
		Busy:     r.state.busy(),
		Message:  r.message,
	}
}
