package views

import (
	"context"
	"sync"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

const (
	DefaultTournamentName = "Dev Tournament"
	DefaultTotalRounds    = 5
)

// CreateTournamentForm keeps its inputs after a successful submit.
type CreateTournamentForm struct {
	mu          sync.Mutex
	life        context.Context
	backend     Backend
	onCreated   func(models.Tournament)
	name        string
	totalRounds int
	state       requestState
}

type CreateTournamentView struct {
	Name        string
	TotalRounds int
	Phase       Phase
	Busy        bool
	Error       string
}

func NewCreateTournamentForm(life context.Context, backend Backend, onCreated func(models.Tournament)) *CreateTournamentForm {
	return &CreateTournamentForm{
		life:        life,
		backend:     backend,
		onCreated:   onCreated,
		name:        DefaultTournamentName,
		totalRounds: DefaultTotalRounds,
	}
}

// SetInputs replaces the form fields. It is ignored while a request is in flight.
func (f *CreateTournamentForm) SetInputs(name string, totalRounds int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.busy() {
		return
	}
	f.name = name
	f.totalRounds = totalRounds
}

// Reject shows msg as the form error without issuing a request.
func (f *CreateTournamentForm) Reject(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.busy() {
		return
	}
	f.state.reject(msg)
}

func (f *CreateTournamentForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if err := f.state.begin(); err != nil {
		f.mu.Unlock()
		return err
	}
	req := models.CreateTournamentRequest{Name: f.name, TotalRounds: f.totalRounds}
	f.mu.Unlock()

	ctx, cancel := bind(ctx, f.life)
	defer cancel()
	t, err := f.backend.CreateTournament(ctx, req)
	if err == nil && t == nil {
		err = ErrEmptyResponse
	}

	f.mu.Lock()
	if f.life.Err() != nil {
		f.state.phase = PhaseIdle
		f.mu.Unlock()
		return ErrDiscarded
	}
	if err != nil {
		f.state.fail(err, "Failed to create tournament")
		f.mu.Unlock()
		return err
	}
	f.state.succeed()
	f.mu.Unlock()

	if f.onCreated != nil {
		f.onCreated(*t)
	}
	return nil
}

func (f *CreateTournamentForm) View() CreateTournamentView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return CreateTournamentView{
		Name:        f.name,
		TotalRounds: f.totalRounds,
		Phase:       f.state.phase,
		Busy:        f.state.busy(),
		Error:       f.state.err,
	}
}
