package views

import (
	"context"
	"strings"
	"sync"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

// AddPlayerForm registers players in one tournament. The name field clears
// after a successful add, including a 204 that carries no player.
type AddPlayerForm struct {
	mu           sync.Mutex
	life         context.Context
	backend      Backend
	tournamentID int64
	onAdded      func(*models.Player)
	name         string
	state        requestState
}

type AddPlayerView struct {
	TournamentID int64
	Name         string
	Phase        Phase
	Busy         bool
	Error        string
}

func NewAddPlayerForm(life context.Context, backend Backend, tournamentID int64, onAdded func(*models.Player)) *AddPlayerForm {
	return &AddPlayerForm{
		life:         life,
		backend:      backend,
		tournamentID: tournamentID,
		onAdded:      onAdded,
	}
}

func (f *AddPlayerForm) SetName(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.busy() {
		return
	}
	f.name = name
}

// Submit sends the trimmed name. A blank name never reaches the backend.
func (f *AddPlayerForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.busy() {
		f.mu.Unlock()
		return ErrBusy
	}
	name := strings.TrimSpace(f.name)
	if name == "" {
		f.state.reject(ErrBlankPlayerName.Error())
		f.mu.Unlock()
		return ErrBlankPlayerName
	}
	f.state.start()
	f.mu.Unlock()

	ctx, cancel := bind(ctx, f.life)
	defer cancel()
	p, err := f.backend.AddPlayer(ctx, f.tournamentID, models.AddPlayerRequest{Name: name})

	f.mu.Lock()
	if f.life.Err() != nil {
		f.state.phase = PhaseIdle
		f.mu.Unlock()
		return ErrDiscarded
	}
	if err != nil {
		f.state.fail(err, "Failed to add player")
		f.mu.Unlock()
		return err
	}
	f.name = ""
	f.state.succeed()
	f.mu.Unlock()

	if f.onAdded != nil {
		f.onAdded(p)
	}
	return nil
}

func (f *AddPlayerForm) View() AddPlayerView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return AddPlayerView{
		TournamentID: f.tournamentID,
		Name:         f.name,
		Phase:        f.state.phase,
		Busy:         f.state.busy(),
		Error:        f.state.err,
	}
}
