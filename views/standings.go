package views

import (
	"context"
	"sync"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

const (
	NotLoadedMessage = "No standings loaded yet."
	NoPlayersMessage = "No players yet."
)

// StandingsTable re-fetches the whole standings list and replaces its rows
// wholesale. Only the newest load may update the table.
type StandingsTable struct {
	mu           sync.Mutex
	life         context.Context
	backend      Backend
	tournamentID int64

	rows  []models.Standing
	state requestState
	// gen numbers loads; a response whose gen is not the latest is dropped.
	gen uint64
	// inflight counts loads that have not returned yet.
	inflight int

	observed   bool
	lastSignal uint64
}

type StandingsView struct {
	TournamentID int64
	Rows         []models.Standing
	Loaded       bool
	Empty        bool
	Phase        Phase
	Busy         bool
	Error        string
}

// Notice is the placeholder text shown instead of the table, if any.
func (v StandingsView) Notice() string {
	switch {
	case !v.Loaded:
		return NotLoadedMessage
	case v.Empty:
		return NoPlayersMessage
	default:
		return ""
	}
}

func NewStandingsTable(life context.Context, backend Backend, tournamentID int64) *StandingsTable {
	return &StandingsTable{
		life:         life,
		backend:      backend,
		tournamentID: tournamentID,
	}
}

// Observe reloads the table when signal differs from the last observed value.
func (s *StandingsTable) Observe(ctx context.Context, signal uint64) error {
	s.mu.Lock()
	if s.observed && s.lastSignal == signal {
		s.mu.Unlock()
		return nil
	}
	s.observed = true
	s.lastSignal = signal
	s.mu.Unlock()
	return s.Load(ctx)
}

// Refresh is the manual reload; it is refused while a load is in flight.
func (s *StandingsTable) Refresh(ctx context.Context) error {
	return s.load(ctx, true)
}

// Load fetches the standings. Superseded or discarded responses return ErrDiscarded.
func (s *StandingsTable) Load(ctx context.Context) error {
	return s.load(ctx, false)
}

func (s *StandingsTable) load(ctx context.Context, refuseIfBusy bool) error {
	s.mu.Lock()
	if refuseIfBusy && s.inflight > 0 {
		s.mu.Unlock()
		return ErrBusy
	}
	s.gen++
	gen := s.gen
	s.inflight++
	s.state.phase = PhaseBusy
	s.state.err = ""
	s.mu.Unlock()

	ctx, cancel := bind(ctx, s.life)
	defer cancel()
	rows, err := s.backend.GetStandings(ctx, s.tournamentID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if s.life.Err() != nil || gen != s.gen {
		if s.inflight == 0 {
			s.state.phase = PhaseSettled
		}
		return ErrDiscarded
	}
	if err != nil {
		s.state.fail(err, "Failed to load standings")
		return err
	}
	if rows == nil {
		rows = []models.Standing{}
	}
	s.rows = rows
	s.state.succeed()
	return nil
}

func (s *StandingsTable) View() StandingsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := StandingsView{
		TournamentID: s.tournamentID,
		Loaded:       s.rows != nil,
		Empty:        s.rows != nil && len(s.rows) == 0,
		Phase:        s.state.phase,
		Busy:         s.inflight > 0,
		Error:        s.state.err,
	}
	if s.rows != nil {
		v.Rows = append([]models.Standing{}, s.rows...)
	}
	return v
}
