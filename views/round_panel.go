package views

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

// RoundPanel holds the most recently generated round of a tournament and
// one MatchRow per pairing. A generation answered with 204 clears the held round.
type RoundPanel struct {
	mu           sync.Mutex
	life         context.Context
	backend      Backend
	clock        clockwork.Clock
	tournamentID int64
	onGenerated  func(*models.Round)
	onSubmitted  func(models.Match)

	round *models.Round
	rows  []*MatchRow
	state requestState
}

type RoundView struct {
	TournamentID int64
	Loaded       bool
	RoundID      int64
	Number       int
	Rows         []MatchRowView
	Phase        Phase
	Busy         bool
	Error        string
}

func NewRoundPanel(life context.Context, backend Backend, clock clockwork.Clock, tournamentID int64,
	onGenerated func(*models.Round), onSubmitted func(models.Match)) *RoundPanel {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RoundPanel{
		life:         life,
		backend:      backend,
		clock:        clock,
		tournamentID: tournamentID,
		onGenerated:  onGenerated,
		onSubmitted:  onSubmitted,
	}
}

// Generate asks the backend for the next round and replaces the held one.
func (p *RoundPanel) Generate(ctx context.Context) error {
	p.mu.Lock()
	if err := p.state.begin(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	ctx, cancel := bind(ctx, p.life)
	defer cancel()
	r, err := p.backend.GenerateNextRound(ctx, p.tournamentID)

	p.mu.Lock()
	if p.life.Err() != nil {
		p.state.phase = PhaseIdle
		p.mu.Unlock()
		return ErrDiscarded
	}
	if err != nil {
		p.state.fail(err, "Failed to generate next round")
		p.mu.Unlock()
		return err
	}
	p.round = r
	p.rows = nil
	var round *models.Round
	if r != nil {
		p.rows = make([]*MatchRow, 0, len(r.Matches))
		for _, m := range r.Matches {
			p.rows = append(p.rows, newMatchRow(p.life, p.backend, p.clock, m, p.onSubmitted))
		}
		copied := *r
		round = &copied
	}
	p.state.succeed()
	p.mu.Unlock()

	if p.onGenerated != nil {
		p.onGenerated(round)
	}
	return nil
}

// Row returns the result entry for a match of the held round.
func (p *RoundPanel) Row(matchID int64) (*MatchRow, bool) {
	p.mu.Lock()
	round, rows := p.round, p.rows
	p.mu.Unlock()
	if _, ok := round.Match(matchID); !ok {
		return nil, false
	}
	for _, row := range rows {
		if row.ID() == matchID {
			return row, true
		}
	}
	return nil, false
}

// Round returns a copy of the held round, or nil before the first generation.
func (p *RoundPanel) Round() *models.Round {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.round == nil {
		return nil
	}
	r := *p.round
	return &r
}

func (p *RoundPanel) View() RoundView {
	p.mu.Lock()
	v := RoundView{
		TournamentID: p.tournamentID,
		Phase:        p.state.phase,
		Busy:         p.state.busy(),
		Error:        p.state.err,
	}
	rows := p.rows
	if p.round != nil {
		v.Loaded = true
		v.RoundID = p.round.ID
		v.Number = p.round.Number
	}
	p.mu.Unlock()

	v.Rows = make([]MatchRowView, 0, len(rows))
	for _, row := range rows {
		v.Rows = append(v.Rows, row.View())
	}
	return v
}
