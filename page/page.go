package page

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/Dosada05/swiss-tournament-ui/models"
	"github.com/Dosada05/swiss-tournament-ui/views"
)

var (
	ErrNoTournament = errors.New("create a tournament first")
	ErrUnknownMatch = errors.New("match is not part of the current round")
)

// State is the page-level state machine.
type State int

const (
	NoTournament State = iota
	HasTournament
)

func (s State) String() string {
	if s == HasTournament {
		return "has-tournament"
	}
	return "no-tournament"
}

// Notifier is told about every refresh signal of a tournament. origin
// identifies the page that caused it.
type Notifier interface {
	TournamentChanged(tournamentID int64, origin string, signal uint64)
}

type Options struct {
	Backend  views.Backend
	Clock    clockwork.Clock
	Notifier Notifier
	Logger   *slog.Logger
	// Origin is an opaque, non-secret id of this page used in notifications.
	Origin string
}

// Page composes the view components of one browser session and owns the
// refresh signal between them.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc

	backend  views.Backend
	clock    clockwork.Clock
	notifier Notifier
	logger   *slog.Logger
	origin   string

	signal *Signal
	create *views.CreateTournamentForm

	mu    sync.Mutex
	scope *tournamentScope
}

// tournamentScope holds the components bound to one tournament. Its context
// ends when the tournament is replaced or the page is reset.
type tournamentScope struct {
	tournament models.Tournament
	ctx        context.Context
	cancel     context.CancelFunc
	unsubs     []func()

	players   *views.AddPlayerForm
	rounds    *views.RoundPanel
	standings *views.StandingsTable
}

func (s *tournamentScope) close() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.cancel()
}

type View struct {
	State      State
	Origin     string
	Signal     uint64
	Tournament *models.Tournament
	Create     views.CreateTournamentView
	Players    views.AddPlayerView
	Round      views.RoundView
	Standings  views.StandingsView
}

func (v View) HasTournament() bool {
	return v.State == HasTournament
}

func New(parent context.Context, opts Options) *Page {
	ctx, cancel := context.WithCancel(parent)
	p := &Page{
		ctx:      ctx,
		cancel:   cancel,
		backend:  opts.Backend,
		clock:    opts.Clock,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		origin:   opts.Origin,
		signal:   &Signal{},
	}
	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	p.create = views.NewCreateTournamentForm(ctx, opts.Backend, p.adoptTournament)
	return p
}

func (p *Page) Origin() string { return p.origin }

func (p *Page) Signal() *Signal { return p.signal }

func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		return NoTournament
	}
	return HasTournament
}

// Tournament returns the current tournament or nil.
func (p *Page) Tournament() *models.Tournament {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		return nil
	}
	t := p.scope.tournament
	return &t
}

func (p *Page) current() (*tournamentScope, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.scope == nil {
		return nil, ErrNoTournament
	}
	return p.scope, nil
}

// CreateTournament submits the create form with the given inputs.
func (p *Page) CreateTournament(ctx context.Context, name string, totalRounds int) error {
	p.create.SetInputs(name, totalRounds)
	return p.create.Submit(ctx)
}

// RejectCreate shows a local validation message on the create form.
func (p *Page) RejectCreate(msg string) {
	p.create.Reject(msg)
}

func (p *Page) AddPlayer(ctx context.Context, name string) error {
	s, err := p.current()
	if err != nil {
		return err
	}
	s.players.SetName(name)
	return s.players.Submit(ctx)
}

func (p *Page) GenerateNextRound(ctx context.Context) error {
	s, err := p.current()
	if err != nil {
		return err
	}
	return s.rounds.Generate(ctx)
}

// SubmitResult selects code on the match row and submits it. An empty code
// exercises the "no result selected" path.
func (p *Page) SubmitResult(ctx context.Context, matchID int64, code models.ResultCode) error {
	s, err := p.current()
	if err != nil {
		return err
	}
	row, ok := s.rounds.Row(matchID)
	if !ok {
		return ErrUnknownMatch
	}
	if err := row.Select(code); err != nil {
		return err
	}
	return row.Submit(ctx)
}

// RefreshStandings is the manual refresh button.
func (p *Page) RefreshStandings(ctx context.Context) error {
	s, err := p.current()
	if err != nil {
		return err
	}
	return s.standings.Refresh(ctx)
}

// ReloadStandings fetches standings on behalf of a change made elsewhere.
func (p *Page) ReloadStandings(ctx context.Context) error {
	s, err := p.current()
	if err != nil {
		return err
	}
	return s.standings.Load(ctx)
}

// Reset drops the tournament and returns to the creation form.
func (p *Page) Reset() {
	p.mu.Lock()
	old := p.scope
	p.scope = nil
	p.mu.Unlock()
	if old != nil {
		old.close()
	}
}

// Close cancels every in-flight request of the page.
func (p *Page) Close() {
	p.Reset()
	p.cancel()
}

func (p *Page) adoptTournament(t models.Tournament) {
	ctx, cancel := context.WithCancel(p.ctx)
	s := &tournamentScope{
		tournament: t,
		ctx:        ctx,
		cancel:     cancel,
	}
	s.players = views.NewAddPlayerForm(ctx, p.backend, t.ID, func(*models.Player) { p.bump() })
	s.rounds = views.NewRoundPanel(ctx, p.backend, p.clock, t.ID,
		func(*models.Round) { p.bump() },
		func(models.Match) { p.bump() },
	)
	s.standings = views.NewStandingsTable(ctx, p.backend, t.ID)

	s.unsubs = append(s.unsubs, p.signal.Subscribe(func(v uint64) {
		if err := s.standings.Observe(s.ctx, v); err != nil && !errors.Is(err, views.ErrDiscarded) {
			p.logger.Debug("standings reload failed",
				slog.Int64("tournament_id", t.ID),
				slog.Any("error", err),
			)
		}
	}))
	if p.notifier != nil {
		s.unsubs = append(s.unsubs, p.signal.Subscribe(func(v uint64) {
			p.notifier.TournamentChanged(t.ID, p.origin, v)
		}))
	}

	p.mu.Lock()
	old := p.scope
	p.scope = s
	p.mu.Unlock()
	if old != nil {
		old.close()
	}

	p.logger.Info("tournament adopted",
		slog.Int64("tournament_id", t.ID),
		slog.String("name", t.Name),
		slog.Int("total_rounds", t.TotalRounds),
	)
	p.bump()
}

func (p *Page) bump() {
	p.signal.Bump()
}

func (p *Page) View() View {
	v := View{
		Origin: p.origin,
		Signal: p.signal.Value(),
		Create: p.create.View(),
	}
	p.mu.Lock()
	s := p.scope
	p.mu.Unlock()
	if s == nil {
		v.State = NoTournament
		return v
	}
	t := s.tournament
	v.State = HasTournament
	v.Tournament = &t
	v.Players = s.players.View()
	v.Round = s.rounds.View()
	v.Standings = s.standings.View()
	return v
}

// StandingsView renders only the standings section.
func (p *Page) StandingsView() (views.StandingsView, error) {
	s, err := p.current()
	if err != nil {
		return views.StandingsView{}, err
	}
	return s.standings.View(), nil
}
