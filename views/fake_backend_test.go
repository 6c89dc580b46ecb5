package views

import (
	"context"
	"sync"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

// FakeBackend records calls and delegates to the configured funcs.
type FakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	CreateTournamentFunc  func(ctx context.Context, req models.CreateTournamentRequest) (*models.Tournament, error)
	AddPlayerFunc         func(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error)
	GenerateNextRoundFunc func(ctx context.Context, tournamentID int64) (*models.Round, error)
	SetResultFunc         func(ctx context.Context, matchID int64, req models.SetResultRequest) (*models.Match, error)
	GetStandingsFunc      func(ctx context.Context, tournamentID int64) ([]models.Standing, error)
}

func (f *FakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *FakeBackend) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *FakeBackend) CreateTournament(ctx context.Context, req models.CreateTournamentRequest) (*models.Tournament, error) {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, req)
	}
	return &models.Tournament{ID: 1, Name: req.Name, TotalRounds: req.TotalRounds}, nil
}

func (f *FakeBackend) AddPlayer(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error) {
	f.record("AddPlayer")
	if f.AddPlayerFunc != nil {
		return f.AddPlayerFunc(ctx, tournamentID, req)
	}
	return &models.Player{ID: 1, Name: req.Name}, nil
}

func (f *FakeBackend) GenerateNextRound(ctx context.Context, tournamentID int64) (*models.Round, error) {
	f.record("GenerateNextRound")
	if f.GenerateNextRoundFunc != nil {
		return f.GenerateNextRoundFunc(ctx, tournamentID)
	}
	return &models.Round{ID: 1, Number: 1}, nil
}

func (f *FakeBackend) SetResult(ctx context.Context, matchID int64, req models.SetResultRequest) (*models.Match, error) {
	f.record("SetResult")
	if f.SetResultFunc != nil {
		return f.SetResultFunc(ctx, matchID, req)
	}
	res := req.Result
	return &models.Match{ID: matchID, Result: &res}, nil
}

func (f *FakeBackend) GetStandings(ctx context.Context, tournamentID int64) ([]models.Standing, error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, tournamentID)
	}
	return []models.Standing{}, nil
}
