package views

import (
	"context"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

// Backend is the subset of the request client the view components use.
// *apiclient.Client satisfies it.
type Backend interface {
	CreateTournament(ctx context.Context, req models.CreateTournamentRequest) (*models.Tournament, error)
	AddPlayer(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error)
	GenerateNextRound(ctx context.Context, tournamentID int64) (*models.Round, error)
	SetResult(ctx context.Context, matchID int64, req models.SetResultRequest) (*models.Match, error)
	GetStandings(ctx context.Context, tournamentID int64) ([]models.Standing, error)
}
