package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Dosada05/swiss-tournament-ui/models"
)

// All operations return a nil value with a nil error when the backend answers
// 204 No Content.

func (c *Client) CreateTournament(ctx context.Context, req models.CreateTournamentRequest) (*models.Tournament, error) {
	var t models.Tournament
	ok, err := c.do(ctx, "create_tournament", http.MethodPost, "/tournaments", req, &t)
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}

func (c *Client) AddPlayer(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error) {
	var p models.Player
	path := fmt.Sprintf("/tournaments/%d/players", tournamentID)
	ok, err := c.do(ctx, "add_player", http.MethodPost, path, req, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GenerateNextRound(ctx context.Context, tournamentID int64) (*models.Round, error) {
	var r models.Round
	path := fmt.Sprintf("/tournaments/%d/rounds/next", tournamentID)
	ok, err := c.do(ctx, "generate_next_round", http.MethodPost, path, nil, &r)
	if err != nil || !ok {
		return nil, err
	}
	return &r, nil
}

func (c *Client) SetResult(ctx context.Context, matchID int64, req models.SetResultRequest) (*models.Match, error) {
	var m models.Match
	path := fmt.Sprintf("/matches/%d/result", matchID)
	ok, err := c.do(ctx, "set_result", http.MethodPut, path, req, &m)
	if err != nil || !ok {
		return nil, err
	}
	return &m, nil
}

// GetStandings returns the ordered standings. An empty tournament yields an
// empty, non-nil slice, and so does 204.
func (c *Client) GetStandings(ctx context.Context, tournamentID int64) ([]models.Standing, error) {
	var rows []models.Standing
	path := fmt.Sprintf("/tournaments/%d/standings", tournamentID)
	if _, err := c.do(ctx, "get_standings", http.MethodGet, path, nil, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []models.Standing{}
	}
	return rows, nil
}
