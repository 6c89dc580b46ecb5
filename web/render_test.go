package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament-ui/models"
	"github.com/Dosada05/swiss-tournament-ui/page"
	"github.com/Dosada05/swiss-tournament-ui/views"
)

func TestFormatScore(t *testing.T) {
	tests := map[float64]string{0: "0", 1: "1", 1.5: "1.5", 2.25: "2.25", 10: "10"}
	for in, want := range tests {
		assert.Equal(t, want, FormatScore(in))
	}
}

func TestRenderer_PageWithoutTournament(t *testing.T) {
	r, err := NewRenderer("http://localhost:8080")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	err = r.Page(rec, http.StatusOK, page.View{
		State:  page.NoTournament,
		Origin: "o-1",
		Create: views.CreateTournamentView{Name: "Dev Tournament", TotalRounds: 5, Error: "Total rounds must be a positive number"},
	})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Backend: <code>http://localhost:8080</code>")
	assert.Contains(t, body, `value="Dev Tournament"`)
	assert.Contains(t, body, `value="5"`)
	assert.Contains(t, body, "Total rounds must be a positive number")
	assert.NotContains(t, body, `id="standings"`)
	assert.NotContains(t, body, `id="players"`)
}

func TestRenderer_PageWithTournament(t *testing.T) {
	r, err := NewRenderer("http://api.test")
	require.NoError(t, err)

	draw := models.ResultDraw
	bob := "Bob"
	v := page.View{
		State:      page.HasTournament,
		Origin:     "o-2",
		Signal:     4,
		Tournament: &models.Tournament{ID: 7, Name: "Club Open", TotalRounds: 5},
		Players:    views.AddPlayerView{TournamentID: 7},
		Round: views.RoundView{
			TournamentID: 7,
			Loaded:       true,
			RoundID:      3,
			Number:       2,
			Rows: []views.MatchRowView{
				{Match: models.Match{ID: 42, Player1Name: &bob, Result: &draw}, Player1: "Bob", Player2: "(BYE)", Current: draw, Selected: draw, Message: "Saved."},
			},
		},
		Standings: views.StandingsView{
			TournamentID: 7,
			Loaded:       true,
			Rows:         []models.Standing{{PlayerID: 17, Name: "Bob", Score: 1.5, Buchholz: 2, SonnebornBerger: 0.75}},
		},
	}

	rec := httptest.NewRecorder()
	require.NoError(t, r.Page(rec, http.StatusOK, v))
	body := rec.Body.String()

	assert.Contains(t, body, `data-tournament="7"`)
	assert.Contains(t, body, `data-origin="o-2"`)
	assert.Contains(t, body, "Club Open")
	assert.Contains(t, body, "Round #2 (id: 3)")
	assert.Contains(t, body, "current: 0.5-0.5")
	assert.Contains(t, body, "(BYE)")
	assert.Contains(t, body, `action="/matches/42/result"`)
	assert.Contains(t, body, `<option value="0.5-0.5" selected>`)
	assert.Contains(t, body, "Saved.")
	assert.Contains(t, body, "<td>1.5</td>")
	assert.Contains(t, body, "<td>0.75</td>")
	assert.Regexp(t, `<td>17</td>\s*<td>Bob</td>`, body)
}

func TestRenderer_StandingsNotices(t *testing.T) {
	r, err := NewRenderer("http://api.test")
	require.NoError(t, err)

	tests := []struct {
		name string
		view views.StandingsView
		want string
	}{
		{"not loaded", views.StandingsView{TournamentID: 1}, views.NotLoadedMessage},
		{"empty", views.StandingsView{TournamentID: 1, Loaded: true, Empty: true, Rows: []models.Standing{}}, views.NoPlayersMessage},
		{"error", views.StandingsView{TournamentID: 1, Error: "Tournament not found"}, "Tournament not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.NoError(t, r.Standings(rec, http.StatusOK, tt.view))
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotContains(t, rec.Body.String(), "<html")
		})
	}
}

func TestStatic(t *testing.T) {
	srv := httptest.NewServer(Static())
	defer srv.Close()

	for _, name := range []string{"/app.js", "/app.css"} {
		resp, err := http.Get(srv.URL + name)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, name)
	}
}
