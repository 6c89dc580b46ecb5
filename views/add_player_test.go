package views

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/swiss-tournament-ui/apiclient"
	"github.com/Dosada05/swiss-tournament-ui/models"
)

func TestAddPlayerForm_BlankNameNeverHitsBackend(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		backend := &FakeBackend{}
		form := NewAddPlayerForm(context.Background(), backend, 1, nil)
		form.SetName(name)

		err := form.Submit(context.Background())

		assert.ErrorIs(t, err, ErrBlankPlayerName)
		assert.Zero(t, backend.Calls("AddPlayer"))
		v := form.View()
		assert.Equal(t, "Player name must not be blank", v.Error)
		assert.Equal(t, PhaseIdle, v.Phase)
	}
}

func TestAddPlayerForm_SuccessTrimsAndClears(t *testing.T) {
	name := gofakeit.Name()
	var sent models.AddPlayerRequest
	var sentTournament int64
	backend := &FakeBackend{
		AddPlayerFunc: func(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error) {
			sent = req
			sentTournament = tournamentID
			return &models.Player{ID: 9, Name: req.Name}, nil
		},
	}
	var added []*models.Player
	form := NewAddPlayerForm(context.Background(), backend, 4, func(p *models.Player) { added = append(added, p) })
	form.SetName("  " + name + "  ")

	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, name, sent.Name)
	assert.Equal(t, int64(4), sentTournament)
	require.Len(t, added, 1)
	require.NotNil(t, added[0])
	assert.Equal(t, int64(9), added[0].ID)
	v := form.View()
	assert.Empty(t, v.Name)
	assert.Empty(t, v.Error)
	assert.Equal(t, PhaseSettled, v.Phase)
}

func TestAddPlayerForm_FailureKeepsInput(t *testing.T) {
	backend := &FakeBackend{
		AddPlayerFunc: func(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error) {
			return nil, errors.New("duplicate player")
		},
	}
	called := false
	form := NewAddPlayerForm(context.Background(), backend, 1, func(*models.Player) { called = true })
	form.SetName("Judit")

	require.Error(t, form.Submit(context.Background()))

	v := form.View()
	assert.Equal(t, "Judit", v.Name)
	assert.Equal(t, "duplicate player", v.Error)
	assert.False(t, called)
}

func TestAddPlayerForm_ErrorClearedOnNextSubmit(t *testing.T) {
	backend := &FakeBackend{}
	form := NewAddPlayerForm(context.Background(), backend, 1, nil)

	_ = form.Submit(context.Background())
	require.NotEmpty(t, form.View().Error)

	form.SetName("Hou Yifan")
	require.NoError(t, form.Submit(context.Background()))
	assert.Empty(t, form.View().Error)
}

func TestAddPlayerForm_NoContentIsSuccess(t *testing.T) {
	backend := &FakeBackend{
		AddPlayerFunc: func(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error) {
			return nil, nil
		},
	}
	calls := 0
	var got *models.Player
	form := NewAddPlayerForm(context.Background(), backend, 1, func(p *models.Player) {
		calls++
		got = p
	})
	form.SetName("Anand")

	require.NoError(t, form.Submit(context.Background()))

	assert.Equal(t, 1, calls)
	assert.Nil(t, got)
	v := form.View()
	assert.Empty(t, v.Name)
	assert.Empty(t, v.Error)
	assert.Equal(t, PhaseSettled, v.Phase)
}

func TestAddPlayerForm_NoContentThroughClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tournaments/3/players", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()
	client, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	added := 0
	form := NewAddPlayerForm(context.Background(), client, 3, func(*models.Player) { added++ })
	form.SetName("Anand")

	require.NoError(t, form.Submit(context.Background()))
	assert.Equal(t, 1, added)
	assert.Empty(t, form.View().Name)
	assert.Empty(t, form.View().Error)
}

func TestAddPlayerForm_SecondSubmitWhileBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &FakeBackend{
		AddPlayerFunc: func(ctx context.Context, tournamentID int64, req models.AddPlayerRequest) (*models.Player, error) {
			close(started)
			<-release
			return &models.Player{ID: 1, Name: req.Name}, nil
		},
	}
	form := NewAddPlayerForm(context.Background(), backend, 1, nil)
	form.SetName("Anand")

	done := make(chan error, 1)
	go func() { done <- form.Submit(context.Background()) }()
	<-started

	v := form.View()
	assert.True(t, v.Busy)
	assert.Equal(t, PhaseBusy, v.Phase)
	assert.ErrorIs(t, form.Submit(context.Background()), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, backend.Calls("AddPlayer"))
	assert.False(t, form.View().Busy)
}
