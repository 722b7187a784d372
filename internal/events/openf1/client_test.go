package openf1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/events/source"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestEvent(t *testing.T) {
	t.Run("Maps Session And Drivers", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{
			"/sessions": `[{"session_key": 9001, "session_name": "Race", "session_type": "Race", "country_name": "Italy", "year": 2024}]`,
			"/drivers":  `[{"driver_number": 44, "full_name": "Lewis Hamilton", "team_name": "Mercedes"}, {"driver_number": 16, "full_name": "Charles Leclerc", "team_name": "Ferrari"}]`,
		})
		defer srv.Close()

		a := New(zap.NewNop(), srv.URL)
		ed, err := a.Event(context.Background(), 9001)

		require.NoError(t, err)
		assert.Equal(t, int64(9001), ed.EventID)
		assert.Equal(t, "Race", ed.EventName)
		assert.Equal(t, "Italy", ed.Country)
		assert.Equal(t, 2024, ed.Year)
		require.Len(t, ed.Drivers, 2)
		for _, d := range ed.Drivers {
			assert.GreaterOrEqual(t, d.Odds, 2)
			assert.LessOrEqual(t, d.Odds, 4)
		}
	})

	t.Run("Unknown Session Is Not Found", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{"/sessions": `[]`})
		defer srv.Close()

		a := New(zap.NewNop(), srv.URL)
		_, err := a.Event(context.Background(), 123)

		assert.ErrorIs(t, err, source.ErrNotFound)
	})
}

func TestWinner(t *testing.T) {
	t.Run("Position One Wins", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{
			"/position": `[{"driver_number": 16, "position": 2}, {"driver_number": 44, "position": 1}]`,
		})
		defer srv.Close()

		a := New(zap.NewNop(), srv.URL)
		res, err := a.Winner(context.Background(), 9001)

		require.NoError(t, err)
		assert.True(t, res.Finished)
		assert.Equal(t, int64(44), res.WinningDriverID)
	})

	t.Run("No Positions Means Not Finished", func(t *testing.T) {
		srv := newTestServer(t, map[string]string{"/position": `[]`})
		defer srv.Close()

		a := New(zap.NewNop(), srv.URL)
		res, err := a.Winner(context.Background(), 9001)

		require.NoError(t, err)
		assert.False(t, res.Finished)
	})
}

func TestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := New(zap.NewNop(), srv.URL)
	_, err := a.Event(context.Background(), 9001)

	assert.ErrorIs(t, err, source.ErrUnavailable)
}
