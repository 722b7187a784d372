package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/betting/domain"
	"github.com/radieske/f1-betting-poc/internal/betting/dto"
	"github.com/radieske/f1-betting-poc/internal/betting/settlement"
)

type fakeService struct {
	placeBetFn    func(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error)
	settleEventFn func(ctx context.Context, eventID int64) (settlement.Result, error)
	getBetFn      func(ctx context.Context, betID string) (domain.Bet, error)
	listBetsFn    func(ctx context.Context, userID int64) ([]domain.Bet, error)
	getUserFn     func(ctx context.Context, userID int64) (domain.User, error)
}

func (f *fakeService) PlaceBet(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
	return f.placeBetFn(ctx, userID, eventID, driverID, amountEur)
}

func (f *fakeService) SettleEvent(ctx context.Context, eventID int64) (settlement.Result, error) {
	return f.settleEventFn(ctx, eventID)
}

func (f *fakeService) GetBet(ctx context.Context, betID string) (domain.Bet, error) {
	return f.getBetFn(ctx, betID)
}

func (f *fakeService) ListUserBets(ctx context.Context, userID int64) ([]domain.Bet, error) {
	return f.listBetsFn(ctx, userID)
}

func (f *fakeService) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return f.getUserFn(ctx, userID)
}

func doRequest(t *testing.T, svc Service, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	NewServer(zap.NewNop(), svc).Router().ServeHTTP(rr, req)
	return rr
}

func TestPlaceBetHandler(t *testing.T) {
	validReq := dto.PlaceBetRequest{UserID: 1, EventID: 9001, DriverID: 44, AmountEur: 10}

	t.Run("Created", func(t *testing.T) {
		svc := &fakeService{
			placeBetFn: func(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
				return domain.Bet{ID: "b1", EventID: eventID, DriverID: driverID, AmountEur: amountEur, Odds: 3, Status: domain.BetPending}, nil
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/bets", validReq)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var res dto.BetResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, "b1", res.BetID)
		assert.Equal(t, 3, res.Odds)
		assert.Equal(t, "PENDING", res.Status)
	})

	t.Run("Bad JSON", func(t *testing.T) {
		svc := &fakeService{}
		req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewBufferString("{"))
		rr := httptest.NewRecorder()
		NewServer(zap.NewNop(), svc).Router().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Validation Error", func(t *testing.T) {
		svc := &fakeService{
			placeBetFn: func(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
				return domain.Bet{}, fmt.Errorf("%w: driver 77 not found in event 9001", domain.ErrValidation)
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/bets", validReq)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "driver 77 not found")
	})

	t.Run("Insufficient Balance Is Conflict", func(t *testing.T) {
		svc := &fakeService{
			placeBetFn: func(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
				return domain.Bet{}, domain.ErrInsufficientFunds
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/bets", validReq)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "insufficient balance")
	})

	t.Run("Unknown User Is Not Found", func(t *testing.T) {
		svc := &fakeService{
			placeBetFn: func(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
				return domain.Bet{}, fmt.Errorf("%w: user 42", domain.ErrNotFound)
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/bets", validReq)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Provider Down Is Bad Gateway", func(t *testing.T) {
		svc := &fakeService{
			placeBetFn: func(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
				return domain.Bet{}, fmt.Errorf("%w: connection refused", domain.ErrUpstream)
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/bets", validReq)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

func TestSettleEventHandler(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		svc := &fakeService{
			settleEventFn: func(ctx context.Context, eventID int64) (settlement.Result, error) {
				return settlement.Result{WinningDriverID: 44, PoolEur: 15, DistributedEur: 14, WinningBets: 2}, nil
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/events/9001/settle", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var res dto.SettleResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.Equal(t, int64(9001), res.EventID)
		assert.Equal(t, int64(44), res.WinningDriverID)
		assert.Equal(t, int64(15), res.PoolEur)
		assert.Equal(t, int64(14), res.DistributedEur)
	})

	t.Run("Already Settled Is Conflict", func(t *testing.T) {
		svc := &fakeService{
			settleEventFn: func(ctx context.Context, eventID int64) (settlement.Result, error) {
				return settlement.Result{}, fmt.Errorf("%w: event 9001 is SETTLED, expected OPEN", domain.ErrConflict)
			},
		}

		rr := doRequest(t, svc, http.MethodPost, "/events/9001/settle", nil)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Invalid EventId", func(t *testing.T) {
		svc := &fakeService{}
		rr := doRequest(t, svc, http.MethodPost, "/events/abc/settle", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestGetBetHandler(t *testing.T) {
	t.Run("Not Found", func(t *testing.T) {
		svc := &fakeService{
			getBetFn: func(ctx context.Context, betID string) (domain.Bet, error) {
				return domain.Bet{}, fmt.Errorf("%w: bet %s", domain.ErrNotFound, betID)
			},
		}

		rr := doRequest(t, svc, http.MethodGet, "/bets/missing", nil)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetUserHandler(t *testing.T) {
	svc := &fakeService{
		getUserFn: func(ctx context.Context, userID int64) (domain.User, error) {
			return domain.User{ID: userID, Username: "alice", BalanceEur: 90}, nil
		},
	}

	rr := doRequest(t, svc, http.MethodGet, "/users/1", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var res dto.UserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, int64(90), res.BalanceEur)
}
