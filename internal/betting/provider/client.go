package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/radieske/f1-betting-poc/internal/betting/domain"
)

// Driver como exposto pelo event-service, com odds já atribuídas.
type Driver struct {
	DriverID int64  `json:"driverId"`
	FullName string `json:"fullName"`
	TeamName string `json:"teamName"`
	Odds     int    `json:"odds"`
}

type EventDetails struct {
	EventID   int64     `json:"eventId"`
	EventName string    `json:"eventName"`
	Country   string    `json:"country"`
	Year      int       `json:"year"`
	DateStart time.Time `json:"dateStart"`
	Drivers   []Driver  `json:"drivers"`
}

type EventResult struct {
	EventID         int64 `json:"eventId"`
	WinningDriverID int64 `json:"winningDriverId"`
	Finished        bool  `json:"finished"`
}

// Client consome o event-service via HTTP. Timeout curto: a busca acontece
// antes de qualquer transação, nunca segurando lock durante rede.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

func (c *Client) GetEventDetails(ctx context.Context, eventID int64) (EventDetails, error) {
	url := fmt.Sprintf("%s/api/events/%d", c.BaseURL, eventID)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return EventDetails{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return EventDetails{}, fmt.Errorf("%w: event %d", domain.ErrNotFound, eventID)
	case res.StatusCode >= 300:
		return EventDetails{}, fmt.Errorf("%w: event details http %d", domain.ErrUpstream, res.StatusCode)
	}

	var out EventDetails
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return EventDetails{}, fmt.Errorf("%w: decode event details: %v", domain.ErrUpstream, err)
	}
	return out, nil
}

// GetWinner retorna Finished=false enquanto o provider não tiver resultado
// (o event-service responde 404 até existir posição 1).
func (c *Client) GetWinner(ctx context.Context, eventID int64) (EventResult, error) {
	url := fmt.Sprintf("%s/api/events/%d/winner", c.BaseURL, eventID)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return EventResult{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return EventResult{EventID: eventID, Finished: false}, nil
	case res.StatusCode >= 300:
		return EventResult{}, fmt.Errorf("%w: winner http %d", domain.ErrUpstream, res.StatusCode)
	}

	var out EventResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return EventResult{}, fmt.Errorf("%w: decode winner: %v", domain.ErrUpstream, err)
	}
	return out, nil
}
