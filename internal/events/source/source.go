package source

import (
	"context"
	"errors"
	"time"
)

// Driver de um evento, com odds inteiras atribuídas pelo adapter.
type Driver struct {
	DriverID int64  `json:"driverId"`
	FullName string `json:"fullName"`
	TeamName string `json:"teamName"`
	Odds     int    `json:"odds"`
}

// EventDetails é a visão normalizada de uma session do provider.
type EventDetails struct {
	EventID   int64     `json:"eventId"`
	EventName string    `json:"eventName"`
	Country   string    `json:"country"`
	Year      int       `json:"year"`
	DateStart time.Time `json:"dateStart"`
	Drivers   []Driver  `json:"drivers"`
}

// EventResult é o resultado de uma corrida; Finished=false enquanto o
// provider não publicar a posição 1.
type EventResult struct {
	EventID         int64 `json:"eventId"`
	WinningDriverID int64 `json:"winningDriverId"`
	Finished        bool  `json:"finished"`
}

// Filter restringe a listagem de eventos.
type Filter struct {
	SessionType string
	Country     string
	Year        int
}

var (
	ErrNotFound    = errors.New("event not found")
	ErrRateLimited = errors.New("provider rate limited")
	ErrUnavailable = errors.New("provider unavailable")
)

// Source é a interface do provider de eventos. O adapter OpenF1 implementa;
// cache e rate limit são decorators compostos em volta dela.
type Source interface {
	Event(ctx context.Context, eventID int64) (EventDetails, error)
	Events(ctx context.Context, f Filter) ([]EventDetails, error)
	Winner(ctx context.Context, eventID int64) (EventResult, error)
}
