package domain

import "time"

type EventStatus string

const (
	EventOpen    EventStatus = "OPEN"
	EventLocked  EventStatus = "LOCKED"
	EventSettled EventStatus = "SETTLED"
)

type BetStatus string

const (
	BetPending BetStatus = "PENDING"
	BetWon     BetStatus = "WON"
	BetLost    BetStatus = "LOST"
)

// User é a linha persistida em users. O saldo só muda via débito condicional
// ou crédito de liquidação.
type User struct {
	ID         int64
	Username   string
	BalanceEur int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Event é o registro histórico local de um evento (session do provider).
// Status só avança: OPEN -> LOCKED -> SETTLED.
type Event struct {
	EventID   int64
	EventName string
	Country   string
	Year      int
	Status    EventStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bet é a aposta persistida. Stake e odds são congelados na criação;
// o status muda uma única vez, na liquidação do evento.
type Bet struct {
	ID         string
	UserID     int64
	EventID    int64
	DriverID   int64
	DriverName string
	AmountEur  int64
	Odds       int
	Status     BetStatus
	CreatedAt  time.Time
}

// EventOutcome registra o vencedor de um evento liquidado (única por evento).
type EventOutcome struct {
	EventID         int64
	WinningDriverID int64
	SettledAt       time.Time
}
