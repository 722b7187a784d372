package events

type BetPlaced struct {
	BetID    string `json:"bet_id"`
	UserID   int64  `json:"user_id"`
	EventID  int64  `json:"event_id"`
	DriverID int64  `json:"driver_id"`
	StakeEur int64  `json:"stake_eur"`
	Odds     int    `json:"odds"` // odds inteiras congeladas no momento da aposta
	TsUnixMs int64  `json:"ts_unix_ms"`
}
