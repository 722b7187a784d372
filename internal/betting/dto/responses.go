package dto

type BetResponse struct {
	BetID     string `json:"bet_id"`
	EventID   int64  `json:"event_id"`
	DriverID  int64  `json:"driver_id"`
	AmountEur int64  `json:"amount"`
	Odds      int    `json:"odds"`
	Status    string `json:"status"`
}

type SettleResponse struct {
	EventID         int64 `json:"event_id"`
	WinningDriverID int64 `json:"winning_driver_id"`
	PoolEur         int64 `json:"pool_eur"`
	DistributedEur  int64 `json:"distributed_eur"`
	WinningBets     int   `json:"winning_bets"`
}

type UserResponse struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	BalanceEur int64  `json:"balance_eur"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
