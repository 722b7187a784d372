package dto

type PlaceBetRequest struct {
	UserID    int64 `json:"user_id"`
	EventID   int64 `json:"event_id"`
	DriverID  int64 `json:"driver_id"`
	AmountEur int64 `json:"amount"`
}
