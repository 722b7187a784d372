package events

// Evento emitido pelo betting-service após liquidar um evento.
// PoolEur - DistributedEur é a sobra de arredondamento retida (auditável).
type EventSettled struct {
	EventID         int64 `json:"event_id"`
	WinningDriverID int64 `json:"winning_driver_id"`
	PoolEur         int64 `json:"pool_eur"`
	DistributedEur  int64 `json:"distributed_eur"`
	WinningBets     int   `json:"winning_bets"`
	TsUnixMs        int64 `json:"ts_unix_ms"`
}
