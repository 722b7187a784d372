package topics

const (
	// Apostas
	BetPlaced = "bet_placed"

	// Liquidação de eventos
	EventSettled = "event_settled"
)
