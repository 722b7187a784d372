package settlement

import "github.com/radieske/f1-betting-poc/internal/betting/domain"

// Result é o produto da liquidação de um evento: quanto pagar por aposta
// vencedora e os totais para auditoria da sobra de arredondamento.
type Result struct {
	WinningDriverID int64
	Payouts         map[string]int64 // betID -> valor a creditar
	PoolEur         int64            // soma de todas as stakes do evento
	DistributedEur  int64            // soma efetivamente paga aos vencedores
	WinningBets     int
}

// ComputePayouts particiona as apostas pelo piloto vencedor e calcula o rateio
// do pool proporcional à stake de cada vencedor, com divisão inteira (floor).
// A sobra pool - distribuído não é redistribuída. Sem vencedores, o pool
// inteiro é retido e todas as apostas perdem.
//
// Marca o status (WON/LOST) direto nas apostas recebidas; não faz I/O.
func ComputePayouts(bets []domain.Bet, winningDriverID int64) Result {
	res := Result{WinningDriverID: winningDriverID, Payouts: make(map[string]int64)}

	var winnerStakeTotal int64
	for i := range bets {
		res.PoolEur += bets[i].AmountEur
		if bets[i].DriverID == winningDriverID {
			winnerStakeTotal += bets[i].AmountEur
		}
	}

	for i := range bets {
		if bets[i].DriverID != winningDriverID {
			bets[i].Status = domain.BetLost
			continue
		}
		bets[i].Status = domain.BetWon
		payout := res.PoolEur * bets[i].AmountEur / winnerStakeTotal
		res.Payouts[bets[i].ID] = payout
		res.DistributedEur += payout
		res.WinningBets++
	}

	return res
}
