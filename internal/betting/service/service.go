package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/radieske/f1-betting-poc/internal/betting/domain"
	"github.com/radieske/f1-betting-poc/internal/betting/provider"
	"github.com/radieske/f1-betting-poc/internal/betting/repo"
	"github.com/radieske/f1-betting-poc/internal/betting/settlement"
	"github.com/radieske/f1-betting-poc/pkg/contracts/events"
)

// Provider é o colaborador externo de detalhes e resultados de eventos.
type Provider interface {
	GetEventDetails(ctx context.Context, eventID int64) (provider.EventDetails, error)
	GetWinner(ctx context.Context, eventID int64) (provider.EventResult, error)
}

// Publisher emite os eventos de domínio após o commit (best-effort).
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
	PublishEventSettled(ctx context.Context, e events.EventSettled) error
}

// Store é a persistência transacional do core.
type Store interface {
	WithTx(ctx context.Context, fn func(tx repo.Tx) error) error
	GetBet(ctx context.Context, betID string) (domain.Bet, error)
	ListBetsByUser(ctx context.Context, userID int64) ([]domain.Bet, error)
	GetUser(ctx context.Context, userID int64) (domain.User, error)
}

// Betting orquestra aposta e liquidação. É o único componente que define
// fronteira de transação; as buscas no provider acontecem sempre antes de
// abrir transação.
type Betting struct {
	log   *zap.Logger
	store Store
	prov  Provider
	publ  Publisher
}

func New(log *zap.Logger, store Store, prov Provider, publ Publisher) *Betting {
	return &Betting{log: log, store: store, prov: prov, publ: publ}
}

// PlaceBet valida a aposta contra o evento do provider e executa, numa única
// transação: registro lazy do evento, checagem de OPEN, débito condicional e
// inserção da aposta PENDING. Falha em qualquer passo desfaz tudo.
func (s *Betting) PlaceBet(ctx context.Context, userID, eventID, driverID, amountEur int64) (domain.Bet, error) {
	if amountEur <= 0 {
		return domain.Bet{}, fmt.Errorf("%w: bet amount must be positive", domain.ErrValidation)
	}

	details, err := s.prov.GetEventDetails(ctx, eventID)
	if err != nil {
		return domain.Bet{}, err
	}

	var drv *provider.Driver
	for i := range details.Drivers {
		if details.Drivers[i].DriverID == driverID {
			drv = &details.Drivers[i]
			break
		}
	}
	if drv == nil {
		return domain.Bet{}, fmt.Errorf("%w: driver %d not found in event %d", domain.ErrValidation, driverID, eventID)
	}

	bet := domain.Bet{
		UserID:     userID,
		EventID:    eventID,
		DriverID:   drv.DriverID,
		DriverName: drv.FullName,
		AmountEur:  amountEur,
		Odds:       drv.Odds, // congeladas aqui, nunca relidas
	}

	err = s.store.WithTx(ctx, func(tx repo.Tx) error {
		if err := tx.InsertEventIfAbsent(ctx, domain.Event{
			EventID:   details.EventID,
			EventName: details.EventName,
			Country:   details.Country,
			Year:      details.Year,
		}); err != nil {
			return err
		}

		ev, err := tx.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.Status != domain.EventOpen {
			return fmt.Errorf("%w: event %d not open for betting", domain.ErrConflict, eventID)
		}

		if err := tx.DebitUser(ctx, userID, amountEur); err != nil {
			return err
		}

		return tx.InsertBet(ctx, &bet)
	})
	if err != nil {
		return domain.Bet{}, err
	}

	if err := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
		BetID:    bet.ID,
		UserID:   bet.UserID,
		EventID:  bet.EventID,
		DriverID: bet.DriverID,
		StakeEur: bet.AmountEur,
		Odds:     bet.Odds,
	}); err != nil {
		s.log.Warn("publish bet_placed", zap.String("betId", bet.ID), zap.Error(err))
	}

	s.log.Info("bet placed",
		zap.String("betId", bet.ID),
		zap.Int64("userId", userID),
		zap.Int64("eventId", eventID),
		zap.Int64("stakeEur", amountEur),
		zap.Int("odds", bet.Odds),
	)
	return bet, nil
}

// SettleEvent liquida um evento em duas fases:
//  1. OPEN->LOCKED numa transação própria; a partir daqui não entram apostas
//     novas nem uma segunda liquidação.
//  2. Busca o vencedor no provider (fora de transação) e, numa segunda
//     transação, calcula e aplica payouts, status, outcome e LOCKED->SETTLED.
//
// Se o provider falhar ou a corrida não tiver terminado, o evento fica LOCKED
// aguardando decisão do operador; não há volta automática pra OPEN.
func (s *Betting) SettleEvent(ctx context.Context, eventID int64) (settlement.Result, error) {
	err := s.store.WithTx(ctx, func(tx repo.Tx) error {
		return tx.TransitionEvent(ctx, eventID, domain.EventOpen, domain.EventLocked)
	})
	if err != nil {
		return settlement.Result{}, err
	}

	result, err := s.prov.GetWinner(ctx, eventID)
	if err != nil {
		s.log.Error("fetch winner", zap.Int64("eventId", eventID), zap.Error(err))
		return settlement.Result{}, err
	}
	if !result.Finished {
		return settlement.Result{}, fmt.Errorf("%w: event %d race not finished", domain.ErrConflict, eventID)
	}

	var res settlement.Result
	err = s.store.WithTx(ctx, func(tx repo.Tx) error {
		bets, err := tx.ListBetsByEvent(ctx, eventID)
		if err != nil {
			return err
		}

		res = settlement.ComputePayouts(bets, result.WinningDriverID)

		for i := range bets {
			if bets[i].Status != domain.BetWon {
				continue
			}
			if err := tx.CreditUser(ctx, bets[i].UserID, res.Payouts[bets[i].ID]); err != nil {
				return err
			}
		}

		if err := tx.UpdateBetStatuses(ctx, bets); err != nil {
			return err
		}

		if err := tx.InsertOutcome(ctx, domain.EventOutcome{
			EventID:         eventID,
			WinningDriverID: result.WinningDriverID,
		}); err != nil {
			return err
		}

		return tx.TransitionEvent(ctx, eventID, domain.EventLocked, domain.EventSettled)
	})
	if err != nil {
		return settlement.Result{}, err
	}

	if err := s.publ.PublishEventSettled(ctx, events.EventSettled{
		EventID:         eventID,
		WinningDriverID: result.WinningDriverID,
		PoolEur:         res.PoolEur,
		DistributedEur:  res.DistributedEur,
		WinningBets:     res.WinningBets,
	}); err != nil {
		s.log.Warn("publish event_settled", zap.Int64("eventId", eventID), zap.Error(err))
	}

	s.log.Info("event settled",
		zap.Int64("eventId", eventID),
		zap.Int64("winningDriverId", result.WinningDriverID),
		zap.Int64("poolEur", res.PoolEur),
		zap.Int64("distributedEur", res.DistributedEur),
		zap.Int("winningBets", res.WinningBets),
	)
	return res, nil
}

// GetBet retorna uma aposta pelo id.
func (s *Betting) GetBet(ctx context.Context, betID string) (domain.Bet, error) {
	return s.store.GetBet(ctx, betID)
}

// ListUserBets retorna as apostas de um usuário, mais recentes primeiro.
func (s *Betting) ListUserBets(ctx context.Context, userID int64) ([]domain.Bet, error) {
	return s.store.ListBetsByUser(ctx, userID)
}

// GetUser retorna o usuário com saldo atual.
func (s *Betting) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	return s.store.GetUser(ctx, userID)
}
