package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/radieske/f1-betting-poc/internal/betting/domain"
)

// Store implementa a persistência do core de apostas em Postgres.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Tx agrupa as operações disponíveis dentro de uma transação do core.
// Todas as mutações de placeBet/settleEvent passam por aqui.
type Tx interface {
	InsertEventIfAbsent(ctx context.Context, ev domain.Event) error
	GetEvent(ctx context.Context, eventID int64) (domain.Event, error)
	TransitionEvent(ctx context.Context, eventID int64, from, to domain.EventStatus) error

	DebitUser(ctx context.Context, userID, amountEur int64) error
	CreditUser(ctx context.Context, userID, amountEur int64) error

	InsertBet(ctx context.Context, b *domain.Bet) error
	ListBetsByEvent(ctx context.Context, eventID int64) ([]domain.Bet, error)
	UpdateBetStatuses(ctx context.Context, bets []domain.Bet) error

	InsertOutcome(ctx context.Context, o domain.EventOutcome) error
}

// WithTx executa fn dentro de uma transação: ou tudo comita, ou nada.
func (s *Store) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type sqlTx struct{ tx *sql.Tx }

// InsertEventIfAbsent insere o evento como OPEN se ainda não existir.
// Chamadas concorrentes para o mesmo eventId criam no máximo uma linha;
// metadata de chamadas posteriores é ignorada.
func (t *sqlTx) InsertEventIfAbsent(ctx context.Context, ev domain.Event) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO historical_events (event_id, event_name, country, year, status)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (event_id) DO NOTHING`,
		ev.EventID, ev.EventName, ev.Country, ev.Year, domain.EventOpen,
	)
	return err
}

func (t *sqlTx) GetEvent(ctx context.Context, eventID int64) (domain.Event, error) {
	var ev domain.Event
	err := t.tx.QueryRowContext(ctx, `
		SELECT event_id, event_name, country, year, status
		FROM historical_events WHERE event_id=$1`, eventID).
		Scan(&ev.EventID, &ev.EventName, &ev.Country, &ev.Year, &ev.Status)
	if err == sql.ErrNoRows {
		return domain.Event{}, fmt.Errorf("%w: event %d", domain.ErrNotFound, eventID)
	}
	if err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}

// TransitionEvent avança o status somente se o estado atual for o esperado.
// É o único mutador de status; duas liquidações concorrentes nunca passam
// as duas pelo mesmo OPEN->LOCKED.
func (t *sqlTx) TransitionEvent(ctx context.Context, eventID int64, from, to domain.EventStatus) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE historical_events SET status=$3, updated_at=now()
		WHERE event_id=$1 AND status=$2`,
		eventID, from, to,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Nenhuma linha mudou: evento não existe ou está em outro estado
	var cur domain.EventStatus
	err = t.tx.QueryRowContext(ctx, `SELECT status FROM historical_events WHERE event_id=$1`, eventID).Scan(&cur)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: event %d", domain.ErrNotFound, eventID)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: event %d is %s, expected %s", domain.ErrConflict, eventID, cur, from)
}

// DebitUser debita o saldo com um único UPDATE condicional (compare-and-set).
// Nunca lê e escreve em dois passos: é isso que garante exatamente um débito
// vencedor entre apostas concorrentes sem saldo pra ambas.
func (t *sqlTx) DebitUser(ctx context.Context, userID, amountEur int64) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE users SET balance_eur = balance_eur - $1, updated_at = now()
		WHERE id = $2 AND balance_eur >= $1`,
		amountEur, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := t.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id=$1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	return domain.ErrInsufficientFunds
}

func (t *sqlTx) CreditUser(ctx context.Context, userID, amountEur int64) error {
	if amountEur == 0 {
		return nil
	}
	res, err := t.tx.ExecContext(ctx, `
		UPDATE users SET balance_eur = balance_eur + $1, updated_at = now()
		WHERE id = $2`,
		amountEur, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	return nil
}

// InsertBet insere a aposta como PENDING com odds congeladas.
func (t *sqlTx) InsertBet(ctx context.Context, b *domain.Bet) error {
	b.ID = uuid.NewString()
	b.Status = domain.BetPending
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO bets (id, user_id, event_id, driver_id, driver_name, amount_eur, odds, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		b.ID, b.UserID, b.EventID, b.DriverID, b.DriverName, b.AmountEur, b.Odds, b.Status,
	)
	return err
}

func (t *sqlTx) ListBetsByEvent(ctx context.Context, eventID int64) ([]domain.Bet, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, user_id, event_id, driver_id, driver_name, amount_eur, odds, status
		FROM bets WHERE event_id=$1`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBets(rows)
}

// UpdateBetStatuses persiste em lote os status produzidos pela liquidação.
func (t *sqlTx) UpdateBetStatuses(ctx context.Context, bets []domain.Bet) error {
	for _, b := range bets {
		if _, err := t.tx.ExecContext(ctx, `UPDATE bets SET status=$1 WHERE id=$2`, b.Status, b.ID); err != nil {
			return err
		}
	}
	return nil
}

func (t *sqlTx) InsertOutcome(ctx context.Context, o domain.EventOutcome) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO event_outcomes (event_id, winning_driver_id, settled_at)
		VALUES ($1,$2,now())`,
		o.EventID, o.WinningDriverID,
	)
	return err
}

// --- leituras fora de transação (API de consulta) ---

func (s *Store) GetBet(ctx context.Context, betID string) (domain.Bet, error) {
	var b domain.Bet
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, event_id, driver_id, driver_name, amount_eur, odds, status
		FROM bets WHERE id=$1`, betID).
		Scan(&b.ID, &b.UserID, &b.EventID, &b.DriverID, &b.DriverName, &b.AmountEur, &b.Odds, &b.Status)
	if err == sql.ErrNoRows {
		return domain.Bet{}, fmt.Errorf("%w: bet %s", domain.ErrNotFound, betID)
	}
	if err != nil {
		return domain.Bet{}, err
	}
	return b, nil
}

func (s *Store) ListBetsByUser(ctx context.Context, userID int64) ([]domain.Bet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, event_id, driver_id, driver_name, amount_eur, odds, status
		FROM bets WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBets(rows)
}

func (s *Store) GetUser(ctx context.Context, userID int64) (domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, balance_eur FROM users WHERE id=$1`, userID).
		Scan(&u.ID, &u.Username, &u.BalanceEur)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func scanBets(rows *sql.Rows) ([]domain.Bet, error) {
	var out []domain.Bet
	for rows.Next() {
		var b domain.Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.EventID, &b.DriverID, &b.DriverName, &b.AmountEur, &b.Odds, &b.Status); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
