package repository

import (
	"context"
	"errors"
	"fmt"

	"bankroll/database"
	"bankroll/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements the TransactionRepository interface
type TransactionRepository struct {
	q queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepositoryWithTx creates a new transaction repository with a transaction
func newTransactionRepositoryWithTx(tx queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `
	id,
	session_id,
	player_id,
	buy_in_amount::text,
	cash_out_amount::text,
	net_profit::text,
	created_at
`

// Get retrieves the row for a player in a session
func (r *TransactionRepository) Get(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE session_id = $1 AND player_id = $2`

	tx, err := scanTransaction(r.q.QueryRow(ctx, query, sessionID, playerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction for player %s in session %s: %w", playerID, sessionID, err)
	}
	return tx, nil
}

// Create inserts a new row
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	query := `
		INSERT INTO transactions (id, session_id, player_id, buy_in_amount, cash_out_amount)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		RETURNING net_profit::text, created_at
	`

	var net string
	err := r.q.QueryRow(ctx, query,
		tx.ID, tx.SessionID, tx.PlayerID, tx.BuyIn.String(), tx.CashOut.String(),
	).Scan(&net, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", database.MapError(err))
	}
	tx.NetProfit = models.ParseMoney(net)
	return nil
}

// AddBuyIn adds amount to the existing buy-in
func (r *TransactionRepository) AddBuyIn(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET buy_in_amount = buy_in_amount + $3::numeric
		WHERE session_id = $1 AND player_id = $2
		RETURNING ` + transactionColumns

	tx, err := scanTransaction(r.q.QueryRow(ctx, query, sessionID, playerID, amount.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add buy-in: %w", err)
	}
	return tx, nil
}

// SetCashOut replaces the cash-out amount
func (r *TransactionRepository) SetCashOut(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET cash_out_amount = $3::numeric
		WHERE session_id = $1 AND player_id = $2
		RETURNING ` + transactionColumns

	tx, err := scanTransaction(r.q.QueryRow(ctx, query, sessionID, playerID, amount.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set cash-out: %w", err)
	}
	return tx, nil
}

// Delete removes a player's row from a session
func (r *TransactionRepository) Delete(ctx context.Context, sessionID, playerID uuid.UUID) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE session_id = $1 AND player_id = $2`, sessionID, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Upsert inserts a row or overwrites both amounts of an existing pair
func (r *TransactionRepository) Upsert(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}

	query := `
		INSERT INTO transactions (id, session_id, player_id, buy_in_amount, cash_out_amount)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		ON CONFLICT (session_id, player_id) DO UPDATE
		SET buy_in_amount = EXCLUDED.buy_in_amount,
			cash_out_amount = EXCLUDED.cash_out_amount
		RETURNING id, net_profit::text, created_at
	`

	var net string
	err := r.q.QueryRow(ctx, query,
		tx.ID, tx.SessionID, tx.PlayerID, tx.BuyIn.String(), tx.CashOut.String(),
	).Scan(&tx.ID, &net, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", database.MapError(err))
	}
	tx.NetProfit = models.ParseMoney(net)
	return nil
}

const rowSelect = `
	SELECT
		t.id,
		t.session_id,
		t.player_id,
		t.buy_in_amount::text,
		t.cash_out_amount::text,
		t.net_profit::text,
		p.name,
		p.nickname,
		t.created_at
	FROM transactions t
	LEFT JOIN players p ON p.id = t.player_id
`

// ListRows returns every row joined with its player
func (r *TransactionRepository) ListRows(ctx context.Context) ([]*models.TransactionRow, error) {
	return r.listRows(ctx, rowSelect+` ORDER BY t.created_at ASC, t.id ASC`)
}

// ListRowsBySession returns a session's rows joined with their players
func (r *TransactionRepository) ListRowsBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.TransactionRow, error) {
	return r.listRows(ctx, rowSelect+` WHERE t.session_id = $1 ORDER BY t.created_at ASC, t.id ASC`, sessionID)
}

func (r *TransactionRepository) listRows(ctx context.Context, query string, args ...any) ([]*models.TransactionRow, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	result := make([]*models.TransactionRow, 0)
	for rows.Next() {
		var raw models.RawTransaction
		err := rows.Scan(
			&raw.ID,
			&raw.SessionID,
			&raw.PlayerID,
			&raw.BuyIn,
			&raw.CashOut,
			&raw.NetProfit,
			&raw.PlayerName,
			&raw.PlayerNickname,
			&raw.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, models.NewTransactionRow(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return result, nil
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var (
		tx                  models.Transaction
		buyIn, cashOut, net *string
	)
	if err := row.Scan(&tx.ID, &tx.SessionID, &tx.PlayerID, &buyIn, &cashOut, &net, &tx.CreatedAt); err != nil {
		return nil, err
	}
	tx.BuyIn = models.ParseMoneyPtr(buyIn)
	tx.CashOut = models.ParseMoneyPtr(cashOut)
	tx.NetProfit = models.ParseMoneyPtr(net)
	return &tx, nil
}
