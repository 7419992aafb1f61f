package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one player's buy-in/cash-out record for one session.
// NetProfit is maintained by the database as cash_out - buy_in.
type Transaction struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	SessionID uuid.UUID       `db:"session_id" json:"sessionId"`
	PlayerID  uuid.UUID       `db:"player_id" json:"playerId"`
	BuyIn     decimal.Decimal `db:"buy_in_amount" json:"buyIn"`
	CashOut   decimal.Decimal `db:"cash_out_amount" json:"cashOut"`
	NetProfit decimal.Decimal `db:"net_profit" json:"netProfit"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
}

// HasVolume reports whether any money moved for this row
func (t *Transaction) HasVolume() bool {
	return !t.BuyIn.IsZero() || !t.CashOut.IsZero()
}

// TransactionRow is a transaction joined with its player's details
type TransactionRow struct {
	Transaction
	PlayerName     string  `json:"playerName"`
	PlayerNickname *string `json:"playerNickname,omitempty"`
}

// RawTransaction carries the untyped column values of a joined transaction row
type RawTransaction struct {
	ID             uuid.UUID
	SessionID      uuid.UUID
	PlayerID       uuid.UUID
	BuyIn          *string
	CashOut        *string
	NetProfit      *string
	PlayerName     *string
	PlayerNickname *string
	CreatedAt      time.Time
}

// NewTransactionRow builds a typed row, coercing absent or malformed amounts to zero
func NewTransactionRow(raw RawTransaction) *TransactionRow {
	row := &TransactionRow{
		Transaction: Transaction{
			ID:        raw.ID,
			SessionID: raw.SessionID,
			PlayerID:  raw.PlayerID,
			BuyIn:     ParseMoneyPtr(raw.BuyIn),
			CashOut:   ParseMoneyPtr(raw.CashOut),
			NetProfit: ParseMoneyPtr(raw.NetProfit),
			CreatedAt: raw.CreatedAt,
		},
		PlayerNickname: raw.PlayerNickname,
	}
	if raw.PlayerName != nil {
		row.PlayerName = *raw.PlayerName
	}
	return row
}
