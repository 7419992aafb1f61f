package testutil

import (
	"time"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestPlayer creates a test player with default values
func CreateTestPlayer(name string) *models.Player {
	return &models.Player{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// CreateTestPlayerWithNickname creates a test player with a nickname
func CreateTestPlayerWithNickname(name, nickname string) *models.Player {
	player := CreateTestPlayer(name)
	player.Nickname = &nickname
	return player
}

// CreateTestSession creates an active test session on the given date
func CreateTestSession(date string) *models.Session {
	return &models.Session{
		ID:        uuid.New(),
		Date:      models.Date(date),
		Location:  "Home Game",
		Status:    models.SessionStatusActive,
		CreatedAt: time.Now(),
	}
}

// CreateTestCompletedSession creates a completed test session
func CreateTestCompletedSession(date string) *models.Session {
	session := CreateTestSession(date)
	session.Status = models.SessionStatusCompleted
	return session
}

// CreateTestTransaction creates a row with the given amounts
func CreateTestTransaction(sessionID, playerID uuid.UUID, buyIn, cashOut string) *models.Transaction {
	in := decimal.RequireFromString(buyIn)
	out := decimal.RequireFromString(cashOut)
	return &models.Transaction{
		ID:        uuid.New(),
		SessionID: sessionID,
		PlayerID:  playerID,
		BuyIn:     in,
		CashOut:   out,
		NetProfit: out.Sub(in),
		CreatedAt: time.Now(),
	}
}

// CreateTestTransactionRow joins a transaction with a player name
func CreateTestTransactionRow(sessionID, playerID uuid.UUID, name, buyIn, cashOut string) *models.TransactionRow {
	return &models.TransactionRow{
		Transaction: *CreateTestTransaction(sessionID, playerID, buyIn, cashOut),
		PlayerName:  name,
	}
}
