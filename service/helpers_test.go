package service

import (
	"time"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type testMocks struct {
	factory      *MockUnitOfWorkFactory
	uow          *MockUnitOfWork
	players      *MockPlayerRepository
	sessions     *MockSessionRepository
	transactions *MockTransactionRepository
	events       *MockEventPublisher
}

// newTestMocks wires a fresh unit of work whose getters return the mocked repositories
func newTestMocks() *testMocks {
	m := &testMocks{
		factory:      new(MockUnitOfWorkFactory),
		uow:          new(MockUnitOfWork),
		players:      new(MockPlayerRepository),
		sessions:     new(MockSessionRepository),
		transactions: new(MockTransactionRepository),
		events:       new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.players, m.sessions, m.transactions, m.events)
	return m
}

func testSession(status models.SessionStatus) *models.Session {
	return &models.Session{
		ID:        uuid.New(),
		Date:      "2024-01-08",
		Location:  "Home Game",
		Status:    status,
		CreatedAt: time.Date(2024, 1, 8, 20, 0, 0, 0, time.UTC),
	}
}

func testRow(sessionID uuid.UUID, name, buyIn, cashOut string) *models.TransactionRow {
	in := decimal.RequireFromString(buyIn)
	out := decimal.RequireFromString(cashOut)
	return &models.TransactionRow{
		Transaction: models.Transaction{
			ID:        uuid.New(),
			SessionID: sessionID,
			PlayerID:  uuid.New(),
			BuyIn:     in,
			CashOut:   out,
			NetProfit: out.Sub(in),
		},
		PlayerName: name,
	}
}
