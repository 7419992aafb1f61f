package stats

import (
	"testing"
	"time"

	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	sessionOne = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	sessionTwo = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	playerA    = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	playerB    = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	playerC    = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
)

func newSession(id uuid.UUID, date string, status models.SessionStatus) *models.Session {
	return &models.Session{
		ID:        id,
		Date:      models.Date(date),
		Location:  "Home Game",
		Status:    status,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newRow(sessionID, playerID uuid.UUID, name, buyIn, cashOut string) *models.TransactionRow {
	in := models.ParseMoney(buyIn)
	out := models.ParseMoney(cashOut)
	return &models.TransactionRow{
		Transaction: models.Transaction{
			ID:        uuid.New(),
			SessionID: sessionID,
			PlayerID:  playerID,
			BuyIn:     in,
			CashOut:   out,
			NetProfit: out.Sub(in),
		},
		PlayerName: name,
	}
}

// exampleData is the two-session, two-player scenario used across tests:
// A wins 50 in S1 and breaks even in S2; B sits out S1 with a 0/0 row and loses 20 in S2.
func exampleData() ([]*models.Session, []*models.TransactionRow) {
	sessions := []*models.Session{
		newSession(sessionOne, "2024-01-01", models.SessionStatusCompleted),
		newSession(sessionTwo, "2024-01-08", models.SessionStatusCompleted),
	}
	rows := []*models.TransactionRow{
		newRow(sessionOne, playerA, "Alice", "100", "150"),
		newRow(sessionOne, playerB, "Bob", "0", "0"),
		newRow(sessionTwo, playerA, "Alice", "50", "50"),
		newRow(sessionTwo, playerB, "Bob", "100", "80"),
	}
	return sessions, rows
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	want := decimal.RequireFromString(expected)
	assert.Truef(t, want.Equal(actual), "expected %s, got %s", want, actual)
}

func entryFor(entries []*models.LeaderboardEntry, id uuid.UUID) *models.LeaderboardEntry {
	for _, e := range entries {
		if e.PlayerID == id {
			return e
		}
	}
	return nil
}
