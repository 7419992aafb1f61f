package service

import (
	"context"
	"errors"
	"testing"

	"bankroll/database"
	"bankroll/events"
	"bankroll/models"
	"bankroll/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSessionService_CreateSession_DefaultsToToday(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)

	m.sessions.On("Create", ctx, mock.MatchedBy(func(s *models.Session) bool {
		return s.Date == "2024-03-10" && s.Location == "Home Game" && s.Status == models.SessionStatusActive
	})).Return(nil)
	m.events.On("Publish", mock.MatchedBy(func(e events.SessionChangedEvent) bool {
		return e.Action == events.SessionActionCreated
	})).Return()

	session, err := svc.CreateSession(ctx, "", "  Home Game ")

	require.NoError(t, err)
	assert.Equal(t, models.Date("2024-03-10"), session.Date)
	assert.NotEqual(t, uuid.Nil, session.ID)

	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
	m.events.AssertExpectations(t)
}

func TestSessionService_CreateSession_Validation(t *testing.T) {
	ctx := context.Background()
	m := newTestMocks()
	svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

	_, err := svc.CreateSession(ctx, "2024-01-01", "   ")
	assert.ErrorIs(t, err, ErrLocationRequired)

	_, err = svc.CreateSession(ctx, "01/08/2024", "Home Game")
	assert.ErrorIs(t, err, ErrInvalidDate)

	m.factory.AssertNotCalled(t, "Create")
}

func TestSessionService_AddBuyIn(t *testing.T) {
	ctx := context.Background()
	active := testSession(models.SessionStatusActive)
	playerID := uuid.New()
	amount := decimal.NewFromInt(50)

	t.Run("success publishes event", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		updated := &models.Transaction{SessionID: active.ID, PlayerID: playerID, BuyIn: amount}
		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.transactions.On("AddBuyIn", ctx, active.ID, playerID, amount).Return(updated, nil)
		m.events.On("Publish", events.TransactionChangedEvent{
			SessionID: active.ID,
			PlayerID:  playerID,
			Action:    events.TransactionActionBuyIn,
		}).Return()

		tx, err := svc.AddBuyIn(ctx, active.ID, playerID, amount)

		require.NoError(t, err)
		assert.Equal(t, updated, tx)
		m.uow.AssertExpectations(t)
		m.events.AssertExpectations(t)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		_, err := svc.AddBuyIn(ctx, active.ID, playerID, decimal.Zero)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = svc.AddBuyIn(ctx, active.ID, playerID, decimal.NewFromInt(-5))
		assert.ErrorIs(t, err, ErrInvalidAmount)

		m.factory.AssertNotCalled(t, "Create")
	})

	t.Run("completed session is rejected", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		completed := testSession(models.SessionStatusCompleted)

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, completed.ID).Return(completed, nil)

		_, err := svc.AddBuyIn(ctx, completed.ID, playerID, amount)

		assert.ErrorIs(t, err, ErrSessionCompleted)
		assert.Equal(t, "session is completed and can no longer be modified", err.Error())
		m.transactions.AssertNotCalled(t, "AddBuyIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.uow.AssertNotCalled(t, "Commit")
		m.events.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("missing session", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		missing := uuid.New()

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, missing).Return(nil, nil)

		_, err := svc.AddBuyIn(ctx, missing, playerID, amount)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("player not in session", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.transactions.On("AddBuyIn", ctx, active.ID, playerID, amount).Return(nil, nil)

		_, err := svc.AddBuyIn(ctx, active.ID, playerID, amount)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		m.uow.AssertNotCalled(t, "Commit")
	})
}

func TestSessionService_SetCashOut(t *testing.T) {
	ctx := context.Background()
	active := testSession(models.SessionStatusActive)
	playerID := uuid.New()

	t.Run("negative amount", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		_, err := svc.SetCashOut(ctx, active.ID, playerID, decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("zero is allowed", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		updated := &models.Transaction{SessionID: active.ID, PlayerID: playerID}
		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.transactions.On("SetCashOut", ctx, active.ID, playerID, decimal.Zero).Return(updated, nil)
		m.events.On("Publish", mock.Anything).Return()

		tx, err := svc.SetCashOut(ctx, active.ID, playerID, decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, updated, tx)
	})
}

func TestSessionService_AddPlayerToSession(t *testing.T) {
	ctx := context.Background()
	active := testSession(models.SessionStatusActive)
	player := &models.Player{ID: uuid.New(), Name: "Alice"}

	t.Run("creates a zero row", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.players.On("GetByID", ctx, player.ID).Return(player, nil)
		m.transactions.On("Get", ctx, active.ID, player.ID).Return(nil, nil)
		m.transactions.On("Create", ctx, mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.BuyIn.IsZero() && tx.CashOut.IsZero() && tx.PlayerID == player.ID
		})).Return(nil)
		m.events.On("Publish", mock.MatchedBy(func(e events.TransactionChangedEvent) bool {
			return e.Action == events.TransactionActionAdded
		})).Return()

		tx, err := svc.AddPlayerToSession(ctx, active.ID, player.ID)
		require.NoError(t, err)
		assert.Equal(t, active.ID, tx.SessionID)
		m.transactions.AssertExpectations(t)
	})

	t.Run("existing row is not an error", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		existing := &models.Transaction{SessionID: active.ID, PlayerID: player.ID, BuyIn: decimal.NewFromInt(20)}
		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.players.On("GetByID", ctx, player.ID).Return(player, nil)
		m.transactions.On("Get", ctx, active.ID, player.ID).Return(existing, nil)

		tx, err := svc.AddPlayerToSession(ctx, active.ID, player.ID)
		require.NoError(t, err)
		assert.Equal(t, existing, tx)
		m.transactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		m.events.AssertNotCalled(t, "Publish", mock.Anything)
	})

	t.Run("concurrent insert falls back to the stored row", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		stored := &models.Transaction{SessionID: active.ID, PlayerID: player.ID}
		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.players.On("GetByID", ctx, player.ID).Return(player, nil)
		m.transactions.On("Get", ctx, active.ID, player.ID).Return(nil, nil).Once()
		m.transactions.On("Create", ctx, mock.Anything).Return(errors.Join(database.ErrUniqueViolation, errors.New("23505")))
		m.transactions.On("Get", ctx, active.ID, player.ID).Return(stored, nil).Once()

		tx, err := svc.AddPlayerToSession(ctx, active.ID, player.ID)
		require.NoError(t, err)
		assert.Equal(t, stored, tx)
		m.uow.AssertNotCalled(t, "Commit")
	})

	t.Run("unknown player", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.players.On("GetByID", ctx, player.ID).Return(nil, nil)

		_, err := svc.AddPlayerToSession(ctx, active.ID, player.ID)
		assert.ErrorIs(t, err, ErrPlayerNotFound)
	})
}

func TestSessionService_CompleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("unbalanced totals are rejected", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		active := testSession(models.SessionStatusActive)

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.transactions.On("ListRowsBySession", ctx, active.ID).Return([]*models.TransactionRow{
			testRow(active.ID, "Alice", "100", "150"),
			testRow(active.ID, "Bob", "100", "40"),
		}, nil)

		_, err := svc.CompleteSession(ctx, active.ID, nil)

		assert.ErrorIs(t, err, ErrSessionUnbalanced)
		assert.Contains(t, err.Error(), "buy-ins 200.00, cash-outs 190.00")
		m.sessions.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		m.uow.AssertNotCalled(t, "Commit")
	})

	t.Run("balanced session completes with duration", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		active := testSession(models.SessionStatusActive)
		duration := decimal.RequireFromString("4.5")

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.transactions.On("ListRowsBySession", ctx, active.ID).Return([]*models.TransactionRow{
			testRow(active.ID, "Alice", "100", "150"),
			testRow(active.ID, "Bob", "100", "50"),
		}, nil)
		m.sessions.On("UpdateStatus", ctx, active.ID, models.SessionStatusCompleted, &duration).Return(nil)
		m.events.On("Publish", mock.MatchedBy(func(e events.SessionChangedEvent) bool {
			return e.Action == events.SessionActionCompleted && e.Status == models.SessionStatusCompleted
		})).Return()

		session, err := svc.CompleteSession(ctx, active.ID, &duration)

		require.NoError(t, err)
		assert.True(t, session.IsCompleted())
		require.NotNil(t, session.DurationHours)
		m.sessions.AssertExpectations(t)
		m.events.AssertExpectations(t)
	})

	t.Run("empty session balances trivially", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		active := testSession(models.SessionStatusActive)

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.transactions.On("ListRowsBySession", ctx, active.ID).Return([]*models.TransactionRow{}, nil)
		m.sessions.On("UpdateStatus", ctx, active.ID, models.SessionStatusCompleted, (*decimal.Decimal)(nil)).Return(nil)
		m.events.On("Publish", mock.Anything).Return()

		_, err := svc.CompleteSession(ctx, active.ID, nil)
		require.NoError(t, err)
	})

	t.Run("negative duration", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		negative := decimal.NewFromInt(-2)

		_, err := svc.CompleteSession(ctx, uuid.New(), &negative)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	})
}

func TestSessionService_ReopenSession(t *testing.T) {
	ctx := context.Background()

	t.Run("completed goes back to active", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		completed := testSession(models.SessionStatusCompleted)

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, completed.ID).Return(completed, nil)
		m.sessions.On("UpdateStatus", ctx, completed.ID, models.SessionStatusActive, (*decimal.Decimal)(nil)).Return(nil)
		m.events.On("Publish", mock.MatchedBy(func(e events.SessionChangedEvent) bool {
			return e.Action == events.SessionActionReopened
		})).Return()

		session, err := svc.ReopenSession(ctx, completed.ID)
		require.NoError(t, err)
		assert.False(t, session.IsCompleted())
	})

	t.Run("not found", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		missing := uuid.New()

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, missing).Return(nil, nil)

		_, err := svc.ReopenSession(ctx, missing)
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionService_DeleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("completed session cannot be deleted", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		completed := testSession(models.SessionStatusCompleted)

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, completed.ID).Return(completed, nil)

		err := svc.DeleteSession(ctx, completed.ID)
		assert.ErrorIs(t, err, ErrSessionCompleted)
		m.sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("active session is deleted", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))
		active := testSession(models.SessionStatusActive)

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.sessions.On("GetByIDForUpdate", ctx, active.ID).Return(active, nil)
		m.sessions.On("Delete", ctx, active.ID).Return(nil)
		m.events.On("Publish", mock.Anything).Return()

		require.NoError(t, svc.DeleteSession(ctx, active.ID))
		m.sessions.AssertExpectations(t)
	})

	t.Run("begin failure", func(t *testing.T) {
		m := newTestMocks()
		svc := NewSessionService(m.factory, stats.FixedClock("2024-03-10"))

		m.factory.On("Create").Return(m.uow)
		m.uow.On("Begin", ctx).Return(errors.New("connection refused"))

		err := svc.DeleteSession(ctx, uuid.New())
		assert.ErrorContains(t, err, "failed to begin transaction")
	})
}
