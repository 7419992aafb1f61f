package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bankroll/database"
	"bankroll/events"
	"bankroll/models"
	"bankroll/stats"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// sessionService implements the SessionService interface
type sessionService struct {
	uowFactory UnitOfWorkFactory
	clock      stats.Clock
}

// NewSessionService creates a new session service. The clock supplies the default session date.
func NewSessionService(uowFactory UnitOfWorkFactory, clock stats.Clock) SessionService {
	return &sessionService{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

// CreateSession opens a new active session
func (s *sessionService) CreateSession(ctx context.Context, date string, location string) (*models.Session, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	sessionDate := s.clock.Today()
	if strings.TrimSpace(date) != "" {
		parsed, err := models.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		sessionDate = parsed
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session := &models.Session{
		ID:       uuid.New(),
		Date:     sessionDate,
		Location: location,
		Status:   models.SessionStatusActive,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	uow.EventBus().Publish(sessionEvent(session, events.SessionActionCreated))

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": session.ID,
		"date":      session.Date,
		"location":  session.Location,
	}).Info("Session created")

	return session, nil
}

// AddPlayerToSession inserts a 0/0 row for the player
func (s *sessionService) AddPlayerToSession(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := activeSession(ctx, uow, sessionID); err != nil {
		return nil, err
	}

	player, err := uow.PlayerRepository().GetByID(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if player == nil {
		return nil, ErrPlayerNotFound
	}

	existing, err := uow.TransactionRepository().Get(ctx, sessionID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing transaction: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	tx := &models.Transaction{
		ID:        uuid.New(),
		SessionID: sessionID,
		PlayerID:  playerID,
		BuyIn:     decimal.Zero,
		CashOut:   decimal.Zero,
	}
	if err := uow.TransactionRepository().Create(ctx, tx); err != nil {
		if errors.Is(err, database.ErrUniqueViolation) {
			// lost a race with a concurrent add; the row exists either way
			uow.Rollback()
			return s.getTransaction(ctx, sessionID, playerID)
		}
		return nil, fmt.Errorf("failed to add player to session: %w", err)
	}

	uow.EventBus().Publish(events.TransactionChangedEvent{
		SessionID: sessionID,
		PlayerID:  playerID,
		Action:    events.TransactionActionAdded,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": sessionID,
		"playerID":  playerID,
		"player":    player.Name,
	}).Info("Player added to session")

	return tx, nil
}

// AddBuyIn adds a positive amount to a player's buy-in
func (s *sessionService) AddBuyIn(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: buy-in must be greater than zero", ErrInvalidAmount)
	}

	return s.updateTransaction(ctx, sessionID, playerID, events.TransactionActionBuyIn,
		func(repo TransactionRepository) (*models.Transaction, error) {
			return repo.AddBuyIn(ctx, sessionID, playerID, amount)
		})
}

// SetCashOut records a player's cash-out
func (s *sessionService) SetCashOut(ctx context.Context, sessionID, playerID uuid.UUID, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: cash-out must not be negative", ErrInvalidAmount)
	}

	return s.updateTransaction(ctx, sessionID, playerID, events.TransactionActionCashOut,
		func(repo TransactionRepository) (*models.Transaction, error) {
			return repo.SetCashOut(ctx, sessionID, playerID, amount)
		})
}

func (s *sessionService) updateTransaction(
	ctx context.Context,
	sessionID, playerID uuid.UUID,
	action events.TransactionAction,
	update func(repo TransactionRepository) (*models.Transaction, error),
) (*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := activeSession(ctx, uow, sessionID); err != nil {
		return nil, err
	}

	tx, err := update(uow.TransactionRepository())
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}

	uow.EventBus().Publish(events.TransactionChangedEvent{
		SessionID: sessionID,
		PlayerID:  playerID,
		Action:    action,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": sessionID,
		"playerID":  playerID,
		"action":    action,
		"buyIn":     tx.BuyIn.String(),
		"cashOut":   tx.CashOut.String(),
	}).Info("Transaction updated")

	return tx, nil
}

// RemovePlayerFromSession deletes a player's row
func (s *sessionService) RemovePlayerFromSession(ctx context.Context, sessionID, playerID uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := activeSession(ctx, uow, sessionID); err != nil {
		return err
	}

	deleted, err := uow.TransactionRepository().Delete(ctx, sessionID, playerID)
	if err != nil {
		return fmt.Errorf("failed to remove player from session: %w", err)
	}
	if !deleted {
		return ErrTransactionNotFound
	}

	uow.EventBus().Publish(events.TransactionChangedEvent{
		SessionID: sessionID,
		PlayerID:  playerID,
		Action:    events.TransactionActionRemoved,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateSessionLocation renames where an active session is held
func (s *sessionService) UpdateSessionLocation(ctx context.Context, sessionID uuid.UUID, location string) (*models.Session, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := activeSession(ctx, uow, sessionID)
	if err != nil {
		return nil, err
	}

	if err := uow.SessionRepository().UpdateLocation(ctx, sessionID, location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	session.Location = location

	uow.EventBus().Publish(sessionEvent(session, events.SessionActionUpdated))

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return session, nil
}

// CompleteSession closes a session whose buy-ins equal its cash-outs
func (s *sessionService) CompleteSession(ctx context.Context, sessionID uuid.UUID, durationHours *decimal.Decimal) (*models.Session, error) {
	if durationHours != nil && durationHours.IsNegative() {
		return nil, ErrInvalidDuration
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := activeSession(ctx, uow, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := uow.TransactionRepository().ListRowsBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session transactions: %w", err)
	}

	detail := stats.SessionDetail(session, rows)
	if !detail.Balanced {
		log.WithFields(log.Fields{
			"sessionID":     sessionID,
			"totalBuyIns":   detail.TotalBuyIns.String(),
			"totalCashOuts": detail.TotalCashOuts.String(),
		}).Warn("Refusing to complete unbalanced session")
		return nil, fmt.Errorf("%w (buy-ins %s, cash-outs %s)", ErrSessionUnbalanced,
			detail.TotalBuyIns.StringFixed(2), detail.TotalCashOuts.StringFixed(2))
	}

	if err := uow.SessionRepository().UpdateStatus(ctx, sessionID, models.SessionStatusCompleted, durationHours); err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}
	session.Status = models.SessionStatusCompleted
	session.DurationHours = durationHours

	uow.EventBus().Publish(sessionEvent(session, events.SessionActionCompleted))

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": sessionID,
		"players":   len(rows),
		"volume":    detail.TotalBuyIns.String(),
	}).Info("Session completed")

	return session, nil
}

// ReopenSession moves a completed session back to active. Reopening an active session is a no-op.
func (s *sessionService) ReopenSession(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := uow.SessionRepository().GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsCompleted() {
		return session, nil
	}

	if err := uow.SessionRepository().UpdateStatus(ctx, sessionID, models.SessionStatusActive, session.DurationHours); err != nil {
		return nil, fmt.Errorf("failed to reopen session: %w", err)
	}
	session.Status = models.SessionStatusActive

	uow.EventBus().Publish(sessionEvent(session, events.SessionActionReopened))

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("sessionID", sessionID).Info("Session reopened")
	return session, nil
}

// DeleteSession removes an active session and its rows
func (s *sessionService) DeleteSession(ctx context.Context, sessionID uuid.UUID) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	session, err := activeSession(ctx, uow, sessionID)
	if err != nil {
		return err
	}

	if err := uow.SessionRepository().Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	uow.EventBus().Publish(sessionEvent(session, events.SessionActionDeleted))

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithField("sessionID", sessionID).Info("Session deleted")
	return nil
}

func (s *sessionService) getTransaction(ctx context.Context, sessionID, playerID uuid.UUID) (*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.TransactionRepository().Get(ctx, sessionID, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if tx == nil {
		return nil, ErrTransactionNotFound
	}
	return tx, nil
}

// activeSession locks the session row and rejects completed sessions
func activeSession(ctx context.Context, uow UnitOfWork, sessionID uuid.UUID) (*models.Session, error) {
	session, err := uow.SessionRepository().GetByIDForUpdate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.IsCompleted() {
		return nil, ErrSessionCompleted
	}
	return session, nil
}

func sessionEvent(session *models.Session, action events.SessionAction) events.SessionChangedEvent {
	return events.SessionChangedEvent{
		SessionID: session.ID,
		Action:    action,
		Status:    session.Status,
		Date:      session.Date,
		Location:  session.Location,
	}
}
