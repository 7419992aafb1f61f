package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"bankroll/events"
	"bankroll/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// CSV columns understood by the importer
const (
	columnDate     = "date"
	columnLocation = "location"
	columnPlayer   = "player"
	columnNickname = "nickname"
	columnBuyIn    = "buy_in"
	columnCashOut  = "cash_out"
)

// importService implements the ImportService interface
type importService struct {
	uowFactory UnitOfWorkFactory
}

// NewImportService creates a new import service
func NewImportService(uowFactory UnitOfWorkFactory) ImportService {
	return &importService{
		uowFactory: uowFactory,
	}
}

type importRow struct {
	line     int
	date     models.Date
	location string
	player   string
	nickname string
	buyIn    decimal.Decimal
	cashOut  decimal.Decimal
}

// ImportCSV backfills historical sessions. Players are matched by name and sessions by
// date and location; imported sessions are created completed. Each player/session pair
// is upserted, so re-running a file is safe.
func (s *importService) ImportCSV(ctx context.Context, source string, r io.Reader) (*ImportResult, error) {
	logger := log.WithField("source", source)

	rows, skipped, err := parseImportCSV(r, logger)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Rows: len(rows) + skipped, Skipped: skipped}
	if len(rows) == 0 {
		logger.Warn("No importable rows found")
		return result, nil
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	players := make(map[string]*models.Player)
	sessions := make(map[string]*models.Session)

	for _, row := range rows {
		player, err := s.resolvePlayer(ctx, uow, players, row, result)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.line, err)
		}

		session, err := s.resolveSession(ctx, uow, sessions, row, result)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.line, err)
		}

		tx := &models.Transaction{
			ID:        uuid.New(),
			SessionID: session.ID,
			PlayerID:  player.ID,
			BuyIn:     row.buyIn,
			CashOut:   row.cashOut,
		}
		if err := uow.TransactionRepository().Upsert(ctx, tx); err != nil {
			return nil, fmt.Errorf("line %d: failed to upsert transaction: %w", row.line, err)
		}
		result.Transactions++

		uow.EventBus().Publish(events.TransactionChangedEvent{
			SessionID: session.ID,
			PlayerID:  player.ID,
			Action:    events.TransactionActionImported,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.WithFields(log.Fields{
		"rows":            result.Rows,
		"skipped":         result.Skipped,
		"playersCreated":  result.PlayersCreated,
		"sessionsCreated": result.SessionsCreated,
		"transactions":    result.Transactions,
	}).Info("Import complete")

	return result, nil
}

func (s *importService) resolvePlayer(ctx context.Context, uow UnitOfWork, cache map[string]*models.Player, row importRow, result *ImportResult) (*models.Player, error) {
	if player, ok := cache[row.player]; ok {
		return player, nil
	}

	player, err := uow.PlayerRepository().GetByName(ctx, row.player)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player %q: %w", row.player, err)
	}
	if player == nil {
		player, err = createPlayer(ctx, uow, row.player, row.nickname)
		if err != nil {
			return nil, err
		}
		result.PlayersCreated++
	}

	cache[row.player] = player
	return player, nil
}

func (s *importService) resolveSession(ctx context.Context, uow UnitOfWork, cache map[string]*models.Session, row importRow, result *ImportResult) (*models.Session, error) {
	key := row.date.String() + "|" + row.location
	if session, ok := cache[key]; ok {
		return session, nil
	}

	session, err := uow.SessionRepository().FindByDateAndLocation(ctx, row.date, row.location)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		session = &models.Session{
			ID:       uuid.New(),
			Date:     row.date,
			Location: row.location,
			Status:   models.SessionStatusCompleted,
		}
		if err := uow.SessionRepository().Create(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		result.SessionsCreated++

		uow.EventBus().Publish(sessionEvent(session, events.SessionActionCreated))
	}

	cache[key] = session
	return session, nil
}

// parseImportCSV reads the header-led CSV. Rows missing date, location or player are
// skipped with a warning; malformed dates or amounts fail the whole file.
func parseImportCSV(r io.Reader, logger *log.Entry) ([]importRow, int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: failed to read header: %v", ErrInvalidImport, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{columnDate, columnLocation, columnPlayer} {
		if _, ok := columns[required]; !ok {
			return nil, 0, fmt.Errorf("%w: missing %q column", ErrInvalidImport, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]importRow, 0)
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, 0, fmt.Errorf("%w: line %d: %v", ErrInvalidImport, parseErr.StartLine, parseErr.Err)
			}
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		// Physical line where the record starts; quoted fields may span lines.
		line, _ := reader.FieldPos(0)

		row := importRow{
			line:     line,
			location: field(record, columnLocation),
			player:   field(record, columnPlayer),
			nickname: field(record, columnNickname),
		}
		rawDate := field(record, columnDate)

		if rawDate == "" && row.location == "" && row.player == "" {
			continue
		}
		if rawDate == "" || row.location == "" || row.player == "" {
			logger.WithField("line", line).Warn("Skipping row with missing date/location/player")
			skipped++
			continue
		}

		row.date, err = models.ParseDate(rawDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: %v", ErrInvalidImport, line, err)
		}
		if row.buyIn, err = parseImportAmount(field(record, columnBuyIn)); err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: buy_in: %v", ErrInvalidImport, line, err)
		}
		if row.cashOut, err = parseImportAmount(field(record, columnCashOut)); err != nil {
			return nil, 0, fmt.Errorf("%w: line %d: cash_out: %v", ErrInvalidImport, line, err)
		}

		rows = append(rows, row)
	}

	return rows, skipped, nil
}

func parseImportAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.ReplaceAll(s, ",", ""), "$")
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount %q", s)
	}
	return d, nil
}
