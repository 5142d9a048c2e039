package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"github.com/fabianroy/Bistro-Boss-Server/internal/repo"
	"go.uber.org/zap"
)

// MenuSource reads menu items from an external spreadsheet.
type MenuSource interface {
	ParseMenu(ctx context.Context, spreadsheetID string) ([]domain.MenuItem, error)
}

type MenuImportService struct {
	menuRepo repo.MenuRepository
	source   MenuSource
	broker   queue.Broker
	logger   *zap.SugaredLogger
}

// NewMenuImportService accepts a nil source when no credentials are
// configured and a nil broker when imports should run inline.
func NewMenuImportService(
	menuRepo repo.MenuRepository,
	source MenuSource,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *MenuImportService {
	return &MenuImportService{
		menuRepo: menuRepo,
		source:   source,
		broker:   broker,
		logger:   logger,
	}
}

func (s *MenuImportService) Available() bool {
	return s.source != nil
}

// Enqueue hands the import to the worker when a broker is configured.
// Otherwise it imports inline. queued reports which path was taken.
func (s *MenuImportService) Enqueue(ctx context.Context, spreadsheetID, requestedBy string) (queued bool, inserted int, err error) {
	if !s.Available() {
		return false, 0, ErrImportUnavailable
	}
	if spreadsheetID == "" {
		return false, 0, fmt.Errorf("%w: spreadsheet_id is required", ErrValidation)
	}

	if s.broker == nil {
		inserted, err := s.Import(ctx, spreadsheetID)
		return false, inserted, err
	}

	msg, err := json.Marshal(domain.MenuImportMessage{
		SpreadsheetID: spreadsheetID,
		RequestedBy:   requestedBy,
	})
	if err != nil {
		return false, 0, fmt.Errorf("failed to marshal import message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueMenuImport, msg); err != nil {
		return false, 0, fmt.Errorf("failed to publish import message: %w", err)
	}

	s.logger.Infow("menu import queued", "spreadsheet_id", spreadsheetID, "requested_by", requestedBy)

	return true, 0, nil
}

func (s *MenuImportService) Import(ctx context.Context, spreadsheetID string) (int, error) {
	if !s.Available() {
		return 0, ErrImportUnavailable
	}

	items, err := s.source.ParseMenu(ctx, spreadsheetID)
	if err != nil {
		s.logger.Errorw("failed to parse menu", "spreadsheet_id", spreadsheetID, "error", err)
		return 0, fmt.Errorf("failed to parse menu: %w", err)
	}

	if len(items) == 0 {
		s.logger.Warnw("spreadsheet contained no menu items", "spreadsheet_id", spreadsheetID)
		return 0, nil
	}

	inserted, err := s.menuRepo.CreateMany(ctx, items)
	if err != nil {
		return 0, fmt.Errorf("failed to save imported menu: %w", err)
	}

	s.logger.Infow("menu imported", "spreadsheet_id", spreadsheetID, "items", inserted)

	return inserted, nil
}
