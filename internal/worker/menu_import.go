package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fabianroy/Bistro-Boss-Server/internal/domain"
	"github.com/fabianroy/Bistro-Boss-Server/internal/queue"
	"go.uber.org/zap"
)

type Importer interface {
	Import(ctx context.Context, spreadsheetID string) (int, error)
}

type MenuImportWorker struct {
	importer Importer
	broker   queue.Broker
	logger   *zap.SugaredLogger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewMenuImportWorker(
	importer Importer,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *MenuImportWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &MenuImportWorker{
		importer: importer,
		broker:   broker,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (w *MenuImportWorker) Start() error {
	w.logger.Info("starting menu import worker")

	return w.broker.Subscribe(w.ctx, queue.QueueMenuImport, w.handleMessage)
}

func (w *MenuImportWorker) Stop() {
	w.logger.Info("stopping menu import worker")
	w.cancel()
}

func (w *MenuImportWorker) handleMessage(ctx context.Context, message []byte) error {
	var msg domain.MenuImportMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		w.logger.Errorw("failed to unmarshal message", "error", err)
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}

	if msg.SpreadsheetID == "" {
		return fmt.Errorf("menu import message without spreadsheet id")
	}

	w.logger.Infow("processing menu import", "spreadsheet_id", msg.SpreadsheetID, "requested_by", msg.RequestedBy)

	inserted, err := w.importer.Import(ctx, msg.SpreadsheetID)
	if err != nil {
		w.logger.Errorw("failed to import menu", "spreadsheet_id", msg.SpreadsheetID, "error", err)
		return err
	}

	w.logger.Infow("menu import finished", "spreadsheet_id", msg.SpreadsheetID, "inserted", inserted)

	return nil
}
