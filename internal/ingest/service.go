package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"budgetai/internal/core"
	"budgetai/internal/log"
)

// Store is the subset of the repository the ingestion path needs.
type Store interface {
	BulkInsert(ctx context.Context, txns []core.Transaction) error
}

// EventPublisher announces completed batches to downstream consumers.
type EventPublisher interface {
	PublishBatchIngested(ctx context.Context, userID string, count int) error
}

// Result summarises one processed upload.
type Result struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// Service runs the upload pipeline: parse, validate, bulk-persist, announce.
type Service struct {
	store  Store
	events EventPublisher
	log    *log.Logger
}

// NewService builds the ingestion service. events may be nil when no broker
// is configured; publication is then skipped.
func NewService(store Store, events EventPublisher, logger *log.Logger) *Service {
	return &Service{
		store:  store,
		events: events,
		log:    logger.WithComponent(log.ComponentIngest),
	}
}

// ProcessCSV ingests one uploaded document for userID. Rows that fail
// validation are logged and skipped; the remainder is persisted as a single
// atomic batch. A document with a bad or missing header fails outright.
func (s *Service) ProcessCSV(ctx context.Context, userID string, src io.Reader) (Result, error) {
	reader, err := NewRowReader(src)
	if err != nil {
		return Result{}, core.Invalid("invalid CSV: %v", err)
	}

	var batch []core.Transaction
	var skipped int
	for {
		row, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			s.log.WarnContext(ctx, "Skipping malformed row",
				log.FieldUserID, userID,
				log.FieldError, err)
			continue
		}

		txn, err := Validate(row, userID)
		if err != nil {
			skipped++
			if !errors.Is(err, ErrSkipped) {
				s.log.WarnContext(ctx, "Skipping invalid row",
					log.FieldUserID, userID,
					log.FieldLine, reader.Line(),
					log.FieldError, err)
			}
			continue
		}
		batch = append(batch, txn)
	}

	if err := s.store.BulkInsert(ctx, batch); err != nil {
		return Result{}, fmt.Errorf("persist batch: %w", err)
	}

	s.log.InfoContext(ctx, "Upload processed",
		log.FieldUserID, userID,
		log.FieldCount, len(batch),
		"skipped", skipped)

	if s.events != nil && len(batch) > 0 {
		// Best effort: a broker outage must not fail an upload the store
		// already accepted.
		if err := s.events.PublishBatchIngested(ctx, userID, len(batch)); err != nil {
			s.log.WarnContext(ctx, "Failed to publish batch event",
				log.FieldUserID, userID,
				log.FieldError, err)
		}
	}

	return Result{Inserted: len(batch), Skipped: skipped}, nil
}
