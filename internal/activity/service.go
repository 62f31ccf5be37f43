package activity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Recorder is implemented by anything that can persist activity entries.
// Domain services depend on this interface so tests can capture entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

// Store abstracts the persistence used by the service.
type Store interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, f Filters, limit, offset int) ([]Entry, error)
}

// PagingInfo carries timeline paging state.
type PagingInfo struct {
	Page     int
	PageSize int
	HasNext  bool
	PrevPage int
	NextPage int
}

// Result bundles timeline rows with paging.
type Result struct {
	Rows   []Entry
	Paging PagingInfo
}

// Service records and reads the activity timeline.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs an activity service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record appends an entry. Failures are logged but never fail the calling
// mutation; the log is an audit side effect, not part of the write contract.
func (s *Service) Record(ctx context.Context, entry Entry) {
	if s == nil || s.store == nil {
		return
	}
	if entry.UserID == uuid.Nil || entry.Action == "" || entry.EntityType == "" {
		if s.logger != nil {
			s.logger.Warn("activity entry missing user/action/entity, dropped",
				slog.String("action", string(entry.Action)))
		}
		return
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if err := s.store.Insert(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record activity", slog.Any("error", err))
	}
}

// Timeline fetches entries with paging. Page size is clamped to [1,50].
func (s *Service) Timeline(ctx context.Context, filters Filters) (Result, error) {
	if s == nil || s.store == nil {
		return Result{}, errors.New("activity: service not initialised")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize
	rows, err := s.store.List(ctx, filters, pageSize+1, offset)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}

// Export fetches every entry matching the filters without paging.
func (s *Service) Export(ctx context.Context, filters Filters) ([]Entry, error) {
	if s == nil || s.store == nil {
		return nil, errors.New("activity: service not initialised")
	}
	const exportBatch = 10000
	return s.store.List(ctx, filters, exportBatch, 0)
}
