// Package bulk executes bulk actions one at a time with per-item error
// reporting.
package bulk

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/esdex/internal/domain"
	dombulk "github.com/kailas-cloud/esdex/internal/domain/bulk"
	"github.com/kailas-cloud/esdex/internal/metrics"
	"github.com/kailas-cloud/esdex/internal/usecase/catalog"
)

// DefaultMaxActions is the maximum number of actions per request.
const DefaultMaxActions = 10000

// Service runs bulk requests against the catalog.
type Service struct {
	docs       DocumentWriter
	refresher  Refresher
	logger     *zap.Logger
	maxActions int
	newID      func() string
}

// New creates a bulk service.
func New(docs DocumentWriter, refresher Refresher, logger *zap.Logger) *Service {
	return &Service{
		docs:       docs,
		refresher:  refresher,
		logger:     logger,
		maxActions: DefaultMaxActions,
		newID:      uuid.NewString,
	}
}

// WithMaxActions configures the per-request action limit.
func (s *Service) WithMaxActions(n int) *Service {
	if n > 0 {
		s.maxActions = n
	}
	return s
}

// MaxActions returns the per-request action limit.
func (s *Service) MaxActions() int { return s.maxActions }

// Execute applies actions in order. A failing item is recorded in the
// response and never stops the batch. With refresh set, the indices touched
// by successful items are refreshed afterwards; refresh failures are logged,
// not reported.
func (s *Service) Execute(ctx context.Context, actions []dombulk.Action, refresh bool) (dombulk.Response, error) {
	if len(actions) > s.maxActions {
		return dombulk.Response{}, fmt.Errorf("bulk request has %d actions, limit is %d: %w",
			len(actions), s.maxActions, domain.ErrInvalidRequest)
	}

	start := time.Now()
	resp := dombulk.Response{Items: make([]dombulk.Result, len(actions))}
	for i, a := range actions {
		item := s.apply(ctx, a)
		if item.Failed() {
			s.logger.Debug("Bulk item failed",
				zap.String("action", string(a.Op)),
				zap.String("index", a.Index),
				zap.String("id", item.ID()),
				zap.Error(item.Err()),
			)
		}
		metrics.BulkItemsTotal.WithLabelValues(string(a.Op), metrics.Outcome(item.Err())).Inc()
		resp.Items[i] = item
	}
	resp.TookMillis = time.Since(start).Milliseconds()

	if refresh {
		if touched := resp.Indices(); len(touched) > 0 {
			if _, err := s.refresher.Refresh(ctx, touched...); err != nil {
				s.logger.Warn("Refresh after bulk failed", zap.Strings("indices", touched), zap.Error(err))
			}
		}
	}

	s.logger.Debug("Bulk request completed",
		zap.Int("items", len(actions)),
		zap.Bool("errors", resp.Errors()),
		zap.Int64("took_ms", resp.TookMillis),
	)
	return resp, nil
}

func (s *Service) apply(ctx context.Context, a dombulk.Action) dombulk.Result {
	switch a.Op {
	case dombulk.OpIndex, dombulk.OpCreate:
		id := a.ID
		if id == "" {
			id = s.newID()
		}
		mode := catalog.Upsert
		if a.Op == dombulk.OpCreate {
			mode = catalog.CreateOnly
		}
		if _, err := s.docs.PutDocument(ctx, a.Index, id, a.Document, mode); err != nil {
			return dombulk.NewError(a.Op, a.Index, id, err)
		}
		return dombulk.NewOK(a.Op, a.Index, id, http.StatusCreated, dombulk.ResultCreated)

	case dombulk.OpUpdate:
		if a.ID == "" {
			return dombulk.NewError(a.Op, a.Index, a.ID, domain.InvalidRequest("update requires an _id"))
		}
		if _, err := s.docs.PutDocument(ctx, a.Index, a.ID, a.Document, catalog.Merge); err != nil {
			return dombulk.NewError(a.Op, a.Index, a.ID, err)
		}
		return dombulk.NewOK(a.Op, a.Index, a.ID, http.StatusOK, dombulk.ResultUpdated)

	case dombulk.OpDelete:
		if a.ID == "" {
			return dombulk.NewError(a.Op, a.Index, a.ID, domain.InvalidRequest("delete requires an _id"))
		}
		if err := s.docs.DeleteDocument(ctx, a.Index, a.ID); err != nil {
			return dombulk.NewError(a.Op, a.Index, a.ID, err)
		}
		return dombulk.NewOK(a.Op, a.Index, a.ID, http.StatusOK, dombulk.ResultDeleted)

	default:
		return dombulk.NewError(a.Op, a.Index, a.ID, domain.InvalidRequest("unknown bulk action [%s]", a.Op))
	}
}
