package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"caseflow-be/internal/apperror"
	"caseflow-be/internal/dto"
	"caseflow-be/internal/entity"
	"caseflow-be/internal/pkg/logger"
	"caseflow-be/internal/reconcile"
	"caseflow-be/internal/repository/contract"
	"caseflow-be/internal/syncstore"
	"caseflow-be/internal/upstream"
	"caseflow-be/internal/workflow"
	pkgEvents "caseflow-be/pkg/events"
	pktNats "caseflow-be/pkg/nats"
)

// ISyncService is the case data synchronization controller. It owns the
// keyed cache, dedupes concurrent reads, and runs every successful write
// response through the reconciliation engine before publishing it.
type ISyncService interface {
	Fetch(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error)
	Update(ctx context.Context, caseId uuid.UUID, req *dto.UpdateCollectedDataRequest) (*entity.CollectedData, error)
	MarkStepComplete(ctx context.Context, caseId, advisorId uuid.UUID, step workflow.StepID) (*entity.CollectedData, error)
	Snapshot(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error)
	Invalidate(caseId uuid.UUID)
}

type syncService struct {
	client    upstream.Client
	store     *syncstore.Store
	snapshots contract.SnapshotRepository // optional write-behind mirror
	natsPub   *pktNats.Publisher          // optional, best-effort
	logger    logger.ILogger
	flight    singleflight.Group
}

func NewSyncService(
	client upstream.Client,
	store *syncstore.Store,
	snapshots contract.SnapshotRepository,
	natsPub *pktNats.Publisher,
	sysLogger logger.ILogger,
) ISyncService {
	return &syncService{
		client:    client,
		store:     store,
		snapshots: snapshots,
		natsPub:   natsPub,
		logger:    sysLogger,
	}
}

// Fetch returns the cached record when present; on a miss, concurrent callers
// for the same case share one upstream request. The raw server response
// becomes the new cache baseline; nothing to reconcile against on first load.
func (s *syncService) Fetch(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error) {
	key := syncstore.Key(caseId, "")

	if cached, found := s.store.Get(key); found {
		return cached, nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		incoming, err := s.client.GetCollectedData(ctx, caseId)
		if err != nil {
			return nil, err
		}

		// If a write completed while this read was in flight, the read still
		// applies: whichever network call finishes last owns the cache.
		stored := s.store.Apply(key, func(*entity.CollectedData) entity.CollectedData {
			return *incoming
		})
		s.mirror(ctx, caseId, stored)
		return &stored, nil
	})
	if err != nil {
		// Cache untouched; the previous value (if any) stays authoritative.
		return nil, err
	}
	return v.(*entity.CollectedData), nil
}

// Update sends the partial payload upstream, reconciles the response against
// the cached previous value, and stores the merged record. Readers observe
// the reconciled value, never the raw response. A failed write leaves the
// cache exactly as it was so the advisor can retry without re-entering data.
func (s *syncService) Update(ctx context.Context, caseId uuid.UUID, req *dto.UpdateCollectedDataRequest) (*entity.CollectedData, error) {
	incoming, err := s.client.UpdateCollectedData(ctx, caseId, req.ToEntity())
	if err != nil {
		return nil, err
	}

	merged := s.applyIncoming(ctx, caseId, *incoming)
	s.publishEvent(ctx, pkgEvents.NewCaseDataSynced(caseId, "update"))
	return merged, nil
}

// MarkStepComplete records a confirmed step on the server and folds the
// (possibly partial) response into the cache the same way a write does.
func (s *syncService) MarkStepComplete(ctx context.Context, caseId, advisorId uuid.UUID, step workflow.StepID) (*entity.CollectedData, error) {
	incoming, err := s.client.MarkStepComplete(ctx, caseId, step)
	if err != nil {
		return nil, err
	}

	merged := s.applyIncoming(ctx, caseId, *incoming)
	s.publishEvent(ctx, pkgEvents.NewCaseStepCompleted(caseId, advisorId, string(step)))
	return merged, nil
}

// Snapshot reads the persisted mirror directly. Support tooling only; the
// serving path never consults it.
func (s *syncService) Snapshot(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error) {
	if s.snapshots == nil {
		return nil, apperror.ErrCaseNotFound
	}
	data, err := s.snapshots.Find(ctx, caseId)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, apperror.ErrCaseNotFound
	}
	return data, nil
}

// Invalidate drops the cache entry and its mirror; the next Fetch goes back
// upstream.
func (s *syncService) Invalidate(caseId uuid.UUID) {
	s.store.Invalidate(syncstore.Key(caseId, ""))
	if s.snapshots != nil {
		if err := s.snapshots.Delete(context.Background(), caseId); err != nil {
			s.logger.Warn("SYNC", "Failed to drop snapshot", map[string]interface{}{
				"case_id": caseId.String(),
				"error":   err.Error(),
			})
		}
	}
}

func (s *syncService) applyIncoming(ctx context.Context, caseId uuid.UUID, incoming entity.CollectedData) *entity.CollectedData {
	key := syncstore.Key(caseId, "")
	merged := s.store.Apply(key, func(previous *entity.CollectedData) entity.CollectedData {
		return reconcile.Merge(previous, incoming)
	})
	s.mirror(ctx, caseId, merged)
	return &merged
}

// mirror persists the merged record write-behind. Failures are logged, never
// surfaced: the in-memory cache is the authority.
func (s *syncService) mirror(ctx context.Context, caseId uuid.UUID, data entity.CollectedData) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, caseId, data); err != nil {
		s.logger.Warn("SYNC", "Failed to mirror snapshot", map[string]interface{}{
			"case_id": caseId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *syncService) publishEvent(ctx context.Context, evt pkgEvents.BaseEvent) {
	if s.natsPub == nil {
		return
	}
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("SYNC", "Failed to publish lifecycle event", map[string]interface{}{
			"event": evt.EventType(),
			"error": err.Error(),
		})
	}
}
