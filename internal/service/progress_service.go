package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"caseflow-be/internal/apperror"
	"caseflow-be/internal/dto"
	"caseflow-be/internal/pkg/logger"
	"caseflow-be/internal/upstream"
	"caseflow-be/internal/workflow"
)

// Flow identifiers. The case flow navigates freely between phases; the
// discovery flow forces steps to be completed in order.
const (
	FlowCase      = "case"
	FlowDiscovery = "discovery"
)

type IProgressService interface {
	Progress(ctx context.Context, caseId uuid.UUID, flow string) (*dto.ProgressResponse, error)
	Advance(ctx context.Context, caseId, advisorId uuid.UUID, flow string, step workflow.StepID) (*dto.ProgressResponse, error)
	CompleteStep(ctx context.Context, caseId, advisorId uuid.UUID, advisorEmail, flow string, step workflow.StepID) (*dto.ProgressResponse, error)
	Reset(caseId uuid.UUID, flow string) error
}

// flowEntry pairs a tracker with its own lock; trackers are not safe for
// concurrent use on their own.
type flowEntry struct {
	mu      sync.Mutex
	tracker *workflow.Tracker
	seeded  bool
}

type progressService struct {
	mu        sync.Mutex
	flows     map[string]*flowEntry
	sync      ISyncService
	client    upstream.Client
	publisher IPublisherService
	logger    logger.ILogger
}

func NewProgressService(syncService ISyncService, client upstream.Client, publisher IPublisherService, sysLogger logger.ILogger) IProgressService {
	return &progressService{
		flows:     make(map[string]*flowEntry),
		sync:      syncService,
		client:    client,
		publisher: publisher,
		logger:    sysLogger,
	}
}

// Progress returns the current read model for a case flow. On first access the
// tracker is seeded from the server's completed-step record, so a reopened
// case shows the same progress it had on another device.
func (s *progressService) Progress(ctx context.Context, caseId uuid.UUID, flow string) (*dto.ProgressResponse, error) {
	entry, err := s.entryFor(caseId, flow)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := s.seedLocked(ctx, caseId, entry); err != nil {
		return nil, err
	}
	return s.responseLocked(caseId, flow, entry)
}

// Advance moves the current position to the given step if the flow's access
// policy allows navigating there.
func (s *progressService) Advance(ctx context.Context, caseId, advisorId uuid.UUID, flow string, step workflow.StepID) (*dto.ProgressResponse, error) {
	entry, err := s.entryFor(caseId, flow)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := s.seedLocked(ctx, caseId, entry); err != nil {
		return nil, err
	}

	accessible, err := entry.tracker.IsAccessible(step)
	if err != nil {
		return nil, err
	}
	if !accessible {
		return nil, fmt.Errorf("%w: %q", apperror.ErrStepNotAccessible, step)
	}

	if err := entry.tracker.AdvanceTo(step); err != nil {
		return nil, err
	}

	resp, err := s.responseLocked(caseId, flow, entry)
	if err != nil {
		return nil, err
	}

	s.publishProgress(ctx, dto.ProgressEvent{
		CaseId:    caseId,
		AdvisorId: advisorId,
		Progress:  *resp,
	})
	return resp, nil
}

// CompleteStep records the step on the server first, then folds the result
// back into the tracker. The server's completed list wins wholesale for the
// strict discovery flow; a local mark is never trusted over it.
func (s *progressService) CompleteStep(ctx context.Context, caseId, advisorId uuid.UUID, advisorEmail, flow string, step workflow.StepID) (*dto.ProgressResponse, error) {
	entry, err := s.entryFor(caseId, flow)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := s.seedLocked(ctx, caseId, entry); err != nil {
		return nil, err
	}

	// Reject unknown steps before touching the network.
	if _, err := entry.tracker.StateOf(step); err != nil {
		return nil, err
	}

	merged, err := s.sync.MarkStepComplete(ctx, caseId, advisorId, step)
	if err != nil {
		return nil, err
	}

	if flow == FlowDiscovery {
		entry.tracker.ApplyServerCompleted(merged.CompletedSteps)
	} else if err := entry.tracker.MarkCompleted(step); err != nil {
		return nil, err
	}

	resp, err := s.responseLocked(caseId, flow, entry)
	if err != nil {
		return nil, err
	}

	event := dto.ProgressEvent{
		CaseId:       caseId,
		AdvisorId:    advisorId,
		AdvisorEmail: advisorEmail,
		ReportReady:  flow == FlowCase && step == workflow.StepReport,
		Progress:     *resp,
	}
	if event.ReportReady {
		if c, err := s.client.GetCase(ctx, caseId); err == nil {
			event.CaseName = c.Name
		} else {
			s.logger.Warn("PROGRESS", "Failed to resolve case name for report notification", map[string]interface{}{
				"case_id": caseId.String(),
				"error":   err.Error(),
			})
		}
	}
	s.publishProgress(ctx, event)

	return resp, nil
}

// Reset clears a flow's position and local completed set. The server record
// is untouched; the next Progress call re-seeds from it.
func (s *progressService) Reset(caseId uuid.UUID, flow string) error {
	entry, err := s.entryFor(caseId, flow)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.tracker.Reset()
	entry.seeded = false
	return nil
}

func (s *progressService) entryFor(caseId uuid.UUID, flow string) (*flowEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := fmt.Sprintf("%s:%s", caseId, flow)
	if entry, ok := s.flows[key]; ok {
		return entry, nil
	}

	var tracker *workflow.Tracker
	switch flow {
	case FlowCase:
		tracker = workflow.NewCaseTracker()
	case FlowDiscovery:
		tracker = workflow.NewDiscoveryTracker()
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownFlow, flow)
	}

	entry := &flowEntry{tracker: tracker}
	s.flows[key] = entry
	return entry, nil
}

// seedLocked applies the server's completed steps once per tracker lifetime.
// Ids belonging to the other flow are ignored by the tracker.
func (s *progressService) seedLocked(ctx context.Context, caseId uuid.UUID, entry *flowEntry) error {
	if entry.seeded {
		return nil
	}

	data, err := s.sync.Fetch(ctx, caseId)
	if err != nil {
		return err
	}

	entry.tracker.ApplyServerCompleted(data.CompletedSteps)
	entry.seeded = true
	return nil
}

func (s *progressService) responseLocked(caseId uuid.UUID, flow string, entry *flowEntry) (*dto.ProgressResponse, error) {
	snap := entry.tracker.Snapshot()

	steps := make([]dto.StepView, 0, len(snap.Steps))
	for _, id := range snap.Steps {
		state, err := entry.tracker.StateOf(id)
		if err != nil {
			return nil, err
		}
		accessible, err := entry.tracker.IsAccessible(id)
		if err != nil {
			return nil, err
		}
		steps = append(steps, dto.StepView{
			Id:         string(id),
			State:      string(state),
			Accessible: accessible,
		})
	}

	completed := make([]string, 0, len(snap.Completed))
	for _, id := range snap.Completed {
		completed = append(completed, string(id))
	}

	var current *string
	if snap.Current != nil {
		c := string(*snap.Current)
		current = &c
	}

	return &dto.ProgressResponse{
		CaseId:    caseId,
		Flow:      flow,
		Current:   current,
		Completed: completed,
		Steps:     steps,
	}, nil
}

func (s *progressService) publishProgress(ctx context.Context, event dto.ProgressEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("PROGRESS", "Failed to publish progress event", map[string]interface{}{
			"case_id": event.CaseId.String(),
			"error":   err.Error(),
		})
	}
}
