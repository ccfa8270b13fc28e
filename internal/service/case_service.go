package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"caseflow-be/internal/apperror"
	"caseflow-be/internal/dto"
	"caseflow-be/internal/entity"
	"caseflow-be/internal/pkg/logger"
	"caseflow-be/internal/upstream"
	"caseflow-be/internal/workflow"
	pkgEvents "caseflow-be/pkg/events"
	pktNats "caseflow-be/pkg/nats"
)

type ICaseService interface {
	List(ctx context.Context, advisorId uuid.UUID, status workflow.Status, search string) ([]*dto.CaseResponse, error)
	Create(ctx context.Context, advisorId uuid.UUID, req *dto.CreateCaseRequest) (*dto.CaseResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.CaseResponse, error)
	Update(ctx context.Context, advisorId uuid.UUID, req *dto.UpdateCaseRequest) (*dto.CaseResponse, error)
}

type caseService struct {
	client  upstream.Client
	lists   *cache.Cache
	natsPub *pktNats.Publisher
	logger  logger.ILogger
}

// List responses are cached briefly per advisor+filter; any write through
// this service invalidates the advisor's lists.
func NewCaseService(client upstream.Client, natsPub *pktNats.Publisher, sysLogger logger.ILogger) ICaseService {
	return &caseService{
		client:  client,
		lists:   cache.New(time.Minute, 5*time.Minute),
		natsPub: natsPub,
		logger:  sysLogger,
	}
}

func (s *caseService) List(ctx context.Context, advisorId uuid.UUID, status workflow.Status, search string) ([]*dto.CaseResponse, error) {
	if status != "" && !workflow.IsValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownStatus, status)
	}

	cacheKey := fmt.Sprintf("cases:%s:%s:%s", advisorId, status, search)
	if v, found := s.lists.Get(cacheKey); found {
		return v.([]*dto.CaseResponse), nil
	}

	cases, err := s.client.ListCases(ctx, upstream.CaseFilter{
		AdvisorId: advisorId,
		Status:    status,
		Search:    search,
	})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CaseResponse, 0, len(cases))
	for _, c := range cases {
		resp, err := toCaseResponse(c)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}

	s.lists.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *caseService) Create(ctx context.Context, advisorId uuid.UUID, req *dto.CreateCaseRequest) (*dto.CaseResponse, error) {
	created, err := s.client.CreateCase(ctx, upstream.CaseCreate{
		Name:       req.Name,
		ClientName: req.ClientName,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateLists(advisorId)
	return toCaseResponse(created)
}

func (s *caseService) Show(ctx context.Context, id uuid.UUID) (*dto.CaseResponse, error) {
	c, err := s.client.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCaseResponse(c)
}

func (s *caseService) Update(ctx context.Context, advisorId uuid.UUID, req *dto.UpdateCaseRequest) (*dto.CaseResponse, error) {
	partial := upstream.CaseUpdate{
		Name:       req.Name,
		ClientName: req.ClientName,
	}

	var oldStatus workflow.Status
	if req.Status != nil {
		next := workflow.Status(*req.Status)
		if !workflow.IsValidStatus(next) {
			return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownStatus, next)
		}
		partial.Status = &next

		current, err := s.client.GetCase(ctx, req.Id)
		if err != nil {
			return nil, err
		}
		oldStatus = current.Status
	}

	updated, err := s.client.UpdateCase(ctx, req.Id, partial)
	if err != nil {
		return nil, err
	}

	s.invalidateLists(advisorId)

	if req.Status != nil && oldStatus != updated.Status {
		s.publishStatusChanged(ctx, updated, advisorId, oldStatus)
	}

	return toCaseResponse(updated)
}

func (s *caseService) invalidateLists(advisorId uuid.UUID) {
	prefix := fmt.Sprintf("cases:%s:", advisorId)
	for key := range s.lists.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.lists.Delete(key)
		}
	}
}

func (s *caseService) publishStatusChanged(ctx context.Context, c *entity.Case, advisorId uuid.UUID, oldStatus workflow.Status) {
	if s.natsPub == nil {
		return
	}
	evt := pkgEvents.NewCaseStatusChanged(c.Id, advisorId, string(oldStatus), string(c.Status))
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("CASE", "Failed to publish CASE_STATUS_CHANGED event", map[string]interface{}{
			"case_id": c.Id.String(),
			"error":   err.Error(),
		})
	}
}

// toCaseResponse decorates the entity with status metadata. An unrecognized
// status coming back from the server is surfaced, never defaulted.
func toCaseResponse(c *entity.Case) (*dto.CaseResponse, error) {
	info, err := workflow.Describe(c.Status)
	if err != nil {
		return nil, err
	}

	return &dto.CaseResponse{
		Id:          c.Id,
		Name:        c.Name,
		ClientName:  c.ClientName,
		Status:      string(c.Status),
		StatusLabel: info.Label,
		NextActions: info.NextActions,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}, nil
}
