package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caseflow-be/internal/apperror"
	"caseflow-be/internal/dto"
	"caseflow-be/internal/entity"
	"caseflow-be/internal/syncstore"
	"caseflow-be/internal/upstream"
	"caseflow-be/internal/workflow"
)

// fakeUpstream implements upstream.Client with per-method hooks and call
// counters.
type fakeUpstream struct {
	getDataFn  func(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error)
	updateFn   func(ctx context.Context, caseId uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error)
	markStepFn func(ctx context.Context, caseId uuid.UUID, step workflow.StepID) (*entity.CollectedData, error)

	getDataCalls atomic.Int64
}

func (f *fakeUpstream) GetCase(ctx context.Context, id uuid.UUID) (*entity.Case, error) {
	return &entity.Case{Id: id, Name: "Case", Status: workflow.StatusDiscovery}, nil
}

func (f *fakeUpstream) CreateCase(ctx context.Context, req upstream.CaseCreate) (*entity.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUpstream) UpdateCase(ctx context.Context, id uuid.UUID, partial upstream.CaseUpdate) (*entity.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUpstream) ListCases(ctx context.Context, filter upstream.CaseFilter) ([]*entity.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeUpstream) GetCollectedData(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error) {
	f.getDataCalls.Add(1)
	return f.getDataFn(ctx, caseId)
}

func (f *fakeUpstream) UpdateCollectedData(ctx context.Context, caseId uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error) {
	return f.updateFn(ctx, caseId, partial)
}

func (f *fakeUpstream) MarkStepComplete(ctx context.Context, caseId uuid.UUID, step workflow.StepID) (*entity.CollectedData, error) {
	return f.markStepFn(ctx, caseId, step)
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func fullRecord() *entity.CollectedData {
	return &entity.CollectedData{
		PersonalInfo: &entity.PersonalInfo{
			FirstName:        "Ann",
			PartnerFirstName: "Bob",
			Address: &entity.Address{
				Street:  "12 Main St",
				City:    "Austin",
				Country: "US",
			},
		},
		CompletedSteps: []workflow.StepID{workflow.StepPersonalInfo},
	}
}

func TestFetchConcurrentColdCacheSingleUpstreamCall(t *testing.T) {
	caseId := uuid.New()
	release := make(chan struct{})

	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			<-release
			return fullRecord(), nil
		},
	}
	svc := NewSyncService(client, syncstore.NewStore(), nil, nil, noopLogger{})

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*entity.CollectedData, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Fetch(context.Background(), caseId)
		}(i)
	}

	// Let every caller reach the in-flight request before it completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), client.getDataCalls.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, results[i])
		assert.Equal(t, "Ann", results[i].PersonalInfo.FirstName)
	}

	// Warm cache: no further upstream traffic.
	_, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)
	assert.Equal(t, int64(1), client.getDataCalls.Load())
}

func TestFetchErrorDoesNotPopulateCache(t *testing.T) {
	caseId := uuid.New()
	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := NewSyncService(client, syncstore.NewStore(), nil, nil, noopLogger{})

	_, err := svc.Fetch(context.Background(), caseId)
	require.Error(t, err)

	// A later Fetch must go upstream again rather than serve a cached error.
	_, err = svc.Fetch(context.Background(), caseId)
	require.Error(t, err)
	assert.Equal(t, int64(2), client.getDataCalls.Load())
}

func TestUpdateReconcilesPartialResponseAgainstCache(t *testing.T) {
	caseId := uuid.New()
	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			return fullRecord(), nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error) {
			// Server echoes the personal section without the nested address
			// or partner identity it failed to persist.
			return &entity.CollectedData{
				PersonalInfo: &entity.PersonalInfo{FirstName: "Anne"},
			}, nil
		},
	}
	svc := NewSyncService(client, syncstore.NewStore(), nil, nil, noopLogger{})

	_, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)

	merged, err := svc.Update(context.Background(), caseId, &dto.UpdateCollectedDataRequest{
		PersonalInfo: &entity.PersonalInfo{FirstName: "Anne"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Anne", merged.PersonalInfo.FirstName)
	assert.Equal(t, "Bob", merged.PersonalInfo.PartnerFirstName)
	require.NotNil(t, merged.PersonalInfo.Address)
	assert.Equal(t, "Austin", merged.PersonalInfo.Address.City)
	assert.Equal(t, "US", merged.PersonalInfo.Address.Country)

	// Readers observe the reconciled value from cache, not a re-fetch.
	cached, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)
	assert.Equal(t, "Anne", cached.PersonalInfo.FirstName)
	assert.Equal(t, "Austin", cached.PersonalInfo.Address.City)
	assert.Equal(t, int64(1), client.getDataCalls.Load())
}

func TestFailedUpdateLeavesCacheUntouched(t *testing.T) {
	caseId := uuid.New()
	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			return fullRecord(), nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error) {
			return nil, errors.New("upstream timeout")
		},
	}
	svc := NewSyncService(client, syncstore.NewStore(), nil, nil, noopLogger{})

	_, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), caseId, &dto.UpdateCollectedDataRequest{
		PersonalInfo: &entity.PersonalInfo{FirstName: "Anne"},
	})
	require.Error(t, err)

	cached, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)
	assert.Equal(t, "Ann", cached.PersonalInfo.FirstName)
}

func TestMarkStepCompleteMergesServerRecord(t *testing.T) {
	caseId := uuid.New()
	advisorId := uuid.New()
	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			return fullRecord(), nil
		},
		markStepFn: func(ctx context.Context, id uuid.UUID, step workflow.StepID) (*entity.CollectedData, error) {
			return &entity.CollectedData{
				CompletedSteps: []workflow.StepID{workflow.StepPersonalInfo, workflow.StepFinancialProfile},
			}, nil
		},
	}
	svc := NewSyncService(client, syncstore.NewStore(), nil, nil, noopLogger{})

	_, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)

	merged, err := svc.MarkStepComplete(context.Background(), caseId, advisorId, workflow.StepFinancialProfile)
	require.NoError(t, err)

	assert.Equal(t,
		[]workflow.StepID{workflow.StepPersonalInfo, workflow.StepFinancialProfile},
		merged.CompletedSteps)
	// Designated fields survived the partial response.
	require.NotNil(t, merged.PersonalInfo)
	assert.Equal(t, "Bob", merged.PersonalInfo.PartnerFirstName)
}

// fakeSnapshots is an in-memory contract.SnapshotRepository.
type fakeSnapshots struct {
	mu   sync.Mutex
	rows map[uuid.UUID]entity.CollectedData
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{rows: make(map[uuid.UUID]entity.CollectedData)}
}

func (f *fakeSnapshots) Save(ctx context.Context, caseId uuid.UUID, data entity.CollectedData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[caseId] = data
	return nil
}

func (f *fakeSnapshots) Find(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if data, ok := f.rows[caseId]; ok {
		return &data, nil
	}
	return nil, nil
}

func (f *fakeSnapshots) Delete(ctx context.Context, caseId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, caseId)
	return nil
}

func TestSnapshotMirrorFollowsWrites(t *testing.T) {
	caseId := uuid.New()
	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			return fullRecord(), nil
		},
		updateFn: func(ctx context.Context, id uuid.UUID, partial entity.CollectedData) (*entity.CollectedData, error) {
			return &entity.CollectedData{
				PersonalInfo: &entity.PersonalInfo{FirstName: "Anne"},
			}, nil
		},
	}
	snapshots := newFakeSnapshots()
	svc := NewSyncService(client, syncstore.NewStore(), snapshots, nil, noopLogger{})

	_, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), caseId, &dto.UpdateCollectedDataRequest{
		PersonalInfo: &entity.PersonalInfo{FirstName: "Anne"},
	})
	require.NoError(t, err)

	mirrored, err := svc.Snapshot(context.Background(), caseId)
	require.NoError(t, err)
	assert.Equal(t, "Anne", mirrored.PersonalInfo.FirstName)
	assert.Equal(t, "Bob", mirrored.PersonalInfo.PartnerFirstName)

	svc.Invalidate(caseId)
	_, err = svc.Snapshot(context.Background(), caseId)
	require.ErrorIs(t, err, apperror.ErrCaseNotFound)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	caseId := uuid.New()
	client := &fakeUpstream{
		getDataFn: func(ctx context.Context, id uuid.UUID) (*entity.CollectedData, error) {
			return fullRecord(), nil
		},
	}
	svc := NewSyncService(client, syncstore.NewStore(), nil, nil, noopLogger{})

	_, err := svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)
	svc.Invalidate(caseId)

	_, err = svc.Fetch(context.Background(), caseId)
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.getDataCalls.Load())
}
