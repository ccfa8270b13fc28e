package contract

import (
	"context"

	"github.com/google/uuid"

	"caseflow-be/internal/entity"
)

// SnapshotRepository persists the merged collected-data snapshot per case.
type SnapshotRepository interface {
	Save(ctx context.Context, caseId uuid.UUID, data entity.CollectedData) error
	Find(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error)
	Delete(ctx context.Context, caseId uuid.UUID) error
}
