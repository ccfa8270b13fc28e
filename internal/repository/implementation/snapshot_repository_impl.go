package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"caseflow-be/internal/entity"
	"caseflow-be/internal/model"
	"caseflow-be/internal/repository/contract"
)

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) contract.SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(ctx context.Context, caseId uuid.UUID, data entity.CollectedData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	snapshot := model.CaseSnapshot{
		CaseId:    caseId,
		Data:      datatypes.JSON(payload),
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "case_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&snapshot).Error
}

func (r *snapshotRepository) Find(ctx context.Context, caseId uuid.UUID) (*entity.CollectedData, error) {
	var snapshot model.CaseSnapshot
	err := r.db.WithContext(ctx).First(&snapshot, "case_id = ?", caseId).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var data entity.CollectedData
	if err := json.Unmarshal(snapshot.Data, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *snapshotRepository) Delete(ctx context.Context, caseId uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CaseSnapshot{}, "case_id = ?", caseId).Error
}
