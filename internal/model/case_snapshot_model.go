package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CaseSnapshot mirrors the last merged CollectedData for a case. Write-behind
// only: the read path of the synchronization controller never consults it.
// Support tooling and the migrate command do.
type CaseSnapshot struct {
	CaseId    uuid.UUID      `gorm:"type:uuid;primaryKey;column:case_id"`
	Data      datatypes.JSON `gorm:"column:data"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (CaseSnapshot) TableName() string {
	return "case_snapshots"
}
