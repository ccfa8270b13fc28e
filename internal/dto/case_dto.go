package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateCaseRequest struct {
	Name       string `json:"name" validate:"required"`
	ClientName string `json:"client_name"`
}

type UpdateCaseRequest struct {
	Id         uuid.UUID
	Name       *string `json:"name,omitempty"`
	ClientName *string `json:"client_name,omitempty"`
	Status     *string `json:"status,omitempty"`
}

type CaseResponse struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ClientName  string     `json:"client_name,omitempty"`
	Status      string     `json:"status"`
	StatusLabel string     `json:"status_label"`
	NextActions []string   `json:"next_actions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
