package types

import (
	"context"
	"time"
)

// BaseModel is embedded in every persisted domain model
type BaseModel struct {
	Status    Status    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	CreatedBy string    `db:"created_by" json:"created_by"`
	UpdatedBy string    `db:"updated_by" json:"updated_by"`
}

func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		Status:    StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: GetUserID(ctx),
		UpdatedBy: GetUserID(ctx),
	}
}
