package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"quillpost/internal/model"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create audit log failed: %w", err)
	}
	return nil
}

func (r *AuditLogRepository) ListByPostID(ctx context.Context, postID string) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("occurred_at ASC").Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list audit logs failed: %w", err)
	}
	return entries, nil
}
