package repository

import (
	"context"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// upsertColumns 冲突时覆盖的列，started_at 保留首次写入的值
var upsertColumns = []string{
	"completed",
	"score",
	"total_questions",
	"answers",
	"completed_at",
	"updated_at",
}

// Upsert inserts or replaces the (user, ticket) record in a single statement
// and returns the row as stored.
func (r *ProgressRepository) Upsert(ctx context.Context, p *model.TicketProgress) (*model.TicketProgress, error) {
	var stored model.TicketProgress
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "ticket_number"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).Create(p).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND ticket_number = ?", p.UserID, p.TicketNumber).
			First(&stored).Error
	})
	if err != nil {
		return nil, wrap(err, nil)
	}
	return &stored, nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID uint) ([]model.TicketProgress, error) {
	var records []model.TicketProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ticket_number ASC").
		Find(&records).Error
	return records, wrap(err, nil)
}

func (r *ProgressRepository) FindTicket(ctx context.Context, userID uint, ticket int) (*model.TicketProgress, error) {
	var record model.TicketProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND ticket_number = ?", userID, ticket).
		First(&record).Error
	if err != nil {
		return nil, wrap(err, util.ErrProgressNotFound)
	}
	return &record, nil
}

func (r *ProgressRepository) DeleteTicket(ctx context.Context, userID uint, ticket int) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND ticket_number = ?", userID, ticket).
		Delete(&model.TicketProgress{})
	return result.RowsAffected, wrap(result.Error, nil)
}

// DeleteAll 删除账号的全部进度，返回删除的行数
func (r *ProgressRepository) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.TicketProgress{})
	return result.RowsAffected, wrap(result.Error, nil)
}
