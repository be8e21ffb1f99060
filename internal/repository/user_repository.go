package repository

import (
	"context"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// Create 创建账号并初始化设置行
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.Favorites == nil {
		user.Favorites = datatypes.JSONSlice[int]{}
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(model.DefaultSettings(user.ID)).Error
	})
	if err != nil {
		err = wrap(err, nil)
		if util.KindOf(err) == util.KindConflict {
			return util.Wrap(util.ErrUsernameTaken, err)
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, wrap(err, util.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, wrap(err, util.ErrUserNotFound)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error
	return users, wrap(err, nil)
}

func (r *UserRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, wrap(err, nil)
	}
	return count > 0, nil
}

// UpdateFields 更新指定列，账号不存在时返回 ErrUserNotFound
func (r *UserRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return wrap(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// Delete 删除账号及其进度、统计和设置
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.TicketProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserStatistics{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.UserSettings{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return util.ErrUserNotFound
		}
		return nil
	})
	return wrap(err, nil)
}

// MutateFavorites 在行锁内读取并改写收藏列表，保证并发增删不丢失
func (r *UserRepository) MutateFavorites(ctx context.Context, id uint, mutate func([]int) []int) ([]int, error) {
	var result []int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "favorites").
			First(&user, id).Error
		if err != nil {
			return err
		}
		result = mutate([]int(user.Favorites))
		if result == nil {
			result = []int{}
		}
		return tx.Model(&model.User{}).Where("id = ?", id).
			Update("favorites", datatypes.JSONSlice[int](result)).Error
	})
	if err != nil {
		return nil, wrap(err, util.ErrUserNotFound)
	}
	return result, nil
}

func (r *UserRepository) GetSettings(ctx context.Context, userID uint) (*model.UserSettings, error) {
	var settings model.UserSettings
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		return nil, wrap(err, util.ErrUserNotFound)
	}
	return &settings, nil
}

// SaveSettings 插入或覆盖设置行
func (r *UserRepository) SaveSettings(ctx context.Context, settings *model.UserSettings) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "notifications", "updated_at"}),
	}).Create(settings).Error
	return wrap(err, nil)
}
