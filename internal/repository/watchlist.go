package repository

import (
	"context"
	"errors"
	"time"

	"github.com/user/moovie/internal/model"
	"gorm.io/gorm"
)

// WatchlistRepository 片单仓库，所有查询都带 user_id 过滤
type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// ListByUser 获取用户的全部条目，无记录时返回空切片
func (r *WatchlistRepository) ListByUser(ctx context.Context, userID uint) ([]*model.WatchlistEntry, error) {
	entries := make([]*model.WatchlistEntry, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// FindByUserAndMovie 按外部影片 ID 查找当前用户的条目
func (r *WatchlistRepository) FindByUserAndMovie(ctx context.Context, userID uint, movieID string) (*model.WatchlistEntry, error) {
	var rec model.WatchlistEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create 新建条目，违反 (user_id, movie_id) 唯一索引时返回 ErrDuplicate
func (r *WatchlistRepository) Create(ctx context.Context, e *model.WatchlistEntry) error {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Tags == nil {
		e.Tags = model.StringList{}
	}
	err := r.db.WithContext(ctx).Create(e).Error
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Update 只更新补丁中提供的字段
func (r *WatchlistRepository) Update(ctx context.Context, userID uint, movieID string, patch model.EntryPatch) (*model.WatchlistEntry, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if patch.Status.Set {
		updates["status"] = patch.Status.Value
	}
	if patch.Note.Set {
		updates["note"] = patch.Note.Value
	}
	if patch.Tags.Set {
		updates["tags"] = model.NormalizeLabels(patch.Tags.Value)
	}

	res := r.db.WithContext(ctx).
		Model(&model.WatchlistEntry{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByUserAndMovie(ctx, userID, movieID)
}

// DeleteByUserAndMovie 删除条目，没有匹配行时返回 ErrNotFound
func (r *WatchlistRepository) DeleteByUserAndMovie(ctx context.Context, userID uint, movieID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Delete(&model.WatchlistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser 删除用户的全部条目（注销账号时级联）
func (r *WatchlistRepository) DeleteByUser(ctx context.Context, tx *gorm.DB, userID uint) (int64, error) {
	if tx == nil {
		tx = r.db
	}
	res := tx.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.WatchlistEntry{})
	return res.RowsAffected, res.Error
}

// CountByUser 统计用户条目数量
func (r *WatchlistRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchlistEntry{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CountByUserAndStatus 按状态统计用户条目数量
func (r *WatchlistRepository) CountByUserAndStatus(ctx context.Context, userID uint, status model.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WatchlistEntry{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}
