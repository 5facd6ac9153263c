package service

import (
	"context"
	"errors"
	"strings"

	"github.com/user/moovie/internal/metrics"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/repository"
	"go.uber.org/zap"
)

var (
	errAlreadyTracked = newError(ErrConflict, "该影片已在片单中")
	errEntryNotFound  = newError(ErrNotFound, "片单中没有该影片")
)

// WatchlistService 片单服务
// 所有操作都以会话中解析出的 ownerID 为作用域
type WatchlistService struct {
	repo *repository.WatchlistRepository
	log  *zap.Logger
}

// NewWatchlistService 创建片单服务
func NewWatchlistService(repo *repository.WatchlistRepository, log *zap.Logger) *WatchlistService {
	return &WatchlistService{repo: repo, log: log}
}

// List 获取用户的片单，没有条目时返回空列表
func (s *WatchlistService) List(ctx context.Context, ownerID uint) ([]*model.WatchlistEntry, error) {
	entries, err := s.repo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, s.internal("list", "获取片单失败", err, ownerID)
	}
	return entries, nil
}

// Create 添加影片到片单
// 重复添加直接拒绝（ErrConflict），不会合并到已有条目
func (s *WatchlistService) Create(ctx context.Context, ownerID uint, in model.CreateEntryInput) (*model.WatchlistEntry, error) {
	in.MovieID = strings.TrimSpace(in.MovieID)
	in.Title = strings.TrimSpace(in.Title)
	if err := validateStruct(in); err != nil {
		s.record("create", "invalid")
		return nil, err
	}

	status := model.StatusPlanToWatch
	if in.Status != "" {
		parsed, ok := model.ParseStatus(string(in.Status))
		if !ok {
			s.record("create", "invalid")
			return nil, newError(ErrValidation, "status 不合法")
		}
		status = parsed
	}

	// 预检查只为给出友好的提示，并发下由唯一索引兜底
	_, err := s.repo.FindByUserAndMovie(ctx, ownerID, in.MovieID)
	switch {
	case err == nil:
		s.record("create", "conflict")
		return nil, errAlreadyTracked
	case !errors.Is(err, repository.ErrNotFound):
		return nil, s.internal("create", "查询片单失败", err, ownerID)
	}

	entry := &model.WatchlistEntry{
		UserID:     ownerID,
		MovieID:    in.MovieID,
		Title:      in.Title,
		Year:       strings.TrimSpace(in.Year),
		PosterPath: strings.TrimSpace(in.PosterPath),
		Status:     status,
		Note:       in.Note,
		Tags:       model.NormalizeLabels(in.Tags),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.record("create", "conflict")
			return nil, errAlreadyTracked
		}
		return nil, s.internal("create", "添加到片单失败", err, ownerID)
	}

	s.record("create", "ok")
	s.log.Info("[WatchlistService] 添加条目",
		zap.Uint("user_id", ownerID),
		zap.String("movie_id", entry.MovieID),
	)
	return entry, nil
}

// Remove 从片单删除影片，没有匹配的条目时返回 ErrNotFound
func (s *WatchlistService) Remove(ctx context.Context, ownerID uint, movieID string) error {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return newError(ErrValidation, "movieId 为必填项")
	}

	if err := s.repo.DeleteByUserAndMovie(ctx, ownerID, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.record("remove", "not_found")
			return errEntryNotFound
		}
		return s.internal("remove", "从片单删除失败", err, ownerID)
	}

	s.record("remove", "ok")
	return nil
}

// UpdateDetails 局部更新状态/备注/标签，未提供的字段保持原值
func (s *WatchlistService) UpdateDetails(ctx context.Context, ownerID uint, movieID string, patch model.EntryPatch) (*model.WatchlistEntry, error) {
	movieID = strings.TrimSpace(movieID)
	if movieID == "" {
		return nil, newError(ErrValidation, "movieId 为必填项")
	}
	if err := validatePatch(&patch); err != nil {
		s.record("update", "invalid")
		return nil, err
	}

	entry, err := s.repo.Update(ctx, ownerID, movieID, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.record("update", "not_found")
			return nil, errEntryNotFound
		}
		return nil, s.internal("update", "更新片单失败", err, ownerID)
	}

	s.record("update", "ok")
	return entry, nil
}

func validatePatch(patch *model.EntryPatch) error {
	if patch.Empty() {
		return newError(ErrValidation, "没有需要更新的字段")
	}
	if patch.Status.Set {
		parsed, ok := model.ParseStatus(string(patch.Status.Value))
		if !ok {
			return newError(ErrValidation, "status 不合法")
		}
		patch.Status.Value = parsed
	}
	if patch.Note.Set {
		if err := validateVar("note", patch.Note.Value, "max=2000"); err != nil {
			return err
		}
	}
	if patch.Tags.Set {
		if err := validateVar("tags", patch.Tags.Value, "max=50,dive,max=64"); err != nil {
			return err
		}
	}
	return nil
}

func (s *WatchlistService) record(operation, result string) {
	metrics.WatchlistOperationsTotal.WithLabelValues(operation, result).Inc()
}

// internal 记录仓库错误并返回不含细节的内部错误
func (s *WatchlistService) internal(operation, message string, err error, ownerID uint) error {
	s.record(operation, "error")
	s.log.Error("[WatchlistService] "+message,
		zap.Uint("user_id", ownerID),
		zap.Error(err),
	)
	return internalError()
}
