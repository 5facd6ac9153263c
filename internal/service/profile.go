package service

import (
	"context"
	"errors"

	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/repository"
	"go.uber.org/zap"
)

var errUserNotFound = newError(ErrNotFound, "用户不存在")

// UserCache 账号删除后需要失效的用户缓存
type UserCache interface {
	ForgetUser(userID uint)
}

// ProfileService 个人资料服务
type ProfileService struct {
	users   *repository.UserRepository
	entries *repository.WatchlistRepository
	cache   UserCache
	log     *zap.Logger
}

// NewProfileService 创建个人资料服务，cache 可以为 nil
func NewProfileService(users *repository.UserRepository, entries *repository.WatchlistRepository, cache UserCache, log *zap.Logger) *ProfileService {
	return &ProfileService{users: users, entries: entries, cache: cache, log: log}
}

// Get 获取个人资料，统计数据由片单实时计算
func (s *ProfileService) Get(ctx context.Context, userID uint) (*model.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, s.internal("获取用户失败", err, userID)
	}
	if user == nil {
		return nil, errUserNotFound
	}

	total, err := s.entries.CountByUser(ctx, userID)
	if err != nil {
		return nil, s.internal("统计片单失败", err, userID)
	}
	watched, err := s.entries.CountByUserAndStatus(ctx, userID, model.StatusWatched)
	if err != nil {
		return nil, s.internal("统计片单失败", err, userID)
	}

	genres := user.FavoriteGenres
	if genres == nil {
		genres = model.StringList{}
	}
	return &model.UserProfile{
		Username:       user.Username,
		Email:          user.Email,
		FavoriteGenres: genres,
		Stats: model.ProfileStats{
			MoviesWatched:  watched,
			WatchlistCount: total,
		},
	}, nil
}

// UpdateFavoriteGenres 保存喜爱类型，顺序以调用方为准
func (s *ProfileService) UpdateFavoriteGenres(ctx context.Context, userID uint, genres []string) (*model.UserProfile, error) {
	normalized := model.NormalizeLabels(genres)
	if err := validateVar("favoriteGenres", []string(normalized), "max=50,dive,max=64"); err != nil {
		return nil, err
	}

	if err := s.users.UpdateFavoriteGenres(ctx, userID, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errUserNotFound
		}
		return nil, s.internal("更新喜爱类型失败", err, userID)
	}
	return s.Get(ctx, userID)
}

// DeleteAccount 删除账号及其全部片单条目
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.users.DeleteWithEntries(ctx, userID, s.entries); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errUserNotFound
		}
		return s.internal("删除账号失败", err, userID)
	}

	if s.cache != nil {
		s.cache.ForgetUser(userID)
	}
	s.log.Info("[ProfileService] 账号已删除", zap.Uint("user_id", userID))
	return nil
}

func (s *ProfileService) internal(message string, err error, userID uint) error {
	s.log.Error("[ProfileService] "+message, zap.Uint("user_id", userID), zap.Error(err))
	return internalError()
}
