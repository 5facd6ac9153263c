package client

import (
	"context"
	"sync"

	"github.com/user/moovie/internal/model"
)

// WatchlistAPI Store 依赖的服务端接口
type WatchlistAPI interface {
	ListWatchlist(ctx context.Context) ([]model.WatchlistEntry, error)
	CreateEntry(ctx context.Context, in model.CreateEntryInput) (*model.WatchlistEntry, error)
	UpdateEntry(ctx context.Context, movieID string, patch model.EntryPatch) (*model.WatchlistEntry, error)
	DeleteEntry(ctx context.Context, movieID string) error
}

// WatchlistStore 当前会话的片单内存副本
// 增删都等服务端确认后再修改本地状态，网络请求期间不持有锁
type WatchlistStore struct {
	api    WatchlistAPI
	notify Notifier
	valid  func() bool

	mu      sync.RWMutex
	entries []model.WatchlistEntry
	// 每次 Clear 递增，请求返回时代数变化说明会话已结束
	gen uint64
}

// NewWatchlistStore 创建 Store，valid 报告会话是否仍然有效
func NewWatchlistStore(api WatchlistAPI, notify Notifier, valid func() bool) *WatchlistStore {
	return &WatchlistStore{
		api:     api,
		notify:  notify,
		valid:   valid,
		entries: []model.WatchlistEntry{},
	}
}

// Load 从服务端整体替换本地片单
// 会话无效时直接清空且不发请求；请求失败时清空本地状态并发出一次错误通知
func (s *WatchlistStore) Load(ctx context.Context) error {
	if !s.valid() {
		s.Clear()
		return nil
	}

	gen := s.generation()
	entries, err := s.api.ListWatchlist(ctx)
	if err != nil {
		if s.apply(gen, func() { s.entries = []model.WatchlistEntry{} }) {
			s.notify.Error(failureMessage("加载片单失败", err))
		}
		return err
	}
	if entries == nil {
		entries = []model.WatchlistEntry{}
	}

	if !s.apply(gen, func() { s.entries = entries }) {
		return ErrSessionClosed
	}
	return nil
}

// Add 添加影片，成功后追加服务端返回的条目
func (s *WatchlistStore) Add(ctx context.Context, item model.CatalogItem) (*model.WatchlistEntry, error) {
	gen := s.generation()
	created, err := s.api.CreateEntry(ctx, item.CreateInput())
	if err != nil {
		s.notify.Error(failureMessage("添加失败", err))
		return nil, err
	}

	if !s.apply(gen, func() { s.upsert(*created) }) {
		return nil, ErrSessionClosed
	}

	s.notify.Success("已添加到片单：" + created.Title)
	return created, nil
}

// Remove 删除影片，服务端已不存在（404）也视为成功
func (s *WatchlistStore) Remove(ctx context.Context, movieID string) error {
	gen := s.generation()
	if err := s.api.DeleteEntry(ctx, movieID); err != nil && !IsNotFound(err) {
		s.notify.Error(failureMessage("删除失败", err))
		return err
	}

	applied := s.apply(gen, func() {
		if i := s.indexOf(movieID); i >= 0 {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
		}
	})
	if !applied {
		return ErrSessionClosed
	}

	s.notify.Success("已从片单移除")
	return nil
}

// UpdateDetails 局部更新，成功后用服务端返回的条目替换本地条目
func (s *WatchlistStore) UpdateDetails(ctx context.Context, movieID string, patch model.EntryPatch) (*model.WatchlistEntry, error) {
	gen := s.generation()
	updated, err := s.api.UpdateEntry(ctx, movieID, patch)
	if err != nil {
		s.notify.Error(failureMessage("更新失败", err))
		return nil, err
	}

	if !s.apply(gen, func() { s.upsert(*updated) }) {
		return nil, ErrSessionClosed
	}

	s.notify.Success("已更新：" + updated.Title)
	return updated, nil
}

// IsTracked 本地查询是否已在片单中
func (s *WatchlistStore) IsTracked(movieID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(movieID) >= 0
}

// Find 本地查找条目
func (s *WatchlistStore) Find(movieID string) (model.WatchlistEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(movieID); i >= 0 {
		return s.entries[i], true
	}
	return model.WatchlistEntry{}, false
}

// Entries 返回片单副本
func (s *WatchlistStore) Entries() []model.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WatchlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clear 清空本地片单（会话结束时调用）
func (s *WatchlistStore) Clear() {
	s.mu.Lock()
	s.entries = []model.WatchlistEntry{}
	s.gen++
	s.mu.Unlock()
}

func (s *WatchlistStore) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// apply 仅当请求期间没有 Clear 且会话仍有效时才修改本地状态
func (s *WatchlistStore) apply(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || !s.valid() {
		return false
	}
	fn()
	return true
}

// upsert 调用方需持有锁
func (s *WatchlistStore) upsert(e model.WatchlistEntry) {
	if i := s.indexOf(e.MovieID); i >= 0 {
		s.entries[i] = e
		return
	}
	s.entries = append(s.entries, e)
}

// indexOf 调用方需持有锁
func (s *WatchlistStore) indexOf(movieID string) int {
	for i := range s.entries {
		if s.entries[i].MovieID == movieID {
			return i
		}
	}
	return -1
}

// failureMessage 服务端错误展示其信息，其余错误只给出通用提示
func failureMessage(prefix string, err error) string {
	if StatusCode(err) != 0 {
		return prefix + "：" + err.Error()
	}
	return prefix + "：网络异常，请稍后重试"
}
