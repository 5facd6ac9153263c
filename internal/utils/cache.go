package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// HashToken 对令牌做哈希，避免在内存和日志中保留原文
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// TokenDenylist 已注销令牌列表，条目在令牌过期后自动清除
type TokenDenylist struct {
	store *cache.Cache
}

// NewTokenDenylist 创建注销列表，cleanup 为过期条目的清理间隔
func NewTokenDenylist(cleanup time.Duration) *TokenDenylist {
	return &TokenDenylist{store: cache.New(cache.NoExpiration, cleanup)}
}

// Revoke 注销令牌直到 until
func (d *TokenDenylist) Revoke(token string, until time.Time) {
	ttl := time.Until(until)
	if ttl <= 0 {
		return
	}
	d.store.Set(HashToken(token), struct{}{}, ttl)
}

// IsRevoked 令牌是否已注销
func (d *TokenDenylist) IsRevoked(token string) bool {
	_, ok := d.store.Get(HashToken(token))
	return ok
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// TTLCache 带过期时间的 LRU 缓存
type TTLCache[K comparable, T any] struct {
	storage *lru.Cache[K, CacheItem[T]]
	ttl     time.Duration
}

// NewTTLCache 初始化，size 是最大缓存条数，ttl 是数据有效期
func NewTTLCache[K comparable, T any](size int, ttl time.Duration) *TTLCache[K, T] {
	// size <= 0 时 lru.New 会报错，这里兜底
	if size <= 0 {
		size = 1
	}
	c, _ := lru.New[K, CacheItem[T]](size)
	return &TTLCache[K, T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（已存在则覆盖）
func (c *TTLCache[K, T]) Set(key K, value T) {
	c.storage.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Get 读取，过期条目会被删除
func (c *TTLCache[K, T]) Get(key K) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key)
		return zero, false
	}

	return item.Value, true
}

// Delete 删除
func (c *TTLCache[K, T]) Delete(key K) {
	c.storage.Remove(key)
}
