package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status 观看状态
type Status string

const (
	StatusWatching    Status = "Watching"
	StatusWatched     Status = "Watched"
	StatusPlanToWatch Status = "Plan to Watch"
)

// Valid 是否为合法状态
func (s Status) Valid() bool {
	switch s {
	case StatusWatching, StatusWatched, StatusPlanToWatch:
		return true
	}
	return false
}

// ParseStatus 解析状态字符串，兼容 PlanToWatch / plan_to_watch 等写法
func ParseStatus(raw string) (Status, bool) {
	norm := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(raw)))
	switch norm {
	case "watching":
		return StatusWatching, true
	case "watched":
		return StatusWatched, true
	case "plantowatch":
		return StatusPlanToWatch, true
	}
	return "", false
}

// UnmarshalJSON 反序列化时做规范化，非法值原样保留交给校验层处理
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, ok := ParseStatus(raw); ok {
		*s = parsed
		return nil
	}
	*s = Status(raw)
	return nil
}

// StringList 有序字符串列表，以 JSON 文本存储，序列化时永不为 null
type StringList []string

// MarshalJSON 空列表输出 []
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Value 实现 driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("StringList: 不支持的类型 %T", src)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: 解析失败: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// NormalizeLabels 去除首尾空白、空项与重复项，保留首次出现的顺序
func NormalizeLabels(in []string) StringList {
	out := make(StringList, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// WatchlistEntry 片单条目：某个用户追踪的一部影片
type WatchlistEntry struct {
	ID         uint       `json:"_id" gorm:"primaryKey"`
	UserID     uint       `json:"user" gorm:"not null;uniqueIndex:idx_watchlist_user_movie,priority:1"`
	MovieID    string     `json:"movieId" gorm:"size:32;not null;uniqueIndex:idx_watchlist_user_movie,priority:2"`
	Title      string     `json:"title" gorm:"size:512;not null"`
	Year       string     `json:"year" gorm:"size:16"`
	PosterPath string     `json:"posterPath" gorm:"size:2048"`
	Status     Status     `json:"status" gorm:"size:16;not null;index"`
	Note       string     `json:"note" gorm:"type:text"`
	Tags       StringList `json:"tags" gorm:"type:text"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TableName 表名
func (WatchlistEntry) TableName() string {
	return "watchlist_entries"
}

// CreateEntryInput 添加到片单的请求体
type CreateEntryInput struct {
	MovieID    string   `json:"movieId" validate:"required,max=32"`
	Title      string   `json:"title" validate:"required,max=512"`
	Year       string   `json:"year,omitempty" validate:"max=16"`
	PosterPath string   `json:"posterPath,omitempty" validate:"max=2048"`
	Status     Status   `json:"status,omitempty"`
	Note       string   `json:"note,omitempty" validate:"max=2000"`
	Tags       []string `json:"tags,omitempty" validate:"max=50,dive,max=64"`
}

// Optional 显式区分“未提供”和“提供了值”的字段
// JSON 中出现该键（包括 null）即视为已提供
type Optional[T any] struct {
	Set   bool
	Value T
}

// Some 构造一个已提供的值
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// IsZero 供 omitzero 使用，未提供的字段不参与序列化
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// UnmarshalJSON null 会被解析为零值（即“清空”）
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	var zero T
	o.Value = zero
	if string(data) == "null" {
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON 实现 json.Marshaler
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// EntryPatch 条目的局部更新，仅处理已提供的字段
type EntryPatch struct {
	Status Optional[Status]   `json:"status,omitzero"`
	Note   Optional[string]   `json:"note,omitzero"`
	Tags   Optional[[]string] `json:"tags,omitzero"`
}

// Empty 是否没有任何字段需要更新
func (p EntryPatch) Empty() bool {
	return !p.Status.Set && !p.Note.Set && !p.Tags.Set
}

// ApplyTo 将补丁合并到条目上（不修改未提供的字段）
func (p EntryPatch) ApplyTo(e *WatchlistEntry) {
	if p.Status.Set {
		e.Status = p.Status.Value
	}
	if p.Note.Set {
		e.Note = p.Note.Value
	}
	if p.Tags.Set {
		e.Tags = NormalizeLabels(p.Tags.Value)
	}
}
