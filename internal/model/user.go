package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	Username       string     `json:"username" gorm:"size:32;not null;uniqueIndex"`
	Email          string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	PasswordHash   string     `json:"-" gorm:"not null"`
	FavoriteGenres StringList `json:"favoriteGenres" gorm:"type:text"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ProfileStats 观影统计，读取时由片单实时计算
type ProfileStats struct {
	MoviesWatched  int64 `json:"moviesWatched"`
	WatchlistCount int64 `json:"watchlistCount"`
}

// UserProfile 个人资料
type UserProfile struct {
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	FavoriteGenres StringList   `json:"favoriteGenres"`
	Stats          ProfileStats `json:"stats"`
}

// AuthResult 登录/注册返回
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SignupInput 注册请求
type SignupInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginInput 登录请求
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GenresInput 更新喜爱类型请求
type GenresInput struct {
	FavoriteGenres []string `json:"favoriteGenres"`
}
