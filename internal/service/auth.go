package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/user/moovie/internal/metrics"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/repository"
	"github.com/user/moovie/internal/utils"
	"go.uber.org/zap"
)

var (
	errInvalidCredentials = newError(ErrUnauthorized, "邮箱或密码错误")
	errInvalidToken       = newError(ErrUnauthorized, "登录已失效，请重新登录")
	errAccountTaken       = newError(ErrConflict, "用户名或邮箱已被注册")
)

// Claims JWT 声明
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService 注册、登录与令牌校验
type AuthService struct {
	users    *repository.UserRepository
	secret   []byte
	expiry   time.Duration
	denylist *utils.TokenDenylist
	// 已确认存在的用户，避免每个请求都查库
	known *utils.TTLCache[uint, bool]
	log   *zap.Logger
	now   func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(users *repository.UserRepository, secret string, expiry time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		secret:   []byte(secret),
		expiry:   expiry,
		denylist: utils.NewTokenDenylist(10 * time.Minute),
		known:    utils.NewTTLCache[uint, bool](4096, 5*time.Minute),
		log:      log,
		now:      time.Now,
	}
}

// Signup 注册新用户并签发令牌
func (s *AuthService) Signup(ctx context.Context, in model.SignupInput) (*model.AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("[AuthService] 查询用户失败", zap.Error(err))
		return nil, internalError()
	}
	if existing != nil {
		return nil, errAccountTaken
	}

	user, err := s.users.Create(ctx, in.Username, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errAccountTaken
		}
		s.log.Error("[AuthService] 创建用户失败", zap.Error(err))
		return nil, internalError()
	}

	s.log.Info("[AuthService] 新用户注册", zap.Uint("user_id", user.ID))
	return s.issue(user)
}

// Login 邮箱密码登录
func (s *AuthService) Login(ctx context.Context, in model.LoginInput) (*model.AuthResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("[AuthService] 查询用户失败", zap.Error(err))
		return nil, internalError()
	}
	if user == nil || !s.users.CheckPassword(user, in.Password) {
		metrics.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
		return nil, errInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *model.User) (*model.AuthResult, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		s.log.Error("[AuthService] 签发令牌失败", zap.Error(err))
		return nil, internalError()
	}
	s.known.Set(user.ID, true)
	return &model.AuthResult{Token: token, User: user}, nil
}

// GenerateToken 生成 JWT Token
func (s *AuthService) GenerateToken(user *model.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken 校验签名与有效期并返回声明
func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Authenticate 校验令牌并返回用户 ID
// 已注销的令牌以及用户已不存在的令牌都会被拒绝
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (uint, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			metrics.AuthFailuresTotal.WithLabelValues("expired").Inc()
		} else {
			metrics.AuthFailuresTotal.WithLabelValues("invalid").Inc()
		}
		return 0, errInvalidToken
	}

	if s.denylist.IsRevoked(tokenString) {
		metrics.AuthFailuresTotal.WithLabelValues("revoked").Inc()
		return 0, errInvalidToken
	}

	if _, ok := s.known.Get(claims.UserID); ok {
		return claims.UserID, nil
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		s.log.Error("[AuthService] 查询用户失败", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return 0, internalError()
	}
	if user == nil {
		metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
		return 0, errInvalidToken
	}

	s.known.Set(user.ID, true)
	return user.ID, nil
}

// Verify 校验令牌并返回当前用户
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*model.User, error) {
	userID, err := s.Authenticate(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("[AuthService] 查询用户失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, internalError()
	}
	if user == nil {
		s.known.Delete(userID)
		return nil, errInvalidToken
	}
	return user, nil
}

// Logout 注销令牌，直到其自然过期前都不再被接受
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return errInvalidToken
	}
	s.denylist.Revoke(tokenString, claims.ExpiresAt.Time)
	s.log.Info("[AuthService] 用户注销", zap.Uint("user_id", claims.UserID))
	return nil
}

// ForgetUser 清除用户存在性缓存（账号删除后调用）
func (s *AuthService) ForgetUser(userID uint) {
	s.known.Delete(userID)
}
