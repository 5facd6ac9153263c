// Package repotest 提供基于内存 SQLite 的测试数据库
package repotest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/moovie/internal/model"
	"github.com/user/moovie/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDB 为当前测试创建独立的内存数据库（已迁移）
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)

	db, err := repository.Open(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// SQLite 单写者，串行化连接避免 locked 错误
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

// NewRepositories 创建仓库集合
func NewRepositories(t testing.TB) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(NewDB(t))
}

// CreateUser 创建测试用户，密码固定为 password
func CreateUser(t testing.TB, repos *repository.Repositories, username string) *model.User {
	t.Helper()
	user, err := repos.User.Create(context.Background(), username, username+"@example.com", "password")
	require.NoError(t, err)
	return user
}
