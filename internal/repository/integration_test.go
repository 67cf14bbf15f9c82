//go:build integration

package repository_test

import (
	"fmt"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/repotest"
)

// ═══════════════════════════════════════════════════════════
// 关系型后端契约测试（需要真实 PostgreSQL）
//
//	TEST_DATABASE_DSN=... go test -tags integration ./internal/repository/
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=courseagenda password=courseagenda_password dbname=courseagenda_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.User{},
		&model.Syllabus{},
		&model.CourseEvent{},
		&model.StudyPlan{},
		&model.StudySession{},
		&model.OAuthToken{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// cleanTables 每个用例前清空业务表，保证契约套件拿到干净状态
func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{
		"study_sessions", "study_plans", "course_events", "syllabi", "oauth_tokens", "users",
	} {
		if err := testDB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("清空表 %s 失败: %v", table, err)
		}
	}
}

func TestPostgresBackend_Contract(t *testing.T) {
	repotest.RunContractSuite(t, func(t *testing.T) *repository.Repository {
		cleanTables(t)
		return repository.NewRepository(testDB)
	})
}
