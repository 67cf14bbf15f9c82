package jwt

import (
	"testing"
	"time"

	"github.com/thelucidbox/courseagenda-sub000/config"
)

func newTestManager(accessTTL time.Duration) *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-at-least-16-chars",
		AccessTokenTTL:          accessTTL,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 168 * time.Hour,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	mgr := newTestManager(15 * time.Minute)

	token, err := mgr.GenerateAccessToken("user-1", "member")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID 期望 user-1, 实际 %s", claims.UserID)
	}
	if claims.Role != "member" {
		t.Errorf("Role 期望 member, 实际 %s", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType 期望 access, 实际 %s", claims.TokenType)
	}
}

func TestParseToken_Expired(t *testing.T) {
	mgr := newTestManager(-1 * time.Minute)

	token, err := mgr.GenerateAccessToken("user-1", "member")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	if _, err := mgr.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired, 实际 %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	mgr := newTestManager(15 * time.Minute)
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-16-chars-long",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := mgr.GenerateAccessToken("user-1", "member")
	if err != nil {
		t.Fatalf("生成 AccessToken 失败: %v", err)
	}

	if _, err := other.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid, 实际 %v", err)
	}
}

func TestRefreshToken_RememberMe(t *testing.T) {
	mgr := newTestManager(15 * time.Minute)

	token, err := mgr.GenerateRefreshToken("user-1", "member", true)
	if err != nil {
		t.Fatalf("生成 RefreshToken 失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType 期望 refresh, 实际 %s", claims.TokenType)
	}
	if !claims.Remember {
		t.Error("Remember 期望 true")
	}
}
