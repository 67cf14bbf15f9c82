package model

import "time"

// 日历提供方标识
const (
	ProviderGoogle  = "google"
	ProviderOutlook = "outlook"
)

// OAuthToken 日历提供方 OAuth 令牌表 — 对应 oauth_tokens
// 令牌的获取（OAuth 授权流程）由外部协作方完成，本服务负责存储与刷新。
// 每个 (user, provider) 至多一条记录。
type OAuthToken struct {
	TokenID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"       json:"token_id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex:uq_oauth_user_provider" json:"user_id"`
	Provider     string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_oauth_user_provider" json:"provider"` // google | outlook
	AccessToken  string     `gorm:"type:varchar(4096);not null" json:"-"`
	RefreshToken string     `gorm:"type:varchar(4096)"          json:"-"`
	Expiry       *time.Time `json:"expiry,omitempty"`
	BaseModel
}

func (OAuthToken) TableName() string { return "oauth_tokens" }
