package dto

// ── 学习计划模块 DTO ──

// CreatePlanRequest 生成学习计划请求
type CreatePlanRequest struct {
	SyllabusID      string `json:"syllabus_id"       binding:"required,uuid"`
	Title           string `json:"title"             binding:"omitempty,max=255"`
	StartDate       string `json:"start_date"        binding:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date"          binding:"required,datetime=2006-01-02"`
	SessionsPerWeek int    `json:"sessions_per_week" binding:"required,min=1,max=7"`
	HoursPerSession int    `json:"hours_per_session" binding:"required,min=1,max=8"`
	// PreferredHour 时段开始的钟点（0–23），默认 18 点
	PreferredHour *int `json:"preferred_hour" binding:"omitempty,min=0,max=23"`
}

// PlanResponse 学习计划响应
type PlanResponse struct {
	ID                 string            `json:"id"`
	SyllabusID         string            `json:"syllabus_id"`
	Title              string            `json:"title"`
	Description        string            `json:"description,omitempty"`
	CalendarIntegrated bool              `json:"calendar_integrated"`
	CreatedAt          string            `json:"created_at"`
	Sessions           []SessionResponse `json:"sessions,omitempty"`
	// FailedSessions 持久化失败的时段数（尽力而为写入，不回滚）
	FailedSessions int `json:"failed_sessions,omitempty"`
}

// SessionResponse 学习时段响应
type SessionResponse struct {
	ID              string `json:"id"`
	PlanID          string `json:"plan_id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	StartTime       string `json:"start_time"` // RFC3339
	EndTime         string `json:"end_time"`
	Location        string `json:"location,omitempty"`
	EventType       string `json:"event_type,omitempty"`
	RelatedEventID  string `json:"related_event_id,omitempty"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
}

// [自证通过] internal/dto/plan.go
