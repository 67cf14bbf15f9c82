package service

import (
	"errors"
	"testing"
	"time"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	apperrors "github.com/thelucidbox/courseagenda-sub000/pkg/errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func defaultParams(from, to time.Time) GenerateParams {
	return GenerateParams{
		From:            from,
		To:              to,
		SessionsPerWeek: 3,
		HoursPerSession: 2,
		PreferredHour:   18,
		ProximityDays:   3,
	}
}

func TestGenerateSessions_CountAndSpacing(t *testing.T) {
	// 28 天 × 每周 3 次 = 12 个时段，间距 28/12 = 2 天
	from := day(2025, 9, 1)
	params := defaultParams(from, day(2025, 9, 29))

	sessions, err := GenerateSessions(params, nil)
	if err != nil {
		t.Fatalf("GenerateSessions 返回错误: %v", err)
	}
	if len(sessions) != 12 {
		t.Fatalf("时段数 = %d, 期望 12", len(sessions))
	}

	for i, s := range sessions {
		wantStart := from.AddDate(0, 0, i*2).Add(18 * time.Hour)
		if !s.StartTime.Equal(wantStart) {
			t.Errorf("时段 %d 开始于 %v, 期望 %v", i, s.StartTime, wantStart)
		}
		if got := s.EndTime.Sub(s.StartTime); got != 2*time.Hour {
			t.Errorf("时段 %d 时长 = %v, 期望 2h", i, got)
		}
	}
}

func TestGenerateSessions_ShortRangeYieldsEmpty(t *testing.T) {
	// 2 天 × 每周 1 次 ⇒ floor(2/7) = 0 个时段，合法的空结果
	params := defaultParams(day(2025, 9, 1), day(2025, 9, 3))
	params.SessionsPerWeek = 1

	sessions, err := GenerateSessions(params, nil)
	if err != nil {
		t.Fatalf("短区间不应当报错: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("时段数 = %d, 期望 0", len(sessions))
	}
}

func TestGenerateSessions_InvalidRange(t *testing.T) {
	params := defaultParams(day(2025, 9, 29), day(2025, 9, 1))
	if _, err := GenerateSessions(params, nil); !errors.Is(err, apperrors.ErrInvalidTimeRange) {
		t.Errorf("倒置区间应当返回 ErrInvalidTimeRange, 实际 %v", err)
	}

	// 起止相同同样非法
	params = defaultParams(day(2025, 9, 1), day(2025, 9, 1))
	if _, err := GenerateSessions(params, nil); !errors.Is(err, apperrors.ErrInvalidTimeRange) {
		t.Errorf("零长度区间应当返回 ErrInvalidTimeRange, 实际 %v", err)
	}
}

func TestGenerateSessions_InvalidCadenceAndHours(t *testing.T) {
	params := defaultParams(day(2025, 9, 1), day(2025, 9, 29))
	params.SessionsPerWeek = 8
	if _, err := GenerateSessions(params, nil); !errors.Is(err, ErrInvalidCadence) {
		t.Errorf("每周 8 次应当返回 ErrInvalidCadence, 实际 %v", err)
	}

	params = defaultParams(day(2025, 9, 1), day(2025, 9, 29))
	params.HoursPerSession = 9
	if _, err := GenerateSessions(params, nil); !errors.Is(err, ErrInvalidHours) {
		t.Errorf("单次 9 小时应当返回 ErrInvalidHours, 实际 %v", err)
	}
}

func TestGenerateSessions_TitlesNearEvents(t *testing.T) {
	// 14 天 × 每周 1 次 = 2 个时段：9/1 与 9/8
	params := defaultParams(day(2025, 9, 1), day(2025, 9, 15))
	params.SessionsPerWeek = 1

	events := []model.CourseEvent{
		{EventID: "ev-1", EventType: model.EventTypeExam, Title: "Midterm Exam", DueDate: day(2025, 9, 3)},
		{EventID: "ev-2", EventType: model.EventTypeQuiz, Title: "Quiz 2", DueDate: day(2025, 9, 4)},
	}

	sessions, err := GenerateSessions(params, events)
	if err != nil {
		t.Fatalf("GenerateSessions 返回错误: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("时段数 = %d, 期望 2", len(sessions))
	}

	// 9/1 的时段：窗口内（3 天）有两个事件，先到的 Midterm 胜出
	if sessions[0].Title != "Prepare for Midterm Exam" {
		t.Errorf("时段 0 标题 = %q, 期望 Prepare for Midterm Exam", sessions[0].Title)
	}
	if sessions[0].EventType != model.EventTypeExam {
		t.Errorf("时段 0 事件类型 = %q, 期望 exam", sessions[0].EventType)
	}
	if sessions[0].RelatedEventID == nil || *sessions[0].RelatedEventID != "ev-1" {
		t.Errorf("时段 0 应当关联 ev-1")
	}

	// 9/8 的时段：窗口内无事件，落回序号命名
	if sessions[1].Title != "Study Session 2" {
		t.Errorf("时段 1 标题 = %q, 期望 Study Session 2", sessions[1].Title)
	}
	if sessions[1].RelatedEventID != nil {
		t.Errorf("时段 1 不应当关联事件")
	}
}

func TestGenerateSessions_EventOutsideWindow(t *testing.T) {
	// 事件在时段日期 4 天后，超出 3 天窗口
	params := defaultParams(day(2025, 9, 1), day(2025, 9, 8))
	params.SessionsPerWeek = 1

	events := []model.CourseEvent{
		{EventID: "ev-1", EventType: model.EventTypeExam, Title: "Final", DueDate: day(2025, 9, 5)},
	}

	sessions, err := GenerateSessions(params, events)
	if err != nil {
		t.Fatalf("GenerateSessions 返回错误: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("时段数 = %d, 期望 1", len(sessions))
	}
	if sessions[0].Title != "Study Session 1" {
		t.Errorf("窗口外事件不应当影响标题, 实际 %q", sessions[0].Title)
	}
}

func TestGenerateSessions_WindowIsAbsolute(t *testing.T) {
	// 窗口前后皆算：时段在事件截止 2 天后（9/12 对 9/10），仍应备考命名
	params := defaultParams(day(2025, 9, 12), day(2025, 9, 19))
	params.SessionsPerWeek = 1

	events := []model.CourseEvent{
		{EventID: "ev-1", EventType: model.EventTypeExam, Title: "Midterm", DueDate: day(2025, 9, 10)},
	}

	sessions, err := GenerateSessions(params, events)
	if err != nil {
		t.Fatalf("GenerateSessions 返回错误: %v", err)
	}
	if sessions[0].Title != "Prepare for Midterm" {
		t.Errorf("截止 2 天后的时段应当备考命名, 实际 %q", sessions[0].Title)
	}
	if sessions[0].RelatedEventID == nil || *sessions[0].RelatedEventID != "ev-1" {
		t.Errorf("时段应当关联 ev-1")
	}
}

func TestGenerateSessions_PastEventOutsideWindow(t *testing.T) {
	// 事件截止在时段日期 4 天前，超出 3 天窗口，落回序号命名
	params := defaultParams(day(2025, 9, 12), day(2025, 9, 19))
	params.SessionsPerWeek = 1

	events := []model.CourseEvent{
		{EventID: "ev-1", EventType: model.EventTypeQuiz, Title: "Quiz 1", DueDate: day(2025, 9, 8)},
	}

	sessions, err := GenerateSessions(params, events)
	if err != nil {
		t.Fatalf("GenerateSessions 返回错误: %v", err)
	}
	if sessions[0].Title != "Study Session 1" {
		t.Errorf("窗口外的已过期事件不应当影响标题, 实际 %q", sessions[0].Title)
	}
}

func TestGenerateSessions_MatchedSessionDescription(t *testing.T) {
	// 命中事件的时段要说明是在为哪类事件做准备
	params := defaultParams(day(2025, 9, 1), day(2025, 9, 8))
	params.SessionsPerWeek = 1

	events := []model.CourseEvent{
		{EventID: "ev-1", EventType: model.EventTypeExam, Title: "Final", DueDate: day(2025, 9, 2)},
	}

	sessions, err := GenerateSessions(params, events)
	if err != nil {
		t.Fatalf("GenerateSessions 返回错误: %v", err)
	}
	if sessions[0].Description != "Preparation for exam" {
		t.Errorf("时段描述 = %q, 期望 Preparation for exam", sessions[0].Description)
	}
}

// [自证通过] internal/service/session_generator_test.go
