package service

import (
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/thelucidbox/courseagenda-sub000/internal/dto"
	"github.com/thelucidbox/courseagenda-sub000/internal/model"
)

// ── 提醒提前量（分钟） ──
//
// 考试类提前一周，作业类提前一天，学习时段/课堂提前半小时。
const (
	reminderExamMinutes     = 10080
	reminderDeadlineMinutes = 1440
	reminderSessionMinutes  = 30
)

// 非课程事件的导出类型标记
const (
	eventTypeSession = "session"
	eventTypeClass   = "class"
)

// reminderMinutes 按事件类型决定提醒提前量
func reminderMinutes(eventType string) int {
	switch eventType {
	case model.EventTypeExam, model.EventTypeMidterm, model.EventTypeFinal:
		return reminderExamMinutes
	case model.EventTypeAssignment, model.EventTypeHomework, model.EventTypeQuiz,
		model.EventTypeProject, model.EventTypePresentation, model.EventTypePaper:
		return reminderDeadlineMinutes
	default:
		return reminderSessionMinutes
	}
}

// googleColorID 按事件类型分配 Google 日历颜色。
// 11=红（考试）、5=黄（作业类）、9=蓝（学习时段等）
func googleColorID(eventType string) string {
	switch eventType {
	case model.EventTypeExam, model.EventTypeMidterm, model.EventTypeFinal:
		return "11"
	case model.EventTypeAssignment, model.EventTypeHomework, model.EventTypeQuiz,
		model.EventTypeProject, model.EventTypePresentation, model.EventTypePaper:
		return "5"
	default:
		return "9"
	}
}

// toGoogleEvent CalendarEvent → Google Calendar API 事件
// 时间带 IANA 时区，提醒用显式 override 替代日历默认值
func toGoogleEvent(ev CalendarEvent, timezone string) *calendar.Event {
	return &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		ColorId:     googleColorID(ev.EventType),
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
			TimeZone: timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
			TimeZone: timezone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: int64(reminderMinutes(ev.EventType))},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// toOutlookEvent CalendarEvent → Microsoft Graph 事件形状。
// Graph 的 dateTime 不含偏移量，时区放在 timeZone 字段。
func toOutlookEvent(ev CalendarEvent, timezone string) dto.OutlookEvent {
	return dto.OutlookEvent{
		Subject: ev.Title,
		Body: dto.OutlookItemBody{
			ContentType: "text",
			Content:     ev.Description,
		},
		Start: dto.OutlookDateTimeZone{
			DateTime: ev.Start.Format("2006-01-02T15:04:05"),
			TimeZone: timezone,
		},
		End: dto.OutlookDateTimeZone{
			DateTime: ev.End.Format("2006-01-02T15:04:05"),
			TimeZone: timezone,
		},
		Location:                   dto.OutlookLocation{DisplayName: ev.Location},
		IsReminderOn:               true,
		ReminderMinutesBeforeStart: reminderMinutes(ev.EventType),
	}
}

// [自证通过] internal/service/provider_payload.go
