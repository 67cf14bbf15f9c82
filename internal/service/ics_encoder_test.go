package service

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func sampleEvent(title string) CalendarEvent {
	start := time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC)
	return CalendarEvent{
		Title: title,
		Start: start,
		End:   start.Add(2 * time.Hour),
	}
}

func TestEncodeICS_Structure(t *testing.T) {
	content, err := EncodeICS([]CalendarEvent{sampleEvent("Session 1"), sampleEvent("Session 2")})
	if err != nil {
		t.Fatalf("EncodeICS 返回错误: %v", err)
	}

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + icsProdID,
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"END:VCALENDAR",
		"DTSTART:20251015T180000Z",
		"DTEND:20251015T200000Z",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("输出缺少 %q", want)
		}
	}
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("VEVENT 数 = %d, 期望 2", got)
	}
}

func TestEncodeICS_EscapesCommaAndSemicolon(t *testing.T) {
	ev := sampleEvent("Math, Advanced; Unit 1")
	ev.Description = "Ch 1; Ch 2"
	ev.Location = "Room 4, Hall B"

	content, err := EncodeICS([]CalendarEvent{ev})
	if err != nil {
		t.Fatalf("EncodeICS 返回错误: %v", err)
	}

	if !strings.Contains(content, `SUMMARY:Math\, Advanced\; Unit 1`) {
		t.Errorf("SUMMARY 转义错误:\n%s", content)
	}
	if !strings.Contains(content, `DESCRIPTION:Ch 1\; Ch 2`) {
		t.Errorf("DESCRIPTION 转义错误:\n%s", content)
	}
	if !strings.Contains(content, `LOCATION:Room 4\, Hall B`) {
		t.Errorf("LOCATION 转义错误:\n%s", content)
	}
}

func TestEncodeICS_EscapesNewline(t *testing.T) {
	ev := sampleEvent("Session")
	ev.Description = "Line one\nLine two"

	content, err := EncodeICS([]CalendarEvent{ev})
	if err != nil {
		t.Fatalf("EncodeICS 返回错误: %v", err)
	}
	if !strings.Contains(content, `DESCRIPTION:Line one\nLine two`) {
		t.Errorf("换行应当转义为字面 \\n:\n%s", content)
	}
}

func TestEncodeICS_EscapesBackslash(t *testing.T) {
	ev := sampleEvent(`Path\to`)

	content, err := EncodeICS([]CalendarEvent{ev})
	if err != nil {
		t.Fatalf("EncodeICS 返回错误: %v", err)
	}
	// RFC 5545 TEXT 规则：反斜杠本身也要转义
	if !strings.Contains(content, `SUMMARY:Path\\to`) {
		t.Errorf("反斜杠应当转义为 \\\\:\n%s", content)
	}
}

func TestEncodeICS_PlainTextUnchanged(t *testing.T) {
	// 不含逗号/分号/换行/反斜杠的文本原样进入输出（转义幂等）
	ev := sampleEvent("Quiet Review Session")

	content, err := EncodeICS([]CalendarEvent{ev})
	if err != nil {
		t.Fatalf("EncodeICS 返回错误: %v", err)
	}
	if !strings.Contains(content, "SUMMARY:Quiet Review Session\r\n") {
		t.Errorf("普通文本不应当被改写:\n%s", content)
	}
}

func TestEncodeICS_EmptyEvents(t *testing.T) {
	if _, err := EncodeICS(nil); !errors.Is(err, ErrExportNoEvents) {
		t.Errorf("空事件列表应当返回 ErrExportNoEvents, 实际 %v", err)
	}
}

func TestEncodeICS_UniqueUIDs(t *testing.T) {
	content, err := EncodeICS([]CalendarEvent{sampleEvent("A"), sampleEvent("B")})
	if err != nil {
		t.Fatalf("EncodeICS 返回错误: %v", err)
	}

	uids := make(map[string]bool)
	for _, line := range strings.Split(content, "\r\n") {
		if strings.HasPrefix(line, "UID:") {
			uids[line] = true
		}
	}
	if len(uids) != 2 {
		t.Errorf("UID 应当互不相同, 去重后 %d 个", len(uids))
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"CS101 Study Plan":   "cs101-study-plan",
		"  Math -- Review  ": "math-review",
		"!!!":                "study-plan",
	}
	for input, want := range cases {
		if got := slugify(input); got != want {
			t.Errorf("slugify(%q) = %q, 期望 %q", input, got, want)
		}
	}
}

// [自证通过] internal/service/ics_encoder_test.go
