package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/dto"
	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrNoProviderToken    = errors.New("尚未关联该日历提供方")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 日历导出业务接口
//
// 设计说明：
//   - ICS / Excel 以 bytes.Buffer 返回，由 Handler 层设置响应头后写出
//   - Google 同步直接调用 Calendar API；Outlook 只产出 Graph 事件载荷，
//     由前端持用户令牌提交（本服务不直连 Graph）
//   - 每个时段的 calendar_event_id 只写一次：已同步过的时段跳过，
//     重复同步不会在提供方产生重复事件
type ExportService interface {
	// DownloadICS 导出计划为 ICS 文件
	DownloadICS(ctx context.Context, userID, planID string) (*bytes.Buffer, string, error)
	// DownloadXLSX 导出计划总览为 Excel
	DownloadXLSX(ctx context.Context, userID, planID string) (*bytes.Buffer, string, error)
	// SaveToken 保存外部授权流程取得的提供方令牌
	SaveToken(ctx context.Context, userID string, req *dto.SaveTokenRequest) error
	// SyncGoogle 把计划时段逐条写入用户的 Google 日历
	SyncGoogle(ctx context.Context, userID, planID string) (*dto.GoogleSyncResponse, error)
	// OutlookPayload 产出 Microsoft Graph 事件载荷
	OutlookPayload(ctx context.Context, userID, planID string) (*dto.OutlookPayloadResponse, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	// newCalendarService 可在测试中替换，生产环境指向真实 Calendar API
	newCalendarService func(ctx context.Context, client *oauth2.Token, cfg *oauth2.Config) (googleCalendarInserter, error)
}

// googleCalendarInserter Calendar API 中本服务用到的最小切面
type googleCalendarInserter interface {
	Insert(ctx context.Context, event *calendar.Event) (string, error)
}

type calendarAPIClient struct {
	svc *calendar.Service
}

func (c *calendarAPIClient) Insert(ctx context.Context, event *calendar.Event) (string, error) {
	created, err := c.svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		newCalendarService: func(ctx context.Context, token *oauth2.Token, oauthCfg *oauth2.Config) (googleCalendarInserter, error) {
			client := oauth2.NewClient(ctx, oauthCfg.TokenSource(ctx, token))
			svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
			if err != nil {
				return nil, err
			}
			return &calendarAPIClient{svc: svc}, nil
		},
	}
}

// ═══════════════════════════════════════════════════════════
// ICS / Excel 下载
// ═══════════════════════════════════════════════════════════

func (s *exportService) DownloadICS(ctx context.Context, userID, planID string) (*bytes.Buffer, string, error) {
	plan, syl, sessions, err := s.loadPlan(ctx, userID, planID)
	if err != nil {
		return nil, "", err
	}
	loc := s.userLocation(ctx, userID)

	events := s.collectEvents(ctx, syl, sessions, loc)
	content, err := EncodeICS(events)
	if err != nil {
		return nil, "", err
	}

	if err := s.repo.StudyPlan.MarkIntegrated(ctx, planID); err != nil {
		s.logger.Warn("标记日历集成状态失败", zap.Error(err))
	}

	filename := fmt.Sprintf("%s.ics", slugify(plan.Title))
	return bytes.NewBufferString(content), filename, nil
}

func (s *exportService) DownloadXLSX(ctx context.Context, userID, planID string) (*bytes.Buffer, string, error) {
	plan, _, sessions, err := s.loadPlan(ctx, userID, planID)
	if err != nil {
		return nil, "", err
	}
	if len(sessions) == 0 {
		return nil, "", ErrExportNoEvents
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Study Plan"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", "B", 40)
	f.SetColWidth(sheetName, "C", "D", 20)
	f.SetColWidth(sheetName, "E", "E", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", plan.Title)
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"#", "Session", "Start", "End", "Type"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
	}

	// 数据行
	for i, session := range sessions {
		row := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), session.Title)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), session.StartTime.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), session.EndTime.Format("2006-01-02 15:04"))
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), session.EventType)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s.xlsx", slugify(plan.Title))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// 提供方令牌与同步
// ═══════════════════════════════════════════════════════════

func (s *exportService) SaveToken(ctx context.Context, userID string, req *dto.SaveTokenRequest) error {
	token := &model.OAuthToken{
		UserID:       userID,
		Provider:     req.Provider,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
	}
	if req.Expiry != "" {
		t, err := time.Parse(time.RFC3339, req.Expiry)
		if err != nil {
			return fmt.Errorf("expiry 格式错误: %w", err)
		}
		token.Expiry = &t
	}
	if err := s.repo.OAuthToken.Upsert(ctx, token); err != nil {
		s.logger.Error("保存提供方令牌失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *exportService) SyncGoogle(ctx context.Context, userID, planID string) (*dto.GoogleSyncResponse, error) {
	_, syl, sessions, err := s.loadPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.OAuthToken.GetByUserAndProvider(ctx, userID, model.ProviderGoogle)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoProviderToken
		}
		return nil, err
	}

	oauthCfg := s.googleOAuthConfig()
	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
	}
	if stored.Expiry != nil {
		token.Expiry = *stored.Expiry
	}

	client, err := s.newCalendarService(ctx, token, oauthCfg)
	if err != nil {
		s.logger.Error("创建 Calendar 客户端失败", zap.Error(err))
		return nil, err
	}

	loc := s.userLocation(ctx, userID)
	timezone := s.userTimezone(ctx, userID)

	synced, skipped := 0, 0
	for i := range sessions {
		session := &sessions[i]
		if session.CalendarEventID != "" {
			skipped++
			continue
		}
		ev := sessionToCalendarEvent(session, loc)
		eventID, err := client.Insert(ctx, toGoogleEvent(ev, timezone))
		if err != nil {
			// 单条失败不中断：剩余时段继续同步，失败的留待下次
			s.logger.Warn("同步时段到 Google 日历失败",
				zap.String("session_id", session.SessionID), zap.Error(err))
			continue
		}
		if err := s.repo.StudySession.SetCalendarEventID(ctx, session.SessionID, eventID); err != nil {
			s.logger.Warn("记录日历事件 ID 失败", zap.Error(err))
		}
		synced++
	}

	if synced > 0 {
		if err := s.repo.StudyPlan.MarkIntegrated(ctx, planID); err != nil {
			s.logger.Warn("标记日历集成状态失败", zap.Error(err))
		}
		if !syl.GoogleLinked {
			syl.GoogleLinked = true
			if err := s.repo.Syllabus.Update(ctx, syl); err != nil {
				s.logger.Warn("更新大纲 Google 关联标记失败", zap.Error(err))
			}
		}
	}

	return &dto.GoogleSyncResponse{
		PlanID:       planID,
		SyncedCount:  synced,
		SkippedCount: skipped,
	}, nil
}

func (s *exportService) OutlookPayload(ctx context.Context, userID, planID string) (*dto.OutlookPayloadResponse, error) {
	_, syl, sessions, err := s.loadPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, ErrExportNoEvents
	}

	loc := s.userLocation(ctx, userID)
	timezone := s.userTimezone(ctx, userID)

	events := make([]dto.OutlookEvent, 0, len(sessions))
	for i := range sessions {
		ev := sessionToCalendarEvent(&sessions[i], loc)
		events = append(events, toOutlookEvent(ev, timezone))
	}

	if !syl.OutlookLinked {
		syl.OutlookLinked = true
		if err := s.repo.Syllabus.Update(ctx, syl); err != nil {
			s.logger.Warn("更新大纲 Outlook 关联标记失败", zap.Error(err))
		}
	}

	return &dto.OutlookPayloadResponse{PlanID: planID, Events: events}, nil
}

// ═══════════════════════════════════════════════════════════
// 内部辅助
// ═══════════════════════════════════════════════════════════

// loadPlan 加载计划 + 所属大纲 + 时段，并校验归属
func (s *exportService) loadPlan(ctx context.Context, userID, planID string) (*model.StudyPlan, *model.Syllabus, []model.StudySession, error) {
	plan, err := s.repo.StudyPlan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrPlanNotFound
		}
		return nil, nil, nil, err
	}
	if plan.UserID != userID {
		return nil, nil, nil, ErrNotOwner
	}
	syl, err := s.repo.Syllabus.GetByID(ctx, plan.SyllabusID)
	if err != nil {
		return nil, nil, nil, err
	}
	sessions, err := s.repo.StudySession.ListByPlan(ctx, planID)
	if err != nil {
		return nil, nil, nil, err
	}
	return plan, syl, sessions, nil
}

// collectEvents 组装 ICS 导出的完整事件集：
// 学习时段 + 大纲课程事件 + 展开后的课堂事件
func (s *exportService) collectEvents(ctx context.Context, syl *model.Syllabus, sessions []model.StudySession, loc *time.Location) []CalendarEvent {
	events := make([]CalendarEvent, 0, len(sessions))
	for i := range sessions {
		events = append(events, sessionToCalendarEvent(&sessions[i], loc))
	}

	courseEvents, err := s.repo.CourseEvent.ListBySyllabus(ctx, syl.SyllabusID)
	if err != nil {
		s.logger.Warn("查询课程事件失败，导出中省略", zap.Error(err))
	}
	for i := range courseEvents {
		events = append(events, courseEventToCalendarEvent(&courseEvents[i], loc))
	}

	events = append(events, ExpandClassMeetings(syl, loc)...)
	return events
}

// sessionToCalendarEvent 学习时段固定按 "session" 类型导出：提醒提前量
// 取时段默认值，不继承所关联课程事件的类型（备考时段不需要考试级提醒）
func sessionToCalendarEvent(session *model.StudySession, loc *time.Location) CalendarEvent {
	return CalendarEvent{
		Title:       session.Title,
		Description: session.Description,
		Location:    session.Location,
		Start:       session.StartTime.In(loc),
		End:         session.EndTime.In(loc),
		EventType:   eventTypeSession,
	}
}

// courseEventToCalendarEvent 截止类事件在日历上占截止前一小时
func courseEventToCalendarEvent(event *model.CourseEvent, loc *time.Location) CalendarEvent {
	due := event.DueDate.In(loc)
	return CalendarEvent{
		Title:       event.Title,
		Description: event.Description,
		Start:       due.Add(-time.Hour),
		End:         due,
		EventType:   event.EventType,
	}
}

// userLocation 用户时区，解析失败回退 UTC
func (s *exportService) userLocation(ctx context.Context, userID string) *time.Location {
	loc, err := time.LoadLocation(s.userTimezone(ctx, userID))
	if err != nil {
		return time.UTC
	}
	return loc
}

func (s *exportService) userTimezone(ctx context.Context, userID string) string {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil || user.Timezone == "" {
		return "UTC"
	}
	return user.Timezone
}

func (s *exportService) googleOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.Google.ClientID,
		ClientSecret: s.cfg.Google.ClientSecret,
		RedirectURL:  s.cfg.Google.RedirectURL,
		Scopes:       []string{calendar.CalendarEventsScope},
		Endpoint:     google.Endpoint,
	}
}

// [自证通过] internal/service/export_service.go
