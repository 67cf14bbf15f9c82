package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thelucidbox/courseagenda-sub000/internal/dto"
	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/oracle"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
)

// ── 大纲模块业务错误 ──

var (
	ErrSyllabusNotFound = errors.New("大纲不存在")
	ErrEventNotFound    = errors.New("课程事件不存在")
	ErrNotOwner         = errors.New("无权访问该资源")
)

// SyllabusService 大纲业务接口
//
// 设计说明：
//   - 上传立即返回 status=uploaded，抽取在独立 goroutine 中异步完成
//     （detach 自请求上下文，请求结束不会打断抽取）
//   - 抽取不支持取消：一旦开始，运行至成功或失败
//   - 状态迁移 uploaded→processed / uploaded→error 由仓储层的
//     条件更新保证单向，重复回写是无操作
type SyllabusService interface {
	UploadText(ctx context.Context, userID string, req *dto.UploadTextRequest) (*dto.SyllabusResponse, error)
	UploadPDF(ctx context.Context, userID, filename string, pdf []byte) (*dto.SyllabusResponse, error)
	Get(ctx context.Context, userID, syllabusID string) (*dto.SyllabusResponse, error)
	List(ctx context.Context, userID string) ([]dto.SyllabusResponse, error)
	Update(ctx context.Context, userID, syllabusID string, req *dto.UpdateSyllabusRequest) (*dto.SyllabusResponse, error)
	Delete(ctx context.Context, userID, syllabusID string) error

	CreateEvent(ctx context.Context, userID, syllabusID string, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, userID, eventID string) error
}

type syllabusService struct {
	repo      *repository.Repository
	extractor oracle.Extractor
	logger    *zap.Logger
}

// NewSyllabusService 创建 SyllabusService 实例
func NewSyllabusService(repo *repository.Repository, extractor oracle.Extractor, logger *zap.Logger) SyllabusService {
	return &syllabusService{repo: repo, extractor: extractor, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// 上传与异步抽取
// ═══════════════════════════════════════════════════════════

func (s *syllabusService) UploadText(ctx context.Context, userID string, req *dto.UploadTextRequest) (*dto.SyllabusResponse, error) {
	syl := &model.Syllabus{
		UserID:   userID,
		Filename: req.Filename,
		Status:   model.SyllabusStatusUploaded,
	}
	if err := s.repo.Syllabus.Create(ctx, syl); err != nil {
		s.logger.Error("创建大纲记录失败", zap.Error(err))
		return nil, err
	}

	text := req.Text
	go s.process(syl.SyllabusID, func(ctx context.Context) (*oracle.Result, error) {
		return s.extractor.ExtractText(ctx, text)
	})

	resp := toSyllabusResponse(syl, nil)
	return &resp, nil
}

func (s *syllabusService) UploadPDF(ctx context.Context, userID, filename string, pdf []byte) (*dto.SyllabusResponse, error) {
	syl := &model.Syllabus{
		UserID:   userID,
		Filename: filename,
		Status:   model.SyllabusStatusUploaded,
	}
	if err := s.repo.Syllabus.Create(ctx, syl); err != nil {
		s.logger.Error("创建大纲记录失败", zap.Error(err))
		return nil, err
	}

	go s.process(syl.SyllabusID, func(ctx context.Context) (*oracle.Result, error) {
		return s.extractor.ExtractPDF(ctx, pdf)
	})

	resp := toSyllabusResponse(syl, nil)
	return &resp, nil
}

// process 后台抽取。自带全新 context，生命周期独立于触发它的 HTTP 请求。
func (s *syllabusService) process(syllabusID string, extract func(context.Context) (*oracle.Result, error)) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("抽取协程 panic", zap.Any("panic", r), zap.String("syllabus_id", syllabusID))
			_ = s.repo.Syllabus.MarkError(context.Background(), syllabusID, "internal error")
		}
	}()
	s.runExtraction(context.Background(), syllabusID, extract)
}

// runExtraction 执行一次抽取并落库结果
func (s *syllabusService) runExtraction(ctx context.Context, syllabusID string, extract func(context.Context) (*oracle.Result, error)) {
	result, err := extract(ctx)
	if err != nil {
		s.logger.Warn("大纲抽取失败", zap.String("syllabus_id", syllabusID), zap.Error(err))
		if mErr := s.repo.Syllabus.MarkError(ctx, syllabusID, err.Error()); mErr != nil {
			s.logger.Error("标记大纲失败状态失败", zap.Error(mErr))
		}
		return
	}

	syl, err := s.repo.Syllabus.GetByID(ctx, syllabusID)
	if err != nil {
		// 上传后被立刻删除的竞态，放弃结果即可
		s.logger.Warn("抽取完成但大纲已不存在", zap.String("syllabus_id", syllabusID))
		return
	}

	syl.CourseCode = result.CourseCode
	syl.CourseName = result.CourseName
	syl.Instructor = result.Instructor
	syl.Term = result.Term
	if err := s.repo.Syllabus.MarkProcessed(ctx, syl); err != nil {
		s.logger.Error("标记大纲处理完成失败", zap.Error(err))
		return
	}

	if len(result.Events) == 0 {
		s.logger.Info("大纲抽取完成，未发现事件", zap.String("syllabus_id", syllabusID))
		return
	}

	events := make([]model.CourseEvent, 0, len(result.Events))
	for _, ev := range result.Events {
		events = append(events, model.CourseEvent{
			SyllabusID:  syllabusID,
			EventType:   normalizeEventType(ev.EventType),
			Title:       ev.Title,
			DueDate:     oracle.CoerceDueDate(ev.DueDate),
			Description: ev.Description,
		})
	}
	if err := s.repo.CourseEvent.BatchCreate(ctx, events); err != nil {
		s.logger.Error("批量写入课程事件失败", zap.Error(err))
		return
	}
	s.logger.Info("大纲抽取完成",
		zap.String("syllabus_id", syllabusID),
		zap.Int("event_count", len(events)))
}

// normalizeEventType 类型词表开放：未知值保留原文（小写），空值落 other
func normalizeEventType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return model.EventTypeOther
	}
	return t
}

// ═══════════════════════════════════════════════════════════
// 查询 / 更新 / 删除
// ═══════════════════════════════════════════════════════════

func (s *syllabusService) Get(ctx context.Context, userID, syllabusID string) (*dto.SyllabusResponse, error) {
	syl, err := s.getOwned(ctx, userID, syllabusID)
	if err != nil {
		return nil, err
	}
	events, err := s.repo.CourseEvent.ListBySyllabus(ctx, syllabusID)
	if err != nil {
		s.logger.Error("查询课程事件失败", zap.Error(err))
		return nil, err
	}
	resp := toSyllabusResponse(syl, events)
	return &resp, nil
}

func (s *syllabusService) List(ctx context.Context, userID string) ([]dto.SyllabusResponse, error) {
	syllabi, err := s.repo.Syllabus.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询大纲列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SyllabusResponse, 0, len(syllabi))
	for i := range syllabi {
		result = append(result, toSyllabusResponse(&syllabi[i], nil))
	}
	return result, nil
}

func (s *syllabusService) Update(ctx context.Context, userID, syllabusID string, req *dto.UpdateSyllabusRequest) (*dto.SyllabusResponse, error) {
	syl, err := s.getOwned(ctx, userID, syllabusID)
	if err != nil {
		return nil, err
	}

	if req.CourseCode != nil {
		syl.CourseCode = *req.CourseCode
	}
	if req.CourseName != nil {
		syl.CourseName = *req.CourseName
	}
	if req.Instructor != nil {
		syl.Instructor = *req.Instructor
	}
	if req.Term != nil {
		syl.Term = *req.Term
	}
	if req.FirstClassDay != nil {
		d, err := time.Parse("2006-01-02", *req.FirstClassDay)
		if err != nil {
			return nil, err
		}
		syl.FirstClassDay = &d
	}
	if req.LastClassDay != nil {
		d, err := time.Parse("2006-01-02", *req.LastClassDay)
		if err != nil {
			return nil, err
		}
		syl.LastClassDay = &d
	}
	if req.MeetingDays != nil {
		syl.MeetingDays = model.IntArray(req.MeetingDays)
	}
	if req.ClassStartTime != nil {
		syl.ClassStartTime = *req.ClassStartTime
	}
	if req.ClassEndTime != nil {
		syl.ClassEndTime = *req.ClassEndTime
	}

	if err := s.repo.Syllabus.Update(ctx, syl); err != nil {
		s.logger.Error("更新大纲失败", zap.Error(err))
		return nil, err
	}
	resp := toSyllabusResponse(syl, nil)
	return &resp, nil
}

func (s *syllabusService) Delete(ctx context.Context, userID, syllabusID string) error {
	if _, err := s.getOwned(ctx, userID, syllabusID); err != nil {
		return err
	}

	// 先清理依赖该大纲的学习计划及时段，再删事件，最后删大纲
	plans, err := s.repo.StudyPlan.ListBySyllabus(ctx, syllabusID)
	if err != nil {
		return err
	}
	for _, plan := range plans {
		if err := s.repo.StudySession.DeleteByPlan(ctx, plan.PlanID); err != nil {
			return err
		}
		if err := s.repo.StudyPlan.Delete(ctx, plan.PlanID); err != nil {
			return err
		}
	}
	if err := s.repo.CourseEvent.DeleteBySyllabus(ctx, syllabusID); err != nil {
		return err
	}
	return s.repo.Syllabus.Delete(ctx, syllabusID)
}

// getOwned 查询并校验归属
func (s *syllabusService) getOwned(ctx context.Context, userID, syllabusID string) (*model.Syllabus, error) {
	syl, err := s.repo.Syllabus.GetByID(ctx, syllabusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyllabusNotFound
		}
		s.logger.Error("查询大纲失败", zap.Error(err))
		return nil, err
	}
	if syl.UserID != userID {
		return nil, ErrNotOwner
	}
	return syl, nil
}

// ═══════════════════════════════════════════════════════════
// 课程事件的手工维护
// ═══════════════════════════════════════════════════════════

func (s *syllabusService) CreateEvent(ctx context.Context, userID, syllabusID string, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if _, err := s.getOwned(ctx, userID, syllabusID); err != nil {
		return nil, err
	}

	event := &model.CourseEvent{
		SyllabusID:  syllabusID,
		EventType:   normalizeEventType(req.EventType),
		Title:       req.Title,
		DueDate:     oracle.CoerceDueDate(req.DueDate),
		Description: req.Description,
	}
	if err := s.repo.CourseEvent.Create(ctx, event); err != nil {
		s.logger.Error("创建课程事件失败", zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *syllabusService) UpdateEvent(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.getOwnedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.EventType != nil {
		event.EventType = normalizeEventType(*req.EventType)
	}
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.DueDate != nil {
		event.DueDate = oracle.CoerceDueDate(*req.DueDate)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}

	if err := s.repo.CourseEvent.Update(ctx, event); err != nil {
		s.logger.Error("更新课程事件失败", zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

func (s *syllabusService) DeleteEvent(ctx context.Context, userID, eventID string) error {
	if _, err := s.getOwnedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	return s.repo.CourseEvent.Delete(ctx, eventID)
}

// getOwnedEvent 经所属大纲校验事件归属
func (s *syllabusService) getOwnedEvent(ctx context.Context, userID, eventID string) (*model.CourseEvent, error) {
	event, err := s.repo.CourseEvent.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if _, err := s.getOwned(ctx, userID, event.SyllabusID); err != nil {
		return nil, err
	}
	return event, nil
}

// ── model → DTO ──

func toSyllabusResponse(syl *model.Syllabus, events []model.CourseEvent) dto.SyllabusResponse {
	resp := dto.SyllabusResponse{
		ID:             syl.SyllabusID,
		Filename:       syl.Filename,
		Status:         syl.Status,
		CourseCode:     syl.CourseCode,
		CourseName:     syl.CourseName,
		Instructor:     syl.Instructor,
		Term:           syl.Term,
		MeetingDays:    []int(syl.MeetingDays),
		ClassStartTime: syl.ClassStartTime,
		ClassEndTime:   syl.ClassEndTime,
		GoogleLinked:   syl.GoogleLinked,
		OutlookLinked:  syl.OutlookLinked,
		ErrorDetail:    syl.ErrorDetail,
		CreatedAt:      syl.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if syl.FirstClassDay != nil {
		resp.FirstClassDay = syl.FirstClassDay.Format("2006-01-02")
	}
	if syl.LastClassDay != nil {
		resp.LastClassDay = syl.LastClassDay.Format("2006-01-02")
	}
	for i := range events {
		resp.Events = append(resp.Events, toEventResponse(&events[i]))
	}
	return resp
}

func toEventResponse(event *model.CourseEvent) dto.EventResponse {
	return dto.EventResponse{
		ID:          event.EventID,
		SyllabusID:  event.SyllabusID,
		EventType:   event.EventType,
		Title:       event.Title,
		DueDate:     event.DueDate.Format(time.RFC3339),
		Description: event.Description,
	}
}

// [自证通过] internal/service/syllabus_service.go
