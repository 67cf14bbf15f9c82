// Package repotest 定义两种存储后端共享的契约测试套件。
//
// 规则：任何后端实现都必须表现出完全一致的对外行为 ——
// 默认字段值、排序保证、"仅写一次"与状态机兜底语义。
// 内存后端在普通测试中运行本套件；关系型后端在 integration
// 构建标签下针对真实 PostgreSQL 运行同一套件。
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
)

// Factory 为每个用例提供一个干净的 Repository
type Factory func(t *testing.T) *repository.Repository

// RunContractSuite 运行全部契约用例
func RunContractSuite(t *testing.T, factory Factory) {
	t.Run("SyllabusDefaultsAndOrdering", func(t *testing.T) { testSyllabusDefaultsAndOrdering(t, factory(t)) })
	t.Run("SyllabusStatusMonotone", func(t *testing.T) { testSyllabusStatusMonotone(t, factory(t)) })
	t.Run("CourseEventOrdering", func(t *testing.T) { testCourseEventOrdering(t, factory(t)) })
	t.Run("StudyPlanOrdering", func(t *testing.T) { testStudyPlanOrdering(t, factory(t)) })
	t.Run("StudySessionOrderingAndSyncOnce", func(t *testing.T) { testStudySessionOrderingAndSyncOnce(t, factory(t)) })
	t.Run("OAuthTokenUpsert", func(t *testing.T) { testOAuthTokenUpsert(t, factory(t)) })
	t.Run("DeleteByParent", func(t *testing.T) { testDeleteByParent(t, factory(t)) })
}

func mustCreateUser(t *testing.T, repo *repository.Repository, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "测试用户", Email: email, PasswordHash: "$2a$10$placeholder"}
	if err := repo.User.Create(context.Background(), u); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

func testSyllabusDefaultsAndOrdering(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "syllabus-order@test.edu")

	older := &model.Syllabus{
		UserID:   user.UserID,
		Filename: "cs101.pdf",
		BaseModel: model.BaseModel{
			CreatedAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	newer := &model.Syllabus{
		UserID:   user.UserID,
		Filename: "math200.pdf",
		BaseModel: model.BaseModel{
			CreatedAt: time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC),
		},
	}
	if err := repo.Syllabus.Create(ctx, older); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}
	if err := repo.Syllabus.Create(ctx, newer); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}

	// 默认状态必须为 uploaded
	got, err := repo.Syllabus.GetByID(ctx, older.SyllabusID)
	if err != nil {
		t.Fatalf("查询大纲失败: %v", err)
	}
	if got.Status != model.SyllabusStatusUploaded {
		t.Errorf("默认 status 期望 uploaded, 实际 %s", got.Status)
	}

	// 列表必须最新在前
	list, err := repo.Syllabus.ListByUser(ctx, user.UserID)
	if err != nil {
		t.Fatalf("查询大纲列表失败: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("大纲数量期望 2, 实际 %d", len(list))
	}
	if list[0].Filename != "math200.pdf" {
		t.Errorf("排序错误: 期望最新的 math200.pdf 在前, 实际 %s", list[0].Filename)
	}
}

func testSyllabusStatusMonotone(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "status-machine@test.edu")

	syl := &model.Syllabus{UserID: user.UserID, Filename: "bio.pdf"}
	if err := repo.Syllabus.Create(ctx, syl); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}

	// uploaded → error
	if err := repo.Syllabus.MarkError(ctx, syl.SyllabusID, "oracle unreachable"); err != nil {
		t.Fatalf("MarkError 失败: %v", err)
	}
	got, _ := repo.Syllabus.GetByID(ctx, syl.SyllabusID)
	if got.Status != model.SyllabusStatusError {
		t.Fatalf("status 期望 error, 实际 %s", got.Status)
	}

	// 终态之后 MarkProcessed 必须不生效
	syl.CourseCode = "BIO101"
	if err := repo.Syllabus.MarkProcessed(ctx, syl); err != nil {
		t.Fatalf("MarkProcessed 返回错误: %v", err)
	}
	got, _ = repo.Syllabus.GetByID(ctx, syl.SyllabusID)
	if got.Status != model.SyllabusStatusError {
		t.Errorf("终态被改写: 期望 error, 实际 %s", got.Status)
	}
	if got.CourseCode == "BIO101" {
		t.Error("终态大纲的元数据不应被改写")
	}
}

func testCourseEventOrdering(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "event-order@test.edu")
	syl := &model.Syllabus{UserID: user.UserID, Filename: "hist.pdf"}
	if err := repo.Syllabus.Create(ctx, syl); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}

	events := []model.CourseEvent{
		{SyllabusID: syl.SyllabusID, Title: "期末考试", EventType: model.EventTypeFinal,
			DueDate: time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC)},
		{SyllabusID: syl.SyllabusID, Title: "第一次作业",
			DueDate: time.Date(2025, 2, 1, 23, 59, 0, 0, time.UTC)},
		{SyllabusID: syl.SyllabusID, Title: "期中考试", EventType: model.EventTypeMidterm,
			DueDate: time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)},
	}
	if err := repo.CourseEvent.BatchCreate(ctx, events); err != nil {
		t.Fatalf("批量创建事件失败: %v", err)
	}

	list, err := repo.CourseEvent.ListBySyllabus(ctx, syl.SyllabusID)
	if err != nil {
		t.Fatalf("查询事件失败: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("事件数量期望 3, 实际 %d", len(list))
	}
	// 截止时间正序
	if list[0].Title != "第一次作业" || list[2].Title != "期末考试" {
		t.Errorf("事件排序错误: %s, %s, %s", list[0].Title, list[1].Title, list[2].Title)
	}
	// 缺省事件类型落到 other
	if list[0].EventType != model.EventTypeOther {
		t.Errorf("默认 event_type 期望 other, 实际 %s", list[0].EventType)
	}
}

func testStudyPlanOrdering(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "plan-order@test.edu")
	syl := &model.Syllabus{UserID: user.UserID, Filename: "chem.pdf"}
	if err := repo.Syllabus.Create(ctx, syl); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}

	first := &model.StudyPlan{
		SyllabusID: syl.SyllabusID, UserID: user.UserID, Title: "旧计划",
		BaseModel: model.BaseModel{CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	second := &model.StudyPlan{
		SyllabusID: syl.SyllabusID, UserID: user.UserID, Title: "新计划",
		BaseModel: model.BaseModel{CreatedAt: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	if err := repo.StudyPlan.Create(ctx, first); err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}
	if err := repo.StudyPlan.Create(ctx, second); err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	// 默认未同步
	got, _ := repo.StudyPlan.GetByID(ctx, first.PlanID)
	if got.CalendarIntegrated {
		t.Error("calendar_integrated 默认应为 false")
	}

	list, err := repo.StudyPlan.ListByUser(ctx, user.UserID)
	if err != nil {
		t.Fatalf("查询计划列表失败: %v", err)
	}
	if len(list) != 2 || list[0].Title != "新计划" {
		t.Errorf("计划排序错误, 首个为 %s", list[0].Title)
	}

	// MarkIntegrated 单向置位
	if err := repo.StudyPlan.MarkIntegrated(ctx, first.PlanID); err != nil {
		t.Fatalf("MarkIntegrated 失败: %v", err)
	}
	got, _ = repo.StudyPlan.GetByID(ctx, first.PlanID)
	if !got.CalendarIntegrated {
		t.Error("calendar_integrated 应已置为 true")
	}
}

func testStudySessionOrderingAndSyncOnce(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "session-order@test.edu")
	syl := &model.Syllabus{UserID: user.UserID, Filename: "phys.pdf"}
	if err := repo.Syllabus.Create(ctx, syl); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}
	plan := &model.StudyPlan{SyllabusID: syl.SyllabusID, UserID: user.UserID, Title: "物理复习"}
	if err := repo.StudyPlan.Create(ctx, plan); err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	late := &model.StudySession{
		PlanID: plan.PlanID, Title: "Study Session 2",
		StartTime: time.Date(2025, 3, 3, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC),
	}
	early := &model.StudySession{
		PlanID: plan.PlanID, Title: "Study Session 1",
		StartTime: time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC),
	}
	if err := repo.StudySession.Create(ctx, late); err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}
	if err := repo.StudySession.Create(ctx, early); err != nil {
		t.Fatalf("创建时段失败: %v", err)
	}

	list, err := repo.StudySession.ListByPlan(ctx, plan.PlanID)
	if err != nil {
		t.Fatalf("查询时段失败: %v", err)
	}
	if len(list) != 2 || list[0].Title != "Study Session 1" {
		t.Errorf("时段排序错误, 首个为 %s", list[0].Title)
	}

	// calendar_event_id 仅写一次
	if err := repo.StudySession.SetCalendarEventID(ctx, early.SessionID, "gcal-1"); err != nil {
		t.Fatalf("SetCalendarEventID 失败: %v", err)
	}
	if err := repo.StudySession.SetCalendarEventID(ctx, early.SessionID, "gcal-2"); err != nil {
		t.Fatalf("SetCalendarEventID 二次调用失败: %v", err)
	}
	got, _ := repo.StudySession.GetByID(ctx, early.SessionID)
	if got.CalendarEventID != "gcal-1" {
		t.Errorf("calendar_event_id 期望保持 gcal-1, 实际 %s", got.CalendarEventID)
	}
}

func testOAuthTokenUpsert(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "oauth@test.edu")

	expiry := time.Now().Add(30 * time.Minute)
	tok := &model.OAuthToken{
		UserID: user.UserID, Provider: model.ProviderGoogle,
		AccessToken: "at-1", RefreshToken: "rt-1", Expiry: &expiry,
	}
	if err := repo.OAuthToken.Upsert(ctx, tok); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}

	// 同一 (user, provider) 覆盖而非新增
	tok2 := &model.OAuthToken{
		UserID: user.UserID, Provider: model.ProviderGoogle,
		AccessToken: "at-2", RefreshToken: "rt-1", Expiry: &expiry,
	}
	if err := repo.OAuthToken.Upsert(ctx, tok2); err != nil {
		t.Fatalf("二次 Upsert 失败: %v", err)
	}

	got, err := repo.OAuthToken.GetByUserAndProvider(ctx, user.UserID, model.ProviderGoogle)
	if err != nil {
		t.Fatalf("查询令牌失败: %v", err)
	}
	if got.AccessToken != "at-2" {
		t.Errorf("access_token 期望 at-2, 实际 %s", got.AccessToken)
	}

	// 即将过期的令牌应被刷新任务看到
	expiring, err := repo.OAuthToken.ListExpiring(ctx, time.Hour)
	if err != nil {
		t.Fatalf("ListExpiring 失败: %v", err)
	}
	found := false
	for _, e := range expiring {
		if e.UserID == user.UserID {
			found = true
		}
	}
	if !found {
		t.Error("即将过期的令牌未出现在 ListExpiring 结果中")
	}
}

func testDeleteByParent(t *testing.T, repo *repository.Repository) {
	ctx := context.Background()
	user := mustCreateUser(t, repo, "cascade@test.edu")
	syl := &model.Syllabus{UserID: user.UserID, Filename: "x.pdf"}
	if err := repo.Syllabus.Create(ctx, syl); err != nil {
		t.Fatalf("创建大纲失败: %v", err)
	}
	plan := &model.StudyPlan{SyllabusID: syl.SyllabusID, UserID: user.UserID, Title: "plan"}
	if err := repo.StudyPlan.Create(ctx, plan); err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	if err := repo.CourseEvent.BatchCreate(ctx, []model.CourseEvent{
		{SyllabusID: syl.SyllabusID, Title: "ev1", DueDate: time.Now()},
		{SyllabusID: syl.SyllabusID, Title: "ev2", DueDate: time.Now()},
	}); err != nil {
		t.Fatalf("批量创建事件失败: %v", err)
	}
	for i := 0; i < 2; i++ {
		s := &model.StudySession{
			PlanID:    plan.PlanID,
			Title:     "s",
			StartTime: time.Now(),
			EndTime:   time.Now().Add(time.Hour),
		}
		if err := repo.StudySession.Create(ctx, s); err != nil {
			t.Fatalf("创建时段失败: %v", err)
		}
	}

	if err := repo.StudySession.DeleteByPlan(ctx, plan.PlanID); err != nil {
		t.Fatalf("DeleteByPlan 失败: %v", err)
	}
	if err := repo.CourseEvent.DeleteBySyllabus(ctx, syl.SyllabusID); err != nil {
		t.Fatalf("DeleteBySyllabus 失败: %v", err)
	}

	sessions, _ := repo.StudySession.ListByPlan(ctx, plan.PlanID)
	if len(sessions) != 0 {
		t.Errorf("时段应已清空, 剩余 %d", len(sessions))
	}
	events, _ := repo.CourseEvent.ListBySyllabus(ctx, syl.SyllabusID)
	if len(events) != 0 {
		t.Errorf("事件应已清空, 剩余 %d", len(events))
	}
}
