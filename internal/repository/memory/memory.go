// Package memory 提供 Repository 的进程内内存实现。
//
// 仅面向开发与单进程部署：无持久化、无跨进程事务保证。
//对外可观测行为（默认值、排序、未找到错误）与关系型后端保持一致，
// 未找到统一返回 gorm.ErrRecordNotFound，上层服务无需区分后端。
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
)

// store 六类实体共享一把锁：写入频率低，粗粒度足够
type store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	syllabi  map[string]model.Syllabus
	events   map[string]model.CourseEvent
	plans    map[string]model.StudyPlan
	sessions map[string]model.StudySession
	tokens   map[string]model.OAuthToken
}

// NewRepository 创建内存后端的 Repository 聚合
func NewRepository() *repository.Repository {
	s := &store{
		users:    make(map[string]model.User),
		syllabi:  make(map[string]model.Syllabus),
		events:   make(map[string]model.CourseEvent),
		plans:    make(map[string]model.StudyPlan),
		sessions: make(map[string]model.StudySession),
		tokens:   make(map[string]model.OAuthToken),
	}
	return &repository.Repository{
		User:         &userRepo{s: s},
		Syllabus:     &syllabusRepo{s: s},
		CourseEvent:  &courseEventRepo{s: s},
		StudyPlan:    &studyPlanRepo{s: s},
		StudySession: &studySessionRepo{s: s},
		OAuthToken:   &oauthTokenRepo{s: s},
	}
}

// errNotFound 与关系型后端保持同一错误语义
var errNotFound = gorm.ErrRecordNotFound

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func stampCreate(base *model.BaseModel) {
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// sortNewestFirst created_at 相同（同一批写入在同一纳秒内极少见，
// 但内存后端时间精度高）时退化为稳定排序
func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
