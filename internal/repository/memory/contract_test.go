package memory_test

import (
	"testing"

	"github.com/thelucidbox/courseagenda-sub000/internal/repository"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/memory"
	"github.com/thelucidbox/courseagenda-sub000/internal/repository/repotest"
)

// 内存后端必须通过与关系型后端相同的契约测试
// （关系型一侧见 integration 构建标签下的测试）
func TestMemoryBackend_Contract(t *testing.T) {
	repotest.RunContractSuite(t, func(t *testing.T) *repository.Repository {
		return memory.NewRepository()
	})
}
