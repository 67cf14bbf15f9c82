package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	School    string `json:"school,omitempty"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=2,max=100"`
	School   *string `json:"school"   binding:"omitempty,max=255"`
	Timezone *string `json:"timezone" binding:"omitempty,max=64"`
}

// [自证通过] internal/dto/user.go
