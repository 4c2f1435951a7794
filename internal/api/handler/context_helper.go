package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"school-ierp/backend/internal/dto"
	apperrors "school-ierp/backend/pkg/errors"
	"school-ierp/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString("user_id")
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetCaller 提取调用方身份（user_id、role、teacher_id）
func MustGetCaller(c *gin.Context) (dto.Caller, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return dto.Caller{}, false
	}
	role := c.GetString("role")
	if role == "" {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Caller{}, false
	}
	return dto.Caller{
		UserID:    userID,
		Role:      role,
		TeacherID: c.GetString("teacher_id"),
	}, true
}

// MustGetTeacherID 提取 teacher_id；非教师账号返回 403
func MustGetTeacherID(c *gin.Context) (string, bool) {
	if _, ok := MustGetUserID(c); !ok {
		return "", false
	}
	teacherID := c.GetString("teacher_id")
	if teacherID == "" {
		response.Forbidden(c, 10003, "当前账号未关联教师")
		return "", false
	}
	return teacherID, true
}

// mustUUIDParam 读取路径参数并校验为 UUID
func mustUUIDParam(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, 10001, label+"格式无效")
		return "", false
	}
	return id, true
}

// respondByKind 未被模块显式处理的错误按类别兜底映射
func respondByKind(c *gin.Context, err error) {
	var appErr *apperrors.Error
	msg := ""
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		response.BadRequest(c, 10001, msg)
	case errors.Is(err, apperrors.ErrForbidden):
		response.Forbidden(c, 10003, msg)
	case errors.Is(err, apperrors.ErrNotFound):
		response.NotFound(c, 10006, msg)
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrInUse):
		response.Conflict(c, 10007, msg)
	default:
		response.InternalError(c)
	}
}
