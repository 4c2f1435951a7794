package service

import (
	"context"

	"go.uber.org/zap"

	"school-ierp/backend/internal/dto"
	"school-ierp/backend/internal/repository"
	"school-ierp/backend/pkg/jwt"
)

// AccessService 课表写操作的访问策略
//
//   - admin 可管理任意班级课表
//   - teacher 仅可管理自己担任班主任的 (班级, 分班)
//   - 其他角色只读
type AccessService interface {
	// CanManage 允许时返回 nil，否则返回 ErrAccessDenied
	CanManage(ctx context.Context, caller dto.Caller, classID, sectionID string) error
}

type accessService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAccessService 创建 AccessService 实例
func NewAccessService(repo *repository.Repository, logger *zap.Logger) AccessService {
	return &accessService{repo: repo, logger: logger}
}

func (s *accessService) CanManage(ctx context.Context, caller dto.Caller, classID, sectionID string) error {
	switch caller.Role {
	case jwt.RoleAdmin:
		return nil
	case jwt.RoleTeacher:
		if caller.TeacherID == "" {
			return ErrAccessDenied
		}
		ok, err := s.repo.ClassTeacherAssignment.Exists(ctx, caller.TeacherID, classID, sectionID)
		if err != nil {
			s.logger.Error("查询班主任分配失败",
				zap.String("teacherID", caller.TeacherID),
				zap.String("classID", classID),
				zap.String("sectionID", sectionID),
				zap.Error(err))
			return err
		}
		if !ok {
			return ErrAccessDenied
		}
		return nil
	default:
		return ErrAccessDenied
	}
}
