package errors

import "errors"

// ── 错误类别 ──
// 业务层的具体错误通过 New 归入以下类别之一，Handler 层按类别映射 HTTP 状态码。

var (
	ErrValidation = errors.New("参数校验失败")
	ErrNotFound   = errors.New("资源不存在")
	ErrConflict   = errors.New("排课冲突")
	ErrInUse      = errors.New("资源仍被引用")
	ErrForbidden  = errors.New("无权限操作")
)

// Error 带类别的业务错误
type Error struct {
	Kind    error
	Message string
}

// New 创建归属于 kind 类别的业务错误
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

// Unwrap 使 errors.Is(err, ErrNotFound) 等类别判断成立
func (e *Error) Unwrap() error { return e.Kind }

// ── 存储层约束错误 ──
// Repository 将数据库约束违例翻译为以下哨兵错误，Service 层再映射为业务错误。

var (
	// ErrUniquePeriodSlot 违反 uq_periods_slot：同一课表同一天同一时间段已有课节
	ErrUniquePeriodSlot = errors.New("课表时间段已被占用")
	// ErrUniquePeriodTeacher 违反 uq_periods_teacher：教师同一天同一时间段已有课节
	ErrUniquePeriodTeacher = errors.New("教师在该时间段已有课节")
	// ErrForeignKeyViolation 外键约束违例（如删除仍被课节引用的时间段）
	ErrForeignKeyViolation = errors.New("外键约束冲突")
)
