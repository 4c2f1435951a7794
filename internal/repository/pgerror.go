package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	pkgerrors "school-ierp/backend/pkg/errors"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// 迁移中定义的约束名
const (
	constraintPeriodSlot    = "uq_periods_slot"
	constraintPeriodTeacher = "uq_periods_teacher"
)

// translateError 将约束违例翻译为存储层哨兵错误，其余错误原样返回
func translateError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		switch pgErr.ConstraintName {
		case constraintPeriodSlot:
			return fmt.Errorf("%w: %s", pkgerrors.ErrUniquePeriodSlot, pgErr.Detail)
		case constraintPeriodTeacher:
			return fmt.Errorf("%w: %s", pkgerrors.ErrUniquePeriodTeacher, pgErr.Detail)
		}
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s", pkgerrors.ErrForeignKeyViolation, pgErr.ConstraintName)
	}
	return err
}
