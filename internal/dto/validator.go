package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsClock 判断是否为 24 小时制零填充的 HH:MM
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// RegisterValidators 注册自定义 binding 标签
//   - hhmm: 24 小时制 HH:MM
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	})
}
