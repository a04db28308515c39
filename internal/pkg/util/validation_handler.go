package util

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// FieldError 第一条未通过的校验规则
type FieldError struct {
	Field string
	Tag   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("字段 [%s] 校验失败，规则 [%s]", e.Field, e.Tag)
}

// ValidateDTO 校验请求体，只返回第一条失败原因
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			return &FieldError{Field: vErrs[0].Field(), Tag: vErrs[0].Tag()}
		}
		return err
	}
	return nil
}
