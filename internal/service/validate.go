package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct 校验结构体，返回 ErrValidation 分类的错误
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return newError(ErrValidation, describeField(verrs[0]))
	}
	return newError(ErrValidation, "请求参数不合法")
}

// validateVar 校验单个值
func validateVar(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return newError(ErrValidation, fmt.Sprintf("%s 不合法", field))
	}
	return nil
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s 为必填项", fe.Field())
	case "max":
		return fmt.Sprintf("%s 超出限制（最大 %s）", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s 过短（最少 %s）", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s 不是合法的邮箱地址", fe.Field())
	case "alphanum":
		return fmt.Sprintf("%s 只能包含字母和数字", fe.Field())
	}
	return fmt.Sprintf("%s 不合法", fe.Field())
}
