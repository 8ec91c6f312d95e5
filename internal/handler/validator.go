package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/classhub/classhub-web/internal/phone"
)

// FormValidator adapts go-playground/validator to echo.Validator.  Field
// names in errors are the form names, so messages map onto inputs.
type FormValidator struct {
	v *validator.Validate
}

// NewValidator returns a validator with the krphone tag registered.
func NewValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("krphone", func(fl validator.FieldLevel) bool {
		return phone.Valid(fl.Field().String())
	})
	return &FormValidator{v: v}
}

func (fv *FormValidator) Validate(i interface{}) error {
	return fv.v.Struct(i)
}

// fieldMessages are the user-facing texts per form field; tagMessages
// override them for one tag.
var (
	fieldMessages = map[string]string{
		"sessionId":     "일정을 선택해주세요.",
		"applicantName": "이름을 입력해주세요.",
		"name":          "이름을 입력해주세요.",
		"phoneNumber":   "전화번호를 입력해주세요.",
		"phone":         "전화번호를 입력해주세요.",
		"password":      "비밀번호는 숫자 4자리로 입력해주세요.",
		"email":         "이메일을 입력해주세요.",
	}
	tagMessages = map[string]string{
		"krphone": phone.ErrInvalid.Error(),
		"email":   "올바른 이메일 주소를 입력해주세요.",
		"max":     "입력값이 너무 깁니다.",
	}
)

// fieldErrors turns validation errors into one message per form field.
// Errors that are not validation errors yield nil.
func fieldErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := tagMessages[fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		if msg, ok := fieldMessages[field]; ok {
			out[field] = msg
			continue
		}
		out[field] = "입력값을 확인해주세요."
	}
	return out
}
