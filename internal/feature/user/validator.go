package user

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"user-directory-api/internal/domain"
)

const MaxFieldLen = 50

type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"` // required / max / email
	Message string `json:"message"`
}

// 与 gin binding 同一个引擎；*Validate 可并发使用
var validate = validator.New()

type fieldRule struct {
	name  string
	get   func(u *domain.User) string
	email bool
}

// 校验顺序固定，调用方只取第一条
var userRules = []fieldRule{
	{name: "FirstName", get: func(u *domain.User) string { return u.FirstName }},
	{name: "LastName", get: func(u *domain.User) string { return u.LastName }},
	{name: "Address", get: func(u *domain.User) string { return u.Address }},
	{name: "City", get: func(u *domain.User) string { return u.City }},
	{name: "Email", get: func(u *domain.User) string { return u.Email }, email: true},
	{name: "Phone", get: func(u *domain.User) string { return u.Phone }},
	{name: "State", get: func(u *domain.User) string { return u.State }},
	{name: "Street", get: func(u *domain.User) string { return u.Street }},
	{name: "Zip", get: func(u *domain.User) string { return u.Zip }},
}

// Validate 返回 u 的全部字段错误；空切片表示通过
func Validate(u *domain.User) []Violation {
	if u == nil {
		return []Violation{{Field: "User", Rule: "required", Message: "'User' is required"}}
	}
	var out []Violation
	for _, r := range userRules {
		v := r.get(u)
		if validate.Var(strings.TrimSpace(v), "required") != nil {
			out = append(out, Violation{Field: r.name, Rule: "required", Message: fmt.Sprintf("'%s' is required", r.name)})
			continue
		}
		if validate.Var(v, fmt.Sprintf("max=%d", MaxFieldLen)) != nil {
			out = append(out, Violation{
				Field:   r.name,
				Rule:    "max",
				Message: fmt.Sprintf("'%s' must not exceed %d characters", r.name, MaxFieldLen),
			})
		}
		if r.email && validate.Var(v, "email") != nil {
			out = append(out, Violation{Field: r.name, Rule: "email", Message: fmt.Sprintf("'%s' is not valid", r.name)})
		}
	}
	return out
}
