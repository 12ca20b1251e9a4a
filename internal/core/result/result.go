package result

import (
	"encoding/json"
	"net/http"
)

// Result 用例操作的统一返回（成功/失败、消息、状态码、可选数据），构造后不可变
type Result[T any] struct {
	message string
	success bool
	status  int
	entity  T
}

func newResult[T any](msg string, ok bool, entity T, status int) Result[T] {
	return Result[T]{message: msg, success: ok, entity: entity, status: status}
}

func Ok[T any]() Result[T] {
	var zero T
	return newResult("", true, zero, http.StatusOK)
}

func OkEntity[T any](entity T) Result[T] { return newResult("", true, entity, http.StatusOK) }

func OkMessage[T any](msg string) Result[T] {
	var zero T
	return newResult(msg, true, zero, http.StatusOK)
}

func OkEntityMessage[T any](entity T, msg string) Result[T] {
	return newResult(msg, true, entity, http.StatusOK)
}

// Fail 默认 400
func Fail[T any](msg string) Result[T] { return FailStatus[T](msg, http.StatusBadRequest) }

func FailStatus[T any](msg string, status int) Result[T] {
	var zero T
	return newResult(msg, false, zero, status)
}

func (r Result[T]) Message() string { return r.message }
func (r Result[T]) Success() bool   { return r.success }
func (r Result[T]) Status() int     { return r.status }
func (r Result[T]) Entity() T       { return r.entity }

func (r Result[T]) MarshalJSON() ([]byte, error) {
	type view struct {
		Message    string `json:"message"`
		Success    bool   `json:"success"`
		StatusCode int    `json:"statusCode"`
		Entity     any    `json:"entity"`
	}
	v := view{Message: r.message, Success: r.success, StatusCode: r.status}
	if r.success {
		v.Entity = r.entity
	}
	return json.Marshal(v)
}
