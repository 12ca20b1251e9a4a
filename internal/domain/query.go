package domain

import "errors"

// ErrNotFound 仓储提交时目标行已不存在（例如更新一条已被删除的记录）
var ErrNotFound = errors.New("record not found")

type Op string

const (
	OpEq   Op = "eq"
	OpLike Op = "like" // 子串匹配
)

// Condition 单个查询条件；同一次调用里的多个条件按 AND 组合
type Condition struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, v any) Condition { return Condition{Column: column, Op: OpEq, Value: v} }

func Like(column, sub string) Condition { return Condition{Column: column, Op: OpLike, Value: sub} }

func ByID(id int64) Condition { return Eq("id", id) }

// IDOf 条件恰好是按主键等值查询时返回该 id
func IDOf(conds []Condition) (int64, bool) {
	if len(conds) != 1 || conds[0].Column != "id" || conds[0].Op != OpEq {
		return 0, false
	}
	id, ok := conds[0].Value.(int64)
	return id, ok
}

// Changes 暂存的写操作，由仓储的 Save 一次性提交
type Changes[T any] struct {
	Creates []*T
	Updates []*T
	Removes []*T
}

func NewChanges[T any]() *Changes[T] { return &Changes[T]{} }

func (c *Changes[T]) Create(e *T) { c.Creates = append(c.Creates, e) }
func (c *Changes[T]) Update(e *T) { c.Updates = append(c.Updates, e) }
func (c *Changes[T]) Remove(e *T) { c.Removes = append(c.Removes, e) }

func (c *Changes[T]) Empty() bool {
	return len(c.Creates) == 0 && len(c.Updates) == 0 && len(c.Removes) == 0
}
