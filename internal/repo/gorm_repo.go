package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"user-directory-api/internal/domain"
)

var ErrUnknownColumn = errors.New("unknown column")

// GormRepository 通用 gorm 仓储；条件列只允许白名单内的列
type GormRepository[T any] struct {
	db      *gorm.DB
	columns map[string]struct{}
	orderBy string
}

func NewGormRepository[T any](db *gorm.DB, columns []string, orderBy string) *GormRepository[T] {
	set := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return &GormRepository[T]{db: db, columns: set, orderBy: orderBy}
}

func (r *GormRepository[T]) scope(ctx context.Context, conds []domain.Condition) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).Model(new(T))
	for _, c := range conds {
		if _, ok := r.columns[c.Column]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, c.Column)
		}
		col := clause.Column{Name: c.Column}
		switch c.Op {
		case domain.OpEq:
			q = q.Where(clause.Eq{Column: col, Value: c.Value})
		case domain.OpLike:
			q = q.Where(clause.Like{Column: col, Value: "%" + fmt.Sprint(c.Value) + "%"})
		default:
			return nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}
	return q, nil
}

func (r *GormRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	return r.FindAll(ctx)
}

func (r *GormRepository[T]) Find(ctx context.Context, conds ...domain.Condition) (*T, error) {
	q, err := r.scope(ctx, conds)
	if err != nil {
		return nil, err
	}
	var out T
	err = q.Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GormRepository[T]) FindAll(ctx context.Context, conds ...domain.Condition) ([]T, error) {
	q, err := r.scope(ctx, conds)
	if err != nil {
		return nil, err
	}
	if r.orderBy != "" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: r.orderBy}})
	}
	out := []T{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository[T]) Exists(ctx context.Context, conds ...domain.Condition) (bool, error) {
	q, err := r.scope(ctx, conds)
	if err != nil {
		return false, err
	}
	var n int64
	if err := q.Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Save 单事务提交：先 create，再 update，最后 delete；任一失败整体回滚
func (r *GormRepository[T]) Save(ctx context.Context, ch *domain.Changes[T]) error {
	if ch == nil || ch.Empty() {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range ch.Creates {
			if err := tx.Create(e).Error; err != nil {
				return fmt.Errorf("create: %w", err)
			}
		}
		for _, e := range ch.Updates {
			// 显式 Select 关闭 Save 在 0 行时的 upsert 回退，已删除的行不会被重新插入
			res := tx.Select("*").Save(e)
			if res.Error != nil {
				return fmt.Errorf("update: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("update: %w", domain.ErrNotFound)
			}
		}
		for _, e := range ch.Removes {
			if err := tx.Delete(e).Error; err != nil {
				return fmt.Errorf("remove: %w", err)
			}
		}
		return nil
	})
}
