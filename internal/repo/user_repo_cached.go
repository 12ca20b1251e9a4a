package repo

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"user-directory-api/internal/core/cache"
	"user-directory-api/internal/domain"
)

// CachedUserRepo 按主键查询走 Redis；Save 之后（无论成败）失效涉及的 key
type CachedUserRepo struct {
	domain.UserRepository
	c   *cache.Cache
	ttl cache.TTL
	log *zap.Logger
}

var _ domain.UserRepository = (*CachedUserRepo)(nil)

func NewCachedUserRepo(next domain.UserRepository, c *cache.Cache, ttl cache.TTL, l *zap.Logger) *CachedUserRepo {
	if l == nil {
		l = zap.NewNop()
	}
	return &CachedUserRepo{UserRepository: next, c: c, ttl: ttl, log: l.Named("user.cache")}
}

func userKey(id int64) string { return "user:" + strconv.FormatInt(id, 10) }

func (r *CachedUserRepo) Find(ctx context.Context, conds ...domain.Condition) (*domain.User, error) {
	id, ok := domain.IDOf(conds)
	if !ok {
		return r.UserRepository.Find(ctx, conds...)
	}
	return cache.GetOrLoadJSON(r.c, ctx, userKey(id), r.ttl, func(ctx context.Context) (*domain.User, error) {
		return r.UserRepository.Find(ctx, conds...)
	})
}

func (r *CachedUserRepo) Save(ctx context.Context, ch *domain.Changes[domain.User]) error {
	err := r.UserRepository.Save(ctx, ch)
	// 失败也要失效：ErrNotFound 说明缓存里的行已被别处删除
	r.invalidate(ctx, ch)
	return err
}

func (r *CachedUserRepo) invalidate(ctx context.Context, ch *domain.Changes[domain.User]) {
	if ch == nil {
		return
	}
	var keys []string
	for _, group := range [][]*domain.User{ch.Creates, ch.Updates, ch.Removes} {
		for _, u := range group {
			if u.ID != 0 {
				keys = append(keys, userKey(u.ID))
			}
		}
	}
	if err := r.c.Del(ctx, keys...); err != nil {
		r.log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
