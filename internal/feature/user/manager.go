package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"user-directory-api/internal/core/result"
	"user-directory-api/internal/domain"
)

const (
	MsgUsersNotRetrieved = "Could Not Retrieve The Users"
	MsgUserNotRetrieved  = "Could Not Retrieve The User"
	MsgUserNotFound      = "User Not Found"
	MsgUserNotCreated    = "Could Not Create The User"
	MsgUserNotUpdated    = "Could Not Update The User"
	MsgUserNotDeleted    = "Could Not Delete The User"
	MsgWrongInformation  = "WrongInformation"

	MsgUserCreated = "User Created Successfully"
	MsgUserUpdated = "User Updated Successfully"
	MsgUserDeleted = "User Deleted Successfully"
)

// Manager 用户用例编排：校验 → 仓储 → Result。无状态，可并发调用
type Manager struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewManager(users domain.UserRepository, l *zap.Logger) *Manager {
	if l == nil {
		l = zap.NewNop()
	}
	return &Manager{users: users, log: l.Named("user.manager")}
}

// Filter 列表筛选；全部为空时等价于 List
type Filter struct {
	Email    string `form:"email"`
	City     string `form:"city"`
	State    string `form:"state"`
	Zip      string `form:"zip"`
	LastName string `form:"lastName"` // 子串匹配
}

func (f Filter) conditions() []domain.Condition {
	var conds []domain.Condition
	if s := strings.TrimSpace(f.Email); s != "" {
		conds = append(conds, domain.Eq("email", s))
	}
	if s := strings.TrimSpace(f.City); s != "" {
		conds = append(conds, domain.Eq("city", s))
	}
	if s := strings.TrimSpace(f.State); s != "" {
		conds = append(conds, domain.Eq("state", s))
	}
	if s := strings.TrimSpace(f.Zip); s != "" {
		conds = append(conds, domain.Eq("zip", s))
	}
	if s := strings.TrimSpace(f.LastName); s != "" {
		conds = append(conds, domain.Like("last_name", s))
	}
	return conds
}

func (m *Manager) List(ctx context.Context) result.Result[[]domain.User] {
	users, err := m.users.GetAll(ctx)
	if err != nil {
		m.log.Error("list users failed", zap.Error(err))
		return result.Fail[[]domain.User](MsgUsersNotRetrieved)
	}
	if users == nil {
		users = []domain.User{}
	}
	return result.OkEntity(users)
}

func (m *Manager) Search(ctx context.Context, f Filter) result.Result[[]domain.User] {
	conds := f.conditions()
	if len(conds) == 0 {
		return m.List(ctx)
	}
	users, err := m.users.FindAll(ctx, conds...)
	if err != nil {
		m.log.Error("search users failed", zap.Error(err), zap.Any("filter", f))
		return result.Fail[[]domain.User](MsgUsersNotRetrieved)
	}
	if users == nil {
		users = []domain.User{}
	}
	return result.OkEntity(users)
}

func (m *Manager) GetByID(ctx context.Context, id int64) result.Result[*domain.User] {
	u, err := m.users.Find(ctx, domain.ByID(id))
	if err != nil {
		m.log.Error("get user failed", zap.Int64("id", id), zap.Error(err))
		return result.Fail[*domain.User](MsgUserNotRetrieved)
	}
	if u == nil {
		return result.FailStatus[*domain.User](MsgUserNotFound, http.StatusNotFound)
	}
	return result.OkEntity(u)
}

func (m *Manager) Create(ctx context.Context, in *domain.User) result.Result[*domain.User] {
	if r, bad := rejectInvalid(in); bad {
		return r
	}

	u := &domain.User{}
	u.Assign(in) // ID 由存储分配
	ch := domain.NewChanges[domain.User]()
	ch.Create(u)
	if err := m.users.Save(ctx, ch); err != nil {
		m.log.Error("create user failed", zap.String("email", in.Email), zap.Error(err))
		return result.Fail[*domain.User](MsgUserNotCreated)
	}
	m.log.Info("user created", zap.Int64("id", u.ID))
	return result.OkEntityMessage(u, MsgUserCreated)
}

func (m *Manager) Update(ctx context.Context, in *domain.User) result.Result[*domain.User] {
	if in == nil {
		return result.Fail[*domain.User](MsgWrongInformation)
	}
	if r, bad := rejectInvalid(in); bad {
		return r
	}

	found, err := m.users.Find(ctx, domain.ByID(in.ID))
	if err != nil {
		m.log.Error("update user: lookup failed", zap.Int64("id", in.ID), zap.Error(err))
		return result.Fail[*domain.User](MsgUserNotUpdated)
	}
	if found == nil {
		return result.FailStatus[*domain.User](MsgUserNotFound, http.StatusNotFound)
	}

	found.Assign(in)
	ch := domain.NewChanges[domain.User]()
	ch.Update(found)
	if err := m.users.Save(ctx, ch); err != nil {
		// 查询与提交之间行被删除（或查询命中了过期缓存）
		if errors.Is(err, domain.ErrNotFound) {
			m.log.Warn("update user: row vanished before commit", zap.Int64("id", in.ID))
			return result.FailStatus[*domain.User](MsgUserNotFound, http.StatusNotFound)
		}
		m.log.Error("update user failed", zap.Int64("id", in.ID), zap.Error(err))
		return result.Fail[*domain.User](MsgUserNotUpdated)
	}
	return result.OkMessage[*domain.User](MsgUserUpdated)
}

func (m *Manager) Delete(ctx context.Context, id int64) result.Result[*domain.User] {
	ok, err := m.users.Exists(ctx, domain.ByID(id))
	if err != nil {
		m.log.Error("delete user: lookup failed", zap.Int64("id", id), zap.Error(err))
		return result.Fail[*domain.User](MsgUserNotDeleted)
	}
	if !ok {
		return result.FailStatus[*domain.User](MsgUserNotFound, http.StatusNotFound)
	}

	ch := domain.NewChanges[domain.User]()
	ch.Remove(&domain.User{ID: id})
	if err := m.users.Save(ctx, ch); err != nil {
		m.log.Error("delete user failed", zap.Int64("id", id), zap.Error(err))
		return result.Fail[*domain.User](MsgUserNotDeleted)
	}
	return result.OkMessage[*domain.User](MsgUserDeleted)
}

func rejectInvalid(u *domain.User) (result.Result[*domain.User], bool) {
	if vs := Validate(u); len(vs) > 0 {
		return result.FailStatus[*domain.User](vs[0].Message, http.StatusBadRequest), true
	}
	return result.Result[*domain.User]{}, false
}
