package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"user-directory-api/internal/core/result"
	"user-directory-api/internal/domain"
	"user-directory-api/internal/feature/user"
	resp "user-directory-api/internal/transport/http/response"
)

const (
	MsgInvalidID   = "Invalid User Id"
	MsgInvalidBody = "Invalid Request Body"
)

// UserManager 由 user.Manager 实现
type UserManager interface {
	List(ctx context.Context) result.Result[[]domain.User]
	Search(ctx context.Context, f user.Filter) result.Result[[]domain.User]
	GetByID(ctx context.Context, id int64) result.Result[*domain.User]
	Create(ctx context.Context, in *domain.User) result.Result[*domain.User]
	Update(ctx context.Context, in *domain.User) result.Result[*domain.User]
	Delete(ctx context.Context, id int64) result.Result[*domain.User]
}

type UserHandler struct {
	users UserManager
}

func NewUserHandler(users UserManager) *UserHandler { return &UserHandler{users: users} }

// Mount 挂到 g 下：/users 五个用例
func (h *UserHandler) Mount(g *gin.RouterGroup) {
	g.GET("/users", h.list)
	g.GET("/users/:id", h.get)
	g.POST("/users", h.create)
	g.PUT("/users", h.update)
	g.PUT("/users/:id", h.update)
	g.DELETE("/users/:id", h.delete)
}

func (h *UserHandler) list(c *gin.Context) {
	var f user.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		resp.Abort(c, http.StatusBadRequest, err.Error())
		return
	}
	resp.FromResult(c, h.users.Search(c.Request.Context(), f))
}

func (h *UserHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp.FromResult(c, h.users.GetByID(c.Request.Context(), id))
}

func (h *UserHandler) create(c *gin.Context) {
	var in domain.User
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Abort(c, http.StatusBadRequest, MsgInvalidBody)
		return
	}
	resp.FromResult(c, h.users.Create(c.Request.Context(), &in))
}

// update 空 body 交给 Manager 处理（WrongInformation）；带 :id 时以路径为准
func (h *UserHandler) update(c *gin.Context) {
	var in *domain.User
	var body domain.User
	switch err := c.ShouldBindJSON(&body); {
	case errors.Is(err, io.EOF):
	case err != nil:
		resp.Abort(c, http.StatusBadRequest, MsgInvalidBody)
		return
	default:
		in = &body
	}
	if c.Param("id") != "" {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if in != nil {
			in.ID = id
		}
	}
	resp.FromResult(c, h.users.Update(c.Request.Context(), in))
}

func (h *UserHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp.FromResult(c, h.users.Delete(c.Request.Context(), id))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		resp.Abort(c, http.StatusBadRequest, MsgInvalidID)
		return 0, false
	}
	return id, true
}
