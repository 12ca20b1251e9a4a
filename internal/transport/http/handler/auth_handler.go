package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"user-directory-api/internal/core/auth"
	"user-directory-api/internal/transport/http/ez"
)

type tokenIn struct {
	Username string `json:"username" form:"username" binding:"required,max=50"`
	Password string `json:"password" form:"password"`
}

type tokenOut struct {
	Token     string `json:"token"`
	TokenType string `json:"tokenType"`
	ExpiresIn int64  `json:"expiresIn"` // 秒
}

type AuthHandler struct {
	jwt   *auth.JWTer
	creds auth.Credentials
}

func NewAuthHandler(j *auth.JWTer, creds auth.Credentials) *AuthHandler {
	return &AuthHandler{jwt: j, creds: creds}
}

// Mount POST /auth/token（JSON）与 GET /auth/token（query）
func (h *AuthHandler) Mount(g *gin.RouterGroup) {
	e := ez.New(g)
	ez.RegisterAction(e, ez.Action[tokenIn, tokenOut]{
		Method: http.MethodPost, Path: "/auth/token", Binder: ez.BindJSON, Handler: h.issue,
	})
	ez.RegisterAction(e, ez.Action[tokenIn, tokenOut]{
		Method: http.MethodGet, Path: "/auth/token", Binder: ez.BindQuery, Handler: h.issue,
	})
}

func (h *AuthHandler) issue(_ *gin.Context, in *tokenIn) (tokenOut, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return tokenOut{}, ez.BadRequest("username is required")
	}
	if !h.creds.Verify(username, in.Password) {
		return tokenOut{}, ez.Unauthorized("invalid credentials")
	}
	tok, err := h.jwt.Issue(username, auth.RoleUser)
	if err != nil {
		return tokenOut{}, ez.Internal("issue token failed", err)
	}
	return tokenOut{Token: tok, TokenType: "Bearer", ExpiresIn: int64(h.jwt.TTL.Seconds())}, nil
}
