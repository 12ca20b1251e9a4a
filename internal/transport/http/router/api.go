package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-directory-api/internal/core/auth"
	"user-directory-api/internal/core/config"
	"user-directory-api/internal/core/server"
	"user-directory-api/internal/transport/http/handler"
	mdw "user-directory-api/internal/transport/http/middleware"
)

type Deps struct {
	Users  handler.UserManager
	JWT    *auth.JWTer
	Creds  auth.Credentials
	Limits config.Limits
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := server.NewRouter(l)

	// 中间件
	lim := d.Limits
	mws := []gin.HandlerFunc{mdw.RequestID()}
	if lim.RPS > 0 {
		mws = append(mws, mdw.RateLimit(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	if lim.PerIPRPS > 0 {
		mws = append(mws, mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), max(1, lim.PerIPBurst)))
	}
	if lim.MaxConcurrent > 0 {
		mws = append(mws, mdw.ConcurrencyLimit(lim.MaxConcurrent))
	}
	if lim.MaxBodyBytes > 0 {
		mws = append(mws, mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.RequestTimeout > 0 {
		mws = append(mws, mdw.Timeout(time.Duration(lim.RequestTimeout)*time.Second))
	}
	mws = append(mws, mdw.Metrics(), mdw.AccessLog(l))
	r.Use(mws...)

	// 健康检查 & 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", mdw.MetricsHandler())

	api := r.Group("/api/v1")

	// 公共：换取 token
	handler.NewAuthHandler(d.JWT, d.Creds).Mount(api)

	// 鉴权分组
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, ""))
	handler.NewUserHandler(d.Users).Mount(authed)

	return r
}
