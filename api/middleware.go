package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"api_retail/internal/apperr"
	"api_retail/internal/auth"
)

const (
	roleHeader     = "X-Role"
	passwordHeader = "X-Admin-Password"
	roleKey        = "role"
)

// requireRole resolves the role named by the request. Requests without a
// valid role get 401, a wrong administrator password gets 403.
func requireRole(gate *auth.Gate, logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, err := gate.Login(ctx.GetHeader(roleHeader), ctx.GetHeader(passwordHeader))
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, apperr.ErrForbidden) {
				status = http.StatusForbidden
			}
			logger.Warn("role check failed", zap.String("path", ctx.FullPath()), zap.Error(err))
			ctx.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		ctx.Set(roleKey, role)
		ctx.Next()
	}
}

// adminOnly rejects requests that did not log in as the administrator.
func adminOnly(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if roleOf(ctx) != auth.Admin {
			fail(ctx, logger, ctx.FullPath(), apperr.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

func roleOf(ctx *gin.Context) auth.Role {
	role, _ := ctx.Get(roleKey)
	r, _ := role.(auth.Role)
	return r
}

// requestLogger writes one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		logger.Info("request",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("status", ctx.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// recovery answers 500 for a handler that panicked.
func recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered any) {
		logger.Error("panic while handling request",
			zap.String("path", ctx.Request.URL.Path),
			zap.Any("panic", recovered),
		)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
