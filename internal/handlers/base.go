package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/middleware"
	"inkwell/internal/services"
	"inkwell/internal/utils"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	obj["CurrentUser"] = middleware.CurrentUser(c)
	obj["CurrentPath"] = c.Request.URL.Path
	obj["Year"] = time.Now().Year()
	if _, ok := obj["Errors"]; !ok {
		obj["Errors"] = map[string]string{}
	}
	c.HTML(code, name, obj)
}

// NotFound renders the 404 page; also used as the engine's NoRoute handler.
func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "core/404.html", gin.H{
		"PageTitle": "Page not found",
		"Path":      c.Request.URL.Path,
	})
}

// Forbidden renders the 403 page.
func Forbidden(c *gin.Context) {
	Render(c, http.StatusForbidden, "core/403.html", gin.H{"PageTitle": "Access denied"})
}

func ServerError(c *gin.Context) {
	Render(c, http.StatusInternalServerError, "core/500.html", gin.H{"PageTitle": "Server error"})
}

// Recovery renders the 500 page when a handler panics.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error("panic recovered",
			zap.Any("panic", rec),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		ServerError(c)
		c.Abort()
	})
}

// handleError maps a service error onto a response.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFound(c)
	case errors.Is(err, services.ErrUnauthenticated):
		c.Redirect(http.StatusFound, middleware.LoginURL(c.Request.URL.RequestURI()))
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		ServerError(c)
	}
}

// settleCleanup logs an orphaned media file and clears the error, since the
// write it follows already succeeded.
func settleCleanup(c *gin.Context, log *zap.Logger, err error) error {
	ce, ok := services.AsCleanup(err)
	if !ok {
		return err
	}
	log.Warn("media cleanup failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(ce.Err),
	)
	return nil
}

// pathID parses a numeric route parameter; 0 means missing or malformed.
func pathID(c *gin.Context, name string) uint {
	return utils.ParseID(c.Param(name))
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// safeNext only allows local redirects.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
