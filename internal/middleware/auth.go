package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"inkwell/internal/models"
)

const (
	CheckUserKey   = "user"
	SessionUserKey = "user_id"
	LoginPath      = "/auth/login/"
)

// UserLoader resolves the session user id.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// LoadUser retrieves user from session and sets to context.
// A session pointing at a deleted user is treated as anonymous.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if id, ok := session.Get(SessionUserKey).(uint); ok && id != 0 {
			if user, err := users.GetUser(c.Request.Context(), id); err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the logged in user or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(CheckUserKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// LoginURL is the login page that sends the user back to next afterwards.
func LoginURL(next string) string {
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// AuthRequired ensures a user is logged in, otherwise redirects to login.
// Must run after LoadUser.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired 仅管理员可访问. deny renders the response for logged-in
// non-staff users; when nil a bare 403 is sent.
func StaffRequired(deny gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		if !user.IsStaff {
			if deny != nil {
				deny(c)
				c.Abort()
				return
			}
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
