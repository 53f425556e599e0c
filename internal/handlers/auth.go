package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/middleware"
	"inkwell/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
	log  *zap.Logger
}

func NewAuthHandler(auth *services.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

func (h *AuthHandler) ShowSignup(c *gin.Context) {
	Render(c, http.StatusOK, "users/signup.html", gin.H{
		"PageTitle": "Sign up",
		"Form":      services.SignupInput{},
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var in services.SignupInput
	_ = c.ShouldBind(&in)

	user, err := h.auth.Signup(c.Request.Context(), in)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			in.Password1, in.Password2 = "", ""
			Render(c, http.StatusBadRequest, "users/signup.html", gin.H{
				"PageTitle": "Sign up",
				"Form":      in,
				"Errors":    ve.Fields,
			})
			return
		}
		handleError(c, h.log, err)
		return
	}
	h.log.Info("用户注册", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "users/login.html", gin.H{
		"PageTitle": "Log in",
		"Next":      c.Query("next"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	next := c.PostForm("next")

	user, err := h.auth.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if errors.Is(err, services.ErrInvalidCredentials) {
		Render(c, http.StatusOK, "users/login.html", gin.H{
			"PageTitle": "Log in",
			"Next":      next,
			"Username":  username,
			"Error":     "Please enter a correct username and password. Note that both fields may be case-sensitive.",
		})
		return
	}
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserKey, user.ID)
	if err := session.Save(); err != nil {
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		h.log.Warn("清除会话失败", zap.Error(err))
	}
	// 当前请求已加载的用户也要清掉，页头才会显示为未登录
	c.Set(middleware.CheckUserKey, nil)
	Render(c, http.StatusOK, "users/logged_out.html", gin.H{"PageTitle": "Logged out"})
}

func (h *AuthHandler) ShowPasswordChange(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_change_form.html", gin.H{"PageTitle": "Change password"})
}

func (h *AuthHandler) PasswordChange(c *gin.Context) {
	var in services.PasswordChangeInput
	_ = c.ShouldBind(&in)

	err := h.auth.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		if ve, ok := services.AsValidation(err); ok {
			Render(c, http.StatusBadRequest, "users/password_change_form.html", gin.H{
				"PageTitle": "Change password",
				"Errors":    ve.Fields,
			})
			return
		}
		handleError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusFound, "/auth/password_change/done/")
}

func (h *AuthHandler) PasswordChangeDone(c *gin.Context) {
	Render(c, http.StatusOK, "users/password_change_done.html", gin.H{"PageTitle": "Password changed"})
}
