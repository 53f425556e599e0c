package router

import (
	"io/fs"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
	"inkwell/internal/render"
	"inkwell/web"
)

const sessionName = "inkwell_session"

// Options configures the engine outside of the route dependencies.
type Options struct {
	SessionSecret string
	MediaDir      string
}

// NewEngine builds the full gin engine: middleware, templates, static files and routes.
func NewEngine(d Deps, opt Options) (*gin.Engine, error) {
	r := gin.New()
	r.Use(handlers.Recovery(d.Log))
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Setup Sessions
	store := cookie.NewStore([]byte(opt.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	tmpl, err := render.New(web.Templates)
	if err != nil {
		return nil, err
	}
	r.HTMLRender = tmpl

	// Static Assets
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, err
	}
	r.StaticFS("/static", http.FS(static))
	if opt.MediaDir != "" {
		r.Static("/media", opt.MediaDir)
	}

	r.Use(middleware.LoadUser(d.Auth))
	RegisterRoutes(r, d)
	return r, nil
}
