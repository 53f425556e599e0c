package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inkwell/internal/cache"
)

// bodyWriter tees everything the handler writes into buf.
type bodyWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// PageKey is the cache key of a rendered page. Anonymous visitors share user id 0.
func PageKey(prefix string, c *gin.Context) string {
	var uid uint
	if user := CurrentUser(c); user != nil {
		uid = user.ID
	}
	return fmt.Sprintf("%s:%d:%s", prefix, uid, c.Request.URL.RequestURI())
}

// CachePage serves the rendered page from pc for ttl after the first
// successful render. Only 200 responses are stored; the cached copy is not
// invalidated by writes, only by expiry or pc.Clear.
func CachePage(pc cache.PageCache, prefix string, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := PageKey(prefix, c)
		ctx := c.Request.Context()

		body, ok, err := pc.Get(ctx, key)
		if err != nil {
			log.Warn("页面缓存读取失败", zap.String("key", key), zap.Error(err))
		}
		if ok {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			c.Abort()
			return
		}

		w := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Header("X-Cache", "MISS")
		c.Next()
		c.Writer = w.ResponseWriter

		if w.Status() != http.StatusOK || w.buf.Len() == 0 {
			return
		}
		if err := pc.Set(ctx, key, w.buf.Bytes(), ttl); err != nil {
			log.Warn("页面缓存写入失败", zap.String("key", key), zap.Error(err))
		}
	}
}
