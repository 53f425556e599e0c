// Package render builds the HTML renderer from the embedded templates.
package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-contrib/multitemplate"

	"inkwell/internal/utils"
)

const (
	layoutsDir  = "templates/layouts"
	includesDir = "templates/includes"
	viewsDir    = "templates/views"
)

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict":       dict,
		"add":        func(a, b int) int { return a + b },
		"markdown":   utils.RenderMarkdown,
		"truncate":   truncate,
		"formatDate": formatDate,
		"pageURL":    pageURL,
	}
}

// New registers every view under templates/views by its relative path,
// e.g. "posts/index.html", each combined with all layouts and includes.
func New(fsys fs.FS) (multitemplate.Render, error) {
	r := multitemplate.New()

	layouts, err := fs.Glob(fsys, layoutsDir+"/*.html")
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts in %s", layoutsDir)
	}
	includes, err := fs.Glob(fsys, includesDir+"/*.html")
	if err != nil {
		return nil, err
	}

	funcs := FuncMap()
	err = fs.WalkDir(fsys, viewsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" {
			return nil
		}
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, p)

		// 根模板必须是布局文件，否则 Execute 会渲染空模板
		tmpl, err := template.New(path.Base(files[0])).Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.Add(strings.TrimPrefix(p, viewsDir+"/"), tmpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// truncate cuts s to at most n runes, breaking on a space when it can.
func truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndexAny(cut, " \n\t"); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n\t.,") + "…"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// pageURL is relative to the current path, so it works on every listing.
func pageURL(n int) string {
	return "?page=" + strconv.Itoa(n)
}
