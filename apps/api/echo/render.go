package echoapi

import (
	"fmt"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core"
	appfs "github.com/walimu/walimu/fs"
)

const webTemplateDir = "assets/templates/web"

// renderer backs echo's Render(). Each page template is parsed together with
// the shared layout; pages fill the layout's "content" block.
type renderer struct {
	conf *core.Config

	once  sync.Once
	pages map[string]*htmltmpl.Template
	err   error
}

func newRenderer(conf *core.Config) *renderer {
	return &renderer{conf: conf}
}

var webFuncs = htmltmpl.FuncMap{
	"money": func(minor int64, currency string) string {
		return fmt.Sprintf("%s %.2f", currency, float64(minor)/100)
	},
	"title": strings.Title,
}

func (r *renderer) load() {
	r.pages = make(map[string]*htmltmpl.Template)

	entries, err := fs.ReadDir(appfs.FS, webTemplateDir)
	if err != nil {
		r.err = errors.Wrap(err, "reading web templates")
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") {
			continue
		}

		tmpl, err := htmltmpl.New(name).Funcs(webFuncs).ParseFS(
			appfs.FS,
			path.Join(webTemplateDir, "_*.gohtml"),
			path.Join(webTemplateDir, name),
		)
		if err != nil {
			r.err = errors.Wrapf(err, "parsing web template %s", name)
			return
		}
		r.pages[strings.TrimSuffix(name, path.Ext(name))] = tmpl
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.once.Do(r.load)
	if r.err != nil {
		return r.err
	}

	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "_layout.gohtml", data)
}
