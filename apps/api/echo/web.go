package echoapi

import (
	"bytes"
	htmltmpl "html/template"
	"io/fs"
	"net/http"
	"path"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	appfs "github.com/walimu/walimu/fs"
	"github.com/walimu/walimu/services/marketplace"
)

const contentDir = "assets/content"

var (
	slugRx = regexp.MustCompile(`^[a-z0-9-]+$`)

	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

func (s *server) home(ctx echo.Context) error {
	p := s.newPage(ctx, s.conf.AppName)
	return ctx.Render(http.StatusOK, "home", p)
}

// contentPage serves the markdown marketing pages (about, how-it-works, ...).
func (s *server) contentPage(ctx echo.Context) error {
	slug := ctx.Param("slug")
	if !slugRx.MatchString(slug) {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}

	raw, err := fs.ReadFile(appfs.FS, path.Join(contentDir, slug+".md"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "page not found")
	}

	var buf bytes.Buffer
	if err = markdown.Convert(raw, &buf); err != nil {
		return errors.Wrapf(err, "rendering content page %s", slug)
	}

	p := s.newPage(ctx, slug)
	p.Content = htmltmpl.HTML(buf.String())
	return ctx.Render(http.StatusOK, "content", p)
}

func (s *server) tutorRequestPage(ctx echo.Context) error {
	p := s.newPage(ctx, "Request a Tutor")
	p.Form = marketplace.NewTutorRequest{}
	return ctx.Render(http.StatusOK, "request_tutor", p)
}

// createTutorRequest submits the public request-a-tutor form. No session is
// required; the backend accepts anonymous requests.
func (s *server) createTutorRequest(ctx echo.Context) error {
	var data marketplace.NewTutorRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTutorRequest")
	}

	p := s.newPage(ctx, "Request a Tutor")
	p.Form = data

	if err := s.validate.Struct(&data); err != nil {
		if flds, ok := s.fieldErrors(err); ok {
			p.FieldErrors = flds
			return ctx.Render(http.StatusBadRequest, "request_tutor", p)
		}
		return err
	}

	if _, err := s.market.CreateTutorRequest(ctx.Request().Context(), "", data); err != nil {
		if msg, ok := formMessage(err); ok {
			p.FormError = msg
			return ctx.Render(http.StatusOK, "request_tutor", p)
		}
		return err
	}

	p.Form = marketplace.NewTutorRequest{}
	p.Flash = "Request received. We will get back to you shortly."
	return ctx.Render(http.StatusOK, "request_tutor", p)
}
