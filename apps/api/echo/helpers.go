package echoapi

import (
	htmltmpl "html/template"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/core"
	"github.com/walimu/walimu/core/session"
	"github.com/walimu/walimu/services/marketplace"
)

// page is the data handed to every web template via the shared layout.
type page struct {
	Title     string
	AppName   string
	Path      string
	CSRFField htmltmpl.HTML

	User *session.UserProfile
	Nav  []RouteDescriptor

	Section     string
	Flash       string
	FormError   string
	FieldErrors map[string]string
	Form        interface{}
	Data        interface{}

	PaystackPublicKey string
	PlacesEnabled     bool

	Content htmltmpl.HTML
}

func (s *server) newPage(ctx echo.Context, title string) page {
	p := page{
		Title:             title,
		AppName:           s.conf.AppName,
		Path:              ctx.Request().URL.Path,
		CSRFField:         csrf.TemplateField(ctx.Request()),
		PaystackPublicKey: s.conf.Paystack.PublicKey,
		PlacesEnabled:     s.places.Enabled(),
	}
	if sess, ok := ctx.Get(contextSessionKey).(session.Session); ok && sess.IsAuthenticated() {
		p.User = sess.User
	}
	return p
}

// fieldErrors translates a validation error into a field->message map for
// inline display; ok is false for any other kind of error.
func (s *server) fieldErrors(err error) (map[string]string, bool) {
	if vErr, ok := errors.Cause(err).(validator.ValidationErrors); ok {
		flds := make(map[string]string, len(vErr))
		for _, fErr := range vErr {
			flds[fErr.Field()] = fErr.Translate(s.translator)
		}
		return flds, true
	}
	if vErr, ok := core.AsValidation(err); ok && vErr.Fields != nil {
		flds := make(map[string]string, len(vErr.Fields))
		for _, fErr := range vErr.Fields {
			flds[fErr.Field] = fErr.Error
		}
		return flds, true
	}
	return nil, false
}

// formMessage renders an upstream error as a single user-facing line. Backend
// messages pass through verbatim; transport failures get the generic line.
func formMessage(err error) (string, bool) {
	if marketplace.IsUnavailable(err) {
		return marketplace.ErrUnavailable.Error(), true
	}
	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message, true
	}
	if vErr, ok := core.AsValidation(err); ok && vErr.Fields == nil {
		return vErr.Error(), true
	}
	return "", false
}

func redirectSeeOther(ctx echo.Context, location string) error {
	return ctx.Redirect(http.StatusSeeOther, location)
}
