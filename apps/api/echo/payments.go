package echoapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// sessionToken returns the backend access token held by the request's session.
func (s *server) sessionToken(ctx echo.Context) (string, error) {
	sess, err := s.getContextSession(ctx)
	if err != nil {
		return "", err
	}
	return sess.Token, nil
}

// apiNewCheckout mints the parameters the Paystack inline widget needs. The
// reference is generated here so verification can be tied back to it; no money
// moves until the backend confirms the reference.
func (s *server) apiNewCheckout(ctx echo.Context) error {
	sess, err := s.getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"reference":  uuid.NewString(),
		"public_key": s.conf.Paystack.PublicKey,
		"email":      sess.User.Email,
	})
}

// apiVerifyPayment forwards the widget's success callback to the backend for
// confirmation. The portal itself never calls Paystack.
func (s *server) apiVerifyPayment(ctx echo.Context) error {
	var data struct {
		Reference string `json:"reference" form:"reference" validate:"required"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding payment reference")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}

	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}

	verification, err := s.market.VerifyPayment(ctx.Request().Context(), token, data.Reference)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, verification)
}
