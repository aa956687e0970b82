package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// apiReferralInvite makes sure a code exists for the inviter, then emails it.
func (s *server) apiReferralInvite(ctx echo.Context) error {
	var data struct {
		Email string `json:"email" form:"email" validate:"required,email"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding invite email")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}

	sess, err := s.getContextSession(ctx)
	if err != nil {
		return err
	}

	referral, err := s.market.GenerateReferralCode(ctx.Request().Context(), sess.Token)
	if err != nil {
		return err
	}

	s.sessSvc.SendReferralInvite(*sess.User, data.Email, referral.Code)
	return ctx.JSON(http.StatusAccepted, echo.Map{"code": referral.Code})
}

func (s *server) apiGenerateReferralCode(ctx echo.Context) error {
	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	referral, err := s.market.GenerateReferralCode(ctx.Request().Context(), token)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, referral)
}
