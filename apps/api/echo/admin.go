package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Admin moderation endpoints. All of these sit behind roleMiddleware(admin);
// the backend enforces its own permissions on top.

func (s *server) apiApproveTutorRequest(ctx echo.Context) error {
	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	if err = s.market.ApproveTutorRequest(ctx.Request().Context(), token, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "approved"})
}

func (s *server) apiRejectTutorRequest(ctx echo.Context) error {
	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	if err = s.market.RejectTutorRequest(ctx.Request().Context(), token, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"status": "rejected"})
}

func (s *server) apiUpdateUserProfile(ctx echo.Context) error {
	var fields map[string]interface{}
	if err := ctx.Bind(&fields); err != nil {
		return errors.Wrap(err, "binding profile fields")
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	record, err := s.market.UpdateUserProfile(ctx.Request().Context(), token, ctx.Param("id"), fields)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, record)
}

func (s *server) apiDeleteUserProfile(ctx echo.Context) error {
	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	if err = s.market.DeleteUserProfile(ctx.Request().Context(), token, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
