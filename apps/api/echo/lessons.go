package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/walimu/walimu/services/marketplace"
)

func (s *server) apiCreateLesson(ctx echo.Context) error {
	var fields map[string]interface{}
	if err := ctx.Bind(&fields); err != nil {
		return errors.Wrap(err, "binding lesson fields")
	}

	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	lesson, err := s.market.CreateLesson(ctx.Request().Context(), token, fields)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, lesson)
}

func (s *server) apiUpdateLesson(ctx echo.Context) error {
	var fields map[string]interface{}
	if err := ctx.Bind(&fields); err != nil {
		return errors.Wrap(err, "binding lesson fields")
	}
	if len(fields) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no fields to update")
	}

	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	lesson, err := s.market.UpdateLesson(ctx.Request().Context(), token, ctx.Param("id"), fields)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lesson)
}

func (s *server) apiCreateReview(ctx echo.Context) error {
	var review marketplace.Review
	if err := ctx.Bind(&review); err != nil {
		return errors.Wrap(err, "binding review")
	}
	if review.TutorID == "" || review.Rating < 1 || review.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "tutor_id and a 1-5 rating are required")
	}

	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	created, err := s.market.CreateReview(ctx.Request().Context(), token, review)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, created)
}
