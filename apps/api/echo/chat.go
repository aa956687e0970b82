package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (s *server) apiChats(ctx echo.Context) error {
	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	chats, err := s.market.Chats(ctx.Request().Context(), token)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, chats)
}

func (s *server) apiMessages(ctx echo.Context) error {
	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	messages, err := s.market.Messages(ctx.Request().Context(), token, ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, messages)
}

func (s *server) apiSendMessage(ctx echo.Context) error {
	var data struct {
		Body string `json:"body" form:"body" validate:"required"`
	}
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding message body")
	}
	if err := s.validate.Struct(&data); err != nil {
		return err
	}

	token, err := s.sessionToken(ctx)
	if err != nil {
		return err
	}
	msg, err := s.market.SendMessage(ctx.Request().Context(), token, ctx.Param("id"), data.Body)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, msg)
}
