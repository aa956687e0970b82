package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	placesvc "github.com/walimu/walimu/services/places"
)

// apiPlacesAutocomplete proxies location lookups so the browser never sees the
// Places API key. With no key configured it degrades to an empty list and the
// form falls back to free-text input.
func (s *server) apiPlacesAutocomplete(ctx echo.Context) error {
	query := ctx.QueryParam("q")
	if query == "" || !s.places.Enabled() {
		return ctx.JSON(http.StatusOK, []placesvc.Prediction{})
	}

	predictions, err := s.places.Autocomplete(ctx.Request().Context(), query)
	if err != nil {
		s.logger.Warn("places autocomplete failed", err)
		return ctx.JSON(http.StatusOK, []placesvc.Prediction{})
	}
	if predictions == nil {
		predictions = []placesvc.Prediction{}
	}
	return ctx.JSON(http.StatusOK, predictions)
}
