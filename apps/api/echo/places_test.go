package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// The request-tutor form is public, so its location autocomplete must be
// reachable without a session. With no Places key configured the proxy
// degrades to an empty list.
func Test_placesAutocomplete_public(t *testing.T) {
	env := setup(t)

	rec := env.do(getRequest("/v1/places/autocomplete?q=Lagos"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
