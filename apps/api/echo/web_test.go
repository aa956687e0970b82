package echoapi

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_home(t *testing.T) {
	env := setup(t)

	rec := env.do(getRequest("/"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Walimu")
	assert.Contains(t, rec.Body.String(), "Become a tutor")
}

func Test_contentPage(t *testing.T) {
	env := setup(t)

	t.Run("renders markdown", func(t *testing.T) {
		rec := env.do(getRequest("/pages/how-it-works"))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "<h1>How it works</h1>")
	})

	t.Run("unknown slug", func(t *testing.T) {
		rec := env.do(getRequest("/pages/nope"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("path traversal is not a slug", func(t *testing.T) {
		rec := env.do(getRequest("/pages/..%2Fcommon-passwords"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_createTutorRequest(t *testing.T) {
	env := setup(t)

	t.Run("missing fields re-render the form", func(t *testing.T) {
		form := url.Values{"subject": {"Mathematics"}}
		rec := env.do(formRequest("/request-tutor", form))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "required")
		assert.Contains(t, body, "Mathematics", "submitted values survive the re-render")
	})

	t.Run("valid request", func(t *testing.T) {
		form := url.Values{"subject": {"Mathematics"}, "level": {"Secondary"}}
		rec := env.do(formRequest("/request-tutor", form))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Request received")
	})
}

func Test_loginPage_redirectsAuthenticated(t *testing.T) {
	env := setup(t)

	rec := env.do(getRequest("/login"))
	assert.Equal(t, http.StatusOK, rec.Code)

	_, cookie := env.authenticate(t, "tutor")
	rec = env.do(getRequest("/login", cookie))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard/tutor", rec.Header().Get("Location"))
}
