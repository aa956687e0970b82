package appfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The underscore-prefixed partials are excluded from plain embed patterns;
// every page and email render depends on them being present.
func TestFS_includesPartials(t *testing.T) {
	for _, name := range []string{
		"assets/templates/web/_layout.gohtml",
		"assets/templates/web/_field_errors.gohtml",
		"assets/templates/email/_base.txt",
		"assets/templates/email/_base.gohtml",
		"assets/common-passwords.txt",
		"migrations/00001_create_sessions.sql",
	} {
		data, err := FS.ReadFile(name)
		assert.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}
}

func TestStaticFS(t *testing.T) {
	f, err := StaticFS.Open("walimu.js")
	assert.NoError(t, err)
	if err == nil {
		_ = f.Close()
	}
}
