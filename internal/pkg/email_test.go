package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailBodiesEscapeUsername(t *testing.T) {
	name := `<script>alert("x")</script>`
	for _, body := range []string{WelcomeHTML(name), BlockNoticeHTML(name, true), BlockNoticeHTML(name, false)} {
		assert.NotContains(t, body, "<script>")
		assert.Contains(t, body, "&lt;script&gt;")
	}
	assert.Contains(t, WelcomeHTML("ana"), "<b>ana</b>")
}
