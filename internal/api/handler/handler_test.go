package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "/profile/leo/", profileURL("leo"))
	assert.Equal(t, "/profile/leo.tolstoy@example.com/", profileURL("leo.tolstoy@example.com"))
	assert.Equal(t, "/profile/a%2Fb%20c/", profileURL("a/b c"))
}

func TestPostURL(t *testing.T) {
	assert.Equal(t, "/posts/42/", postURL(42))
}

func TestParseUintParam(t *testing.T) {
	id, err := parseUintParam("7")
	assert.NoError(t, err)
	assert.Equal(t, uint(7), id)

	for _, raw := range []string{"", "-1", "abc", "99999999999999999999"} {
		_, err := parseUintParam(raw)
		assert.Error(t, err, raw)
	}
}
