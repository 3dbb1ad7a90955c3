package cmd

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSlugPattern(t *testing.T) {
	for _, slug := range []string{"cats", "test-slug", "under_score", "Group1"} {
		assert.True(t, slugPattern.MatchString(slug), slug)
	}
	for _, slug := range []string{"", "with space", "кошки", "a/b"} {
		assert.False(t, slugPattern.MatchString(slug), slug)
	}
}

func TestSetLogLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"error":   log.ErrorLevel,
		"verbose": log.InfoLevel,
	}
	for level, want := range tests {
		setLogLevel(level)
		assert.Equal(t, want, log.GetLevel(), level)
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"serve", "migrate", "db-stats", "createuser", "group"} {
		assert.True(t, names[name], name)
	}
}
