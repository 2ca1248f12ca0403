package main

import (
	"testing"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func Test_Config_Parses_With_Defaults(t *testing.T) {
	req := require.New(t)

	// Only the required variables are set; every defaulted field,
	// MODERATION_MASK included, must parse without being present
	for key, value := range map[string]string{
		"BUFFER_SIZE":        "64",
		"STREAM_BUFFER_SIZE": "16",
		"SINK_TIMEOUT":       "5s",
		"RESTART_INTERVAL":   "1s",
		"BADGER_FILEPATH":    "/tmp/chat-mesh/db",
		"SEARCH_FILEPATH":    "/tmp/chat-mesh/index",
		"JWT_SECRET":         "test-secret",
		"LOG_LEVEL":          "info",
	} {
		t.Setenv(key, value)
	}

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)
	req.Equal("*", config.ModerationMask)
	req.Equal("localhost", config.Host)
	req.Equal(8080, config.Port)
}

func Test_Mask_Rune(t *testing.T) {
	req := require.New(t)

	req.Equal('*', maskRune("*"))
	req.Equal('#', maskRune("#ignored"))
	// An empty value still yields a usable mask
	req.Equal('*', maskRune(""))
}
