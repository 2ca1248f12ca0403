package main

import "time"

type Config struct {
	BufferSize        int           `env:"BUFFER_SIZE,required=true"`
	StreamBufferSize  int           `env:"STREAM_BUFFER_SIZE,required=true"`
	ModerationMask    string        `env:"MODERATION_MASK,default=*"`
	WordlistPath      string        `env:"WORDLIST_PATH"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,required=true"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,required=true"`
	HealthInterval    time.Duration `env:"HEALTH_INTERVAL,default=30s"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	SearchFilepath    string        `env:"SEARCH_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	LogLevel          string        `env:"LOG_LEVEL,required=true"`
	Host              string        `env:"HOST,default=localhost"`
	Port              int           `env:"PORT,default=8080"`
}
