package main

import "time"

type Config struct {
	Host           string        `env:"HOST,default=localhost"`
	Port           int           `env:"PORT,default=8080"`
	BadgerFilepath string        `env:"BADGER_FILEPATH,required=true"`
	LimitMessages  *int          `env:"LIMIT_MESSAGES"`
	RedisAddr      string        `env:"REDIS_ADDR,required=true"`
	RedisUsername  string        `env:"REDIS_USERNAME"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB,default=0"`
	TokenSecret    string        `env:"TOKEN_SECRET,required=true"`
	TokenDuration  time.Duration `env:"TOKEN_DURATION,default=1h"`
	LogLevel       string        `env:"LOG_LEVEL,default=info"`
}
