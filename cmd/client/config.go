package main

import "time"

// Config defines the client-side environment variables.
type Config struct {
	APIURL          string        `env:"API_URL,default=http://localhost:8080"`
	UserID          int64         `env:"USER_ID,required=true"`
	UserName        string        `env:"USER_NAME,required=true"`
	CounterpartID   int64         `env:"COUNTERPART_ID,default=1"`
	CounterpartName string        `env:"COUNTERPART_NAME,default=Admin"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	DialTimeout     time.Duration `env:"DIAL_TIMEOUT,default=5s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	LogLevel        string        `env:"LOG_LEVEL,default=warn"`
}
