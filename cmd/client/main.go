package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"forum-chat/backend"
	"forum-chat/domain"
	"forum-chat/internal"
	"forum-chat/observability"
	"forum-chat/realtime"
	"forum-chat/runtime"
	"forum-chat/session"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run wires the REST client, the realtime provider and the session, then
// supervises the terminal composer until interrupted.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := internal.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Collaborators: one REST client serves history, send and the
	// realtime auth callback.
	api := backend.NewClient(log, config.APIURL, config.RequestTimeout)
	provider := realtime.NewProvider(log, api, config.DialTimeout)

	user := domain.Participant{ID: config.UserID, Name: config.UserName}
	counterpart := domain.Participant{ID: config.CounterpartID, Name: config.CounterpartName}

	metrics := observability.NewSessionMetrics()
	renderer := NewRenderer(user.ID)

	sess := session.New(log, api, api, provider, counterpart,
		config.RequestTimeout, renderer, metrics)
	defer func() {
		sess.Close()
		log.Info("Session closed", "metrics", metrics.Snapshot())
	}()

	sess.SetUser(ctx, &user)
	fmt.Printf(">>> Chatting with %s as %s (Ctrl+C to quit)\n",
		counterpart.Name, user.Name)

	// 4. The composer runs under supervision until stdin closes or the
	// context is canceled.
	sup := runtime.NewSupervisor(log, config.RestartInterval)
	sup.Add(NewComposer(log, os.Stdin, sess))
	sup.Run(ctx)

	if fault := sess.Fault(); fault != nil {
		return exitRuntime, fault
	}
	return exitOK, nil
}
