// sendly is a small operator CLI for the Sendly API.
//
//	sendly send --to +15551234567 --text "hello"
//	sendly get msg_abc123
//	sendly list --limit 50 --status delivered
//	sendly list --all
//	sendly verify-webhook --secret whsec_... --signature sha256=... < payload.json
//
// The API key is read from SENDLY_API_KEY (or a .env file). SENDLY_BASE_URL,
// SENDLY_TIMEOUT and SENDLY_MAX_RETRIES are honored and can be overridden
// with flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Config holds the process streams, so tests can run commands in-process.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a Config wired to the process streams.
func DefaultConfig() Config {
	return Config{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], DefaultConfig())
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var usage *usageError
		if errors.As(err, &usage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

const usage = `usage: sendly <command> [flags]

commands:
  send            send an SMS
  get             show a message by ID
  list            list messages
  verify-webhook  verify and decode a webhook payload
`

func run(ctx context.Context, args []string, cfg Config) error {
	if len(args) == 0 {
		fmt.Fprint(cfg.Stderr, usage)
		return usagef("missing command")
	}

	switch args[0] {
	case "send":
		return runSend(ctx, args[1:], cfg)
	case "get":
		return runGet(ctx, args[1:], cfg)
	case "list":
		return runList(ctx, args[1:], cfg)
	case "verify-webhook":
		return runVerifyWebhook(args[1:], cfg)
	case "help", "-h", "--help":
		fmt.Fprint(cfg.Stdout, usage)
		return nil
	default:
		fmt.Fprint(cfg.Stderr, usage)
		return usagef("unknown command: %s", args[0])
	}
}
