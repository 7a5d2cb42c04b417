package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"

	sendly "github.com/sendly-live/sendly-go"
	"github.com/sendly-live/sendly-go/webhooks"
)

// clientFlags are shared by every command that talks to the API.
type clientFlags struct {
	baseURL    string
	timeout    time.Duration
	maxRetries int
	verbose    bool
}

func (f *clientFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.baseURL, "base-url", "", "API base URL (overrides SENDLY_BASE_URL)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-attempt timeout (overrides SENDLY_TIMEOUT)")
	fs.IntVar(&f.maxRetries, "max-retries", 0, "retries after the first attempt (overrides SENDLY_MAX_RETRIES)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log retries and failures to stderr")
}

// newClient builds a client from the environment, then applies any flags
// the user set explicitly.
func (f *clientFlags) newClient(fs *pflag.FlagSet, cfg Config) (*sendly.Client, error) {
	env, err := sendly.LoadConfig()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	opts := append(env.Options(),
		sendly.WithLogger(slog.New(slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: level}))),
		sendly.WithUserAgent("sendly-cli"),
	)
	if fs.Changed("base-url") {
		opts = append(opts, sendly.WithBaseURL(f.baseURL))
	}
	if fs.Changed("timeout") {
		opts = append(opts, sendly.WithTimeout(f.timeout))
	}
	if fs.Changed("max-retries") {
		opts = append(opts, sendly.WithMaxRetries(f.maxRetries))
	}
	return sendly.New(env.APIKey, opts...)
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	return fs
}

// parse wraps flag errors as usage errors. Help is not an error.
func parse(fs *pflag.FlagSet, args []string, cfg Config) (bool, error) {
	fs.SetOutput(cfg.Stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return false, nil
		}
		return false, usagef("%s: %v", fs.Name(), err)
	}
	return true, nil
}

func runSend(ctx context.Context, args []string, cfg Config) error {
	var (
		flags clientFlags
		to    string
		text  string
		from  string
	)
	fs := newFlagSet("send")
	fs.StringVar(&to, "to", "", "recipient in E.164 format")
	fs.StringVar(&text, "text", "", "message text")
	fs.StringVar(&from, "from", "", "sender ID")
	flags.register(fs)
	if ok, err := parse(fs, args, cfg); !ok {
		return err
	}

	client, err := flags.newClient(fs, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	msg, err := client.Messages.SendRequest(ctx, sendly.SendMessageRequest{To: to, Text: text, From: from})
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return writeJSON(cfg.Stdout, msg)
}

func runGet(ctx context.Context, args []string, cfg Config) error {
	var flags clientFlags
	fs := newFlagSet("get")
	flags.register(fs)
	if ok, err := parse(fs, args, cfg); !ok {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("usage: sendly get <message-id>")
	}

	client, err := flags.newClient(fs, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	msg, err := client.Messages.Get(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("get: %w", err)
	}
	return writeJSON(cfg.Stdout, msg)
}

func runList(ctx context.Context, args []string, cfg Config) error {
	var (
		flags  clientFlags
		limit  int
		status string
		to     string
		all    bool
	)
	fs := newFlagSet("list")
	fs.IntVar(&limit, "limit", 20, "page size (max 100)")
	fs.StringVar(&status, "status", "", "only messages with this status")
	fs.StringVar(&to, "to", "", "only messages to this number")
	fs.BoolVar(&all, "all", false, "follow pagination and print every message, one JSON object per line")
	flags.register(fs)
	if ok, err := parse(fs, args, cfg); !ok {
		return err
	}

	client, err := flags.newClient(fs, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := &sendly.ListMessagesOptions{Limit: limit, Status: sendly.MessageStatus(status), To: to}
	if !all {
		page, err := client.Messages.List(ctx, opts)
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		return writeJSON(cfg.Stdout, page)
	}

	enc := json.NewEncoder(cfg.Stdout)
	for msg, err := range client.Messages.All(ctx, opts) {
		if err != nil {
			return fmt.Errorf("list: %w", err)
		}
		if err := enc.Encode(msg); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func runVerifyWebhook(args []string, cfg Config) error {
	var (
		secret    string
		signature string
		file      string
	)
	fs := newFlagSet("verify-webhook")
	fs.StringVar(&secret, "secret", os.Getenv("SENDLY_WEBHOOK_SECRET"), "webhook signing secret (default $SENDLY_WEBHOOK_SECRET)")
	fs.StringVar(&signature, "signature", "", "value of the X-Sendly-Signature header")
	fs.StringVarP(&file, "file", "f", "", "read the payload from this file instead of stdin")
	if ok, err := parse(fs, args, cfg); !ok {
		return err
	}
	if secret == "" || signature == "" {
		return usagef("verify-webhook: --secret and --signature are required")
	}

	var (
		payload []byte
		err     error
	)
	if file != "" {
		payload, err = os.ReadFile(file)
	} else {
		payload, err = io.ReadAll(cfg.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	event, err := webhooks.ParseEvent(string(payload), signature, secret)
	if err != nil {
		return err
	}
	return writeJSON(cfg.Stdout, event)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
