package main

import (
	"errors"
	"log/slog"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/secret"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var errNoKeys = errors.New("no signing key: pass --secret, set GOSESSION_SECRET or use --redis-addr")

// cleanup releases what buildEngine opened.
type cleanup func()

// buildEngine loads configuration and constructs an Engine. Key material comes
// from the Redis keyring when --redis-addr is set, otherwise from the static
// secret; requireKeys makes a missing source an error.
func buildEngine(cmd *cobra.Command, opts *globalOptions, requireKeys bool) (*goSession.Engine, cleanup, error) {
	cfg, err := loadConfig(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	var (
		keys    secret.Provider
		release = func() {}
	)
	switch {
	case opts.redisAddr != "":
		ring, client, err := openKeyring(opts)
		if err != nil {
			return nil, nil, err
		}
		keys = ring
		release = func() { _ = client.Close() }
	case len(opts.signingSecret()) > 0:
		keys = secret.Static(opts.signingSecret())
	case requireKeys:
		return nil, nil, errNoKeys
	}

	engine, err := goSession.New().
		WithConfig(cfg).
		WithKeyProvider(keys).
		WithLogger(slog.Default()).
		Build()
	if err != nil {
		release()
		return nil, nil, err
	}

	return engine, func() {
		engine.Close()
		release()
	}, nil
}

func openKeyring(opts *globalOptions) (*secret.RedisKeyring, redis.UniversalClient, error) {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{opts.redisAddr},
	})
	ring, err := secret.NewRedisKeyring(client, opts.keyPrefix)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return ring, client, nil
}
