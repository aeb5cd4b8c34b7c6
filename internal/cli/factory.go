package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/moedit"
	"github.com/aretw0/moedit/internal/config"
	"github.com/aretw0/moedit/pkg/adapters/file"
	"github.com/aretw0/moedit/pkg/adapters/memory"
	"github.com/aretw0/moedit/pkg/adapters/redis"
	"github.com/aretw0/moedit/pkg/domain"
	"github.com/aretw0/moedit/pkg/observability"
	"github.com/aretw0/moedit/pkg/persistence/middleware"
	"github.com/aretw0/moedit/pkg/ports"
)

// Options are the persistent command-line flags.
type Options struct {
	ConfigPath string
	Dir        string
	Store      string
	Debug      bool
}

// LoadConfig reads the configuration file and applies flag overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if opts.Dir != "" {
		cfg.Store.Root = opts.Dir
	}
	if opts.Store != "" {
		cfg.Store.Kind = opts.Store
	}
	if opts.Debug {
		cfg.LogLevel = "debug"
	}
	return cfg, cfg.Validate()
}

// NewEditor builds an Editor from the configuration.
// The returned close function releases store connections.
func NewEditor(cfg config.Config, logger *slog.Logger, hooks ...domain.Hooks) (*moedit.Editor, func() error, error) {
	closer := func() error { return nil }

	opts := []moedit.Option{
		moedit.WithLogger(logger),
		moedit.WithIndent(cfg.Indent),
		moedit.WithHooks(observability.Chain(append([]domain.Hooks{observability.LoggingHooks(logger)}, hooks...)...)),
	}

	if cfg.AllowDuplicates {
		opts = append(opts, moedit.WithAllowDuplicates())
	}

	mws, err := storeMiddlewares(cfg.Store)
	if err != nil {
		return nil, closer, err
	}

	var store ports.DocumentStore
	switch cfg.Store.Kind {
	case config.StoreFile, "":
		store = file.New(cfg.Store.Root)
	case config.StoreMemory:
		store = memory.NewStore()
	case config.StoreRedis:
		rc := cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		store = rs
		opts = append(opts,
			moedit.WithLocker(redis.NewLocker(rs.Client(), rc.Prefix)),
			moedit.WithLockTTL(rc.LockTTL),
		)
		closer = rs.Close
	default:
		return nil, closer, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
	opts = append(opts, moedit.WithStore(middleware.Chain(store, mws...)))

	ed, err := moedit.New(opts...)
	if err != nil {
		_ = closer()
		return nil, func() error { return nil }, fmt.Errorf("error initializing editor: %w", err)
	}
	return ed, closer, nil
}

// storeMiddlewares builds the store decorators requested by the configuration.
func storeMiddlewares(sc config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if sc.ReadOnly {
		mws = append(mws, middleware.NewReadOnlyMiddleware())
	}
	if sc.Encryption.Enabled() {
		active, fallback, err := sc.Encryption.Keys()
		if err != nil {
			return nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:      active,
			FallbackKeys:   fallback,
			AllowPlaintext: sc.Encryption.AllowPlaintext,
		})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}
