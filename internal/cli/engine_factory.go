package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/qqdb/molstar"
	"github.com/qqdb/molstar/internal/adapters/file"
	"github.com/qqdb/molstar/pkg/adapters/redis"
	"github.com/qqdb/molstar/pkg/persistence/middleware"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/runner"
)

// createPlugin initializes a molstar plugin with standard CLI
// conventions: the handler's observer for progress, debug hooks when
// asked, and a snapshot store when a session is named.
func createPlugin(opts RunOptions, logger *slog.Logger, handler runner.OutputHandler) (*molstar.Plugin, error) {
	pluginOpts := []molstar.Option{
		molstar.WithLogger(logger),
		molstar.WithObserver(runner.Observer(handler)),
	}
	if opts.Debug {
		pluginOpts = append(pluginOpts, molstar.WithLifecycleHooks(createDebugHooks(logger)))
	}

	if opts.SessionID != "" {
		store, err := CreateStore(opts.RedisURL, opts.StateDir, opts.StateKey)
		if err != nil {
			return nil, err
		}
		pluginOpts = append(pluginOpts, molstar.WithStore(store))
	}

	plugin, err := molstar.New(pluginOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing plugin: %w", err)
	}
	return plugin, nil
}

// CreateStore selects the snapshot store from the flags: Redis when an
// address is given, the local file store otherwise. A state key wraps
// the store in AES-GCM encryption. Exported because the session command
// family manages stores without building a tree.
func CreateStore(redisURL, stateDir, stateKey string) (ports.SnapshotStore, error) {
	var store ports.SnapshotStore
	if redisURL != "" {
		store = redis.New(redisURL, "", 0)
	} else {
		store = file.New(stateDir)
	}

	if stateKey != "" {
		key, err := hex.DecodeString(stateKey)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("state key must be 64 hex characters (AES-256)")
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey: key,
		})(store)
	}
	return store, nil
}
