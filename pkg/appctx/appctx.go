// Package appctx carries application-wide dependencies through
// context.Context without creating import cycles between the CLI, the
// server, and the service packages.
package appctx

import (
	"context"

	"github.com/reelcraft/reelcraft/pkg/config"
)

type contextKey string

const configKey contextKey = "config"

// WithConfig returns a context carrying the config manager.
func WithConfig(ctx context.Context, mgr *config.Manager) context.Context {
	return context.WithValue(ctx, configKey, mgr)
}

// ConfigFrom extracts the config manager from ctx, or nil when absent.
func ConfigFrom(ctx context.Context) *config.Manager {
	mgr, _ := ctx.Value(configKey).(*config.Manager)
	return mgr
}
