// Package contextual carries program-wide values through command contexts.
package contextual

import (
	"context"

	"github.com/hostutils/diskinfo/internal/config"
)

// configKey is used to set and retrieve context held values for Config.
var configKey = struct{}{}

// WithConfig extends the context to provide the loaded Config.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// Config fetches the loaded Config provided in ctx.
func Config(ctx context.Context) *config.Config {
	if val := ctx.Value(configKey); val != nil {
		if v, ok := val.(*config.Config); ok {
			return v
		}
		panic("incoherent context")
	}

	return nil
}
