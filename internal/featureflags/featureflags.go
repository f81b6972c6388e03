// Package featureflags exposes the remotely controlled switches of the API server.
//
// Without a Rollout key the flags keep their default values.
package featureflags

import (
	"context"
	"fmt"
	"sync"

	"github.com/rollout/rox-go/v5/server"
)

// Flags is the registered flag container.
type Flags struct {
	// Offline rejects every non-health request with 503 while enabled.
	Offline server.RoxFlag
	// LogLevel drives the process log level.
	LogLevel server.RoxString
}

var (
	mu    sync.Mutex
	rox   *server.Rox
	flags = newFlags()
)

func newFlags() *Flags {
	return &Flags{
		Offline:  server.NewRoxFlag(false),
		LogLevel: server.NewRoxString("info", []string{"debug", "info", "warn", "error"}),
	}
}

// Values returns the flag container.
func Values() *Flags {
	return flags
}

// Init registers the flags and waits for the first sync, bounded by ctx.
func Init(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("no rollout key configured, using default flag values")
	}

	mu.Lock()
	defer mu.Unlock()
	if rox != nil {
		return nil
	}

	r := server.NewRox()
	r.Register("catalog", flags)
	options := server.NewRoxOptions(server.RoxOptionsBuilder{})

	select {
	case <-r.Setup(apiKey, options):
	case <-ctx.Done():
		r.Shutdown()
		return fmt.Errorf("rollout setup: %w", ctx.Err())
	}
	rox = r
	return nil
}

// Shutdown stops the flag client if it was started.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if rox != nil {
		rox.Shutdown()
		rox = nil
	}
}
