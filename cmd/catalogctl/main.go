// Command catalogctl is a terminal console for the product catalog API.
package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx, newRootCmd())
	stop()
	if err != nil {
		os.Exit(1)
	}
}
