// Command pcctl reads Partner Center resources and prints them as JSON
// lines.
//
// Configuration comes from the environment (see pkg/config); at least
// PARTNER_CENTER_TOKEN must be set.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/partner-center-client/pkg/client"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		event := log.Error().Err(err)
		if status := client.StatusCode(err); status != 0 {
			event = event.Int("status", status)
		}
		event.Msg("pcctl failed")
		stop()
		os.Exit(1)
	}
}
