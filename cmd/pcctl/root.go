package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/Sternrassler/partner-center-client/pkg/client"
	"github.com/Sternrassler/partner-center-client/pkg/config"
	"github.com/Sternrassler/partner-center-client/pkg/logging"
	"github.com/Sternrassler/partner-center-client/pkg/metrics"
	"github.com/Sternrassler/partner-center-client/pkg/partnercenter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	out         io.Writer
	baseURL     string
	metricsAddr string

	client        *client.Client
	partner       *partnercenter.Partner
	redis         *redis.Client
	metricsServer *http.Server
	logger        zerolog.Logger
}

// run executes pcctl with args and releases every resource it opened.
func run(ctx context.Context, out io.Writer, args []string) error {
	a := &app{out: out}
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pcctl",
		Short:         "Query the Microsoft Partner Center API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	rootCmd.SetOut(a.out)
	rootCmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "Partner Center base URL (overrides PARTNER_CENTER_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&a.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running, e.g. :9090")

	rootCmd.AddCommand(
		newOffersCmd(a),
		newInvoicesCmd(a),
		newDomainsCmd(a),
		newCustomersCmd(a),
	)

	return rootCmd
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}

	a.logger = logging.Setup(cfg.Logging())

	a.redis, err = cfg.Redis(ctx)
	if err != nil {
		return err
	}

	a.client, err = client.New(cfg.ClientConfig(a.redis))
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	a.partner = partnercenter.New(a.client)

	if a.metricsAddr != "" {
		if err := a.serveMetrics(); err != nil {
			return err
		}
	}

	a.logger.Debug().
		Str("base_url", a.client.BaseURL()).
		Str("correlation_id", a.client.CorrelationID()).
		Bool("redis", a.redis != nil).
		Msg("Client ready")
	return nil
}

func (a *app) serveMetrics() error {
	ln, err := net.Listen("tcp", a.metricsAddr)
	if err != nil {
		return fmt.Errorf("listen on metrics address: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	a.metricsServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.metricsServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	a.logger.Info().Str("addr", ln.Addr().String()).Msg("Serving metrics")
	return nil
}

func (a *app) close() error {
	var errs []error
	if a.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		errs = append(errs, a.metricsServer.Shutdown(ctx))
	}
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	return errors.Join(errs...)
}

// printJSON writes v as one line of JSON.
func (a *app) printJSON(v any) error {
	return json.NewEncoder(a.out).Encode(v)
}
