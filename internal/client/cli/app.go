package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/riya9927/balkanid-capstone/internal/client/api"
	"github.com/riya9927/balkanid-capstone/internal/client/config"
	"github.com/riya9927/balkanid-capstone/internal/client/gateway"
	"github.com/riya9927/balkanid-capstone/internal/client/ingest"
	"github.com/riya9927/balkanid-capstone/internal/client/projection"
	"github.com/riya9927/balkanid-capstone/internal/client/realtime"
	"github.com/riya9927/balkanid-capstone/internal/client/registry"
	"github.com/riya9927/balkanid-capstone/internal/client/snapshot"
	"github.com/riya9927/balkanid-capstone/internal/logging"
	"github.com/riya9927/balkanid-capstone/internal/observability"
)

// App wires the registry core together behind the interactive shell: the
// store holds cached metadata, the loader pulls snapshots, the gateway
// applies mutations, and the push channel feeds the ingestor in the
// background for as long as the shell runs.
type App struct {
	config  *config.Config
	log     logging.Logger
	store   *registry.Store
	loader  *snapshot.Loader
	gateway *gateway.Gateway
	channel *realtime.Channel
	ingest  *ingest.Ingestor
	watches map[string]*projection.Projection
	reader  *bufio.Reader
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	if c.Username == "" {
		return nil, errors.New("username is required (-u flag or config file)")
	}

	metrics, err := observability.NewRegistryMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, err
	}
	if c.MetricsAddr != "" {
		observability.StartMetricsServer(c.MetricsAddr, log)
	}

	apiClient := api.NewHTTPClient(c.EndpointAddr, c.Username, c.RequestTimeout)
	store := registry.NewStore(metrics)
	loader := snapshot.NewLoader(store, apiClient, log, metrics)

	return &App{
		config:  c,
		log:     log,
		store:   store,
		loader:  loader,
		gateway: gateway.New(store, apiClient, log, metrics),
		channel: realtime.NewChannel(c.EndpointAddr, c.Username, c.ReconnectMinBackoff, c.ReconnectMaxBackoff, log),
		ingest:  ingest.New(store, loader, log, metrics),
		watches: make(map[string]*projection.Projection),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s, %d files)", a.config.Username, len(a.store.List(nil)))
}

// Run loads the initial snapshot, starts the push channel and hands control
// to the REPL. It returns when the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.loader.RefreshAll(ctx); err != nil {
		a.log.Warn(ctx, "initial snapshot failed, starting with an empty registry", "error", err)
	}

	go func() {
		if err := a.channel.Run(ctx, a.ingest); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Error(ctx, "push channel stopped", "error", err)
		}
	}()

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))

	for _, p := range a.watches {
		p.Close()
	}
}
