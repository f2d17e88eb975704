package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/geojournal/internal/client/client"
	"github.com/dmitrijs2005/geojournal/internal/client/config"
	"github.com/dmitrijs2005/geojournal/internal/client/mirror"
	"github.com/dmitrijs2005/geojournal/internal/client/probe"
	"github.com/dmitrijs2005/geojournal/internal/client/repositories/kv"
	"github.com/dmitrijs2005/geojournal/internal/client/services"
	"github.com/dmitrijs2005/geojournal/internal/filex"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

// MemoryDatabase selects the in-memory device store instead of SQLite.
const MemoryDatabase = ":memory:"

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config  *config.Config
	logger  logging.Logger
	gateway *services.Gateway
	watcher *probe.Watcher
	stats   prometheus.Gatherer
	closers []io.Closer

	in     *bufio.Reader
	out    io.Writer
	prompt bool
}

// NewApp opens the device store and builds the gateway and watcher described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		store   kv.Store
		closers []io.Closer
	)
	if c.DatabasePath == MemoryDatabase {
		store = kv.NewMemoryStore()
	} else {
		if _, err := filex.EnsureParentDir(c.DatabasePath); err != nil {
			return nil, err
		}
		db, err := kv.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		store = kv.NewSQLiteStore(db)
		closers = append(closers, db)
	}

	reg := prometheus.NewRegistry()
	remote := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	gw := services.NewGateway(remote, mirror.New(store, logger), logger, reg)

	prober, err := newProber(c, remote)
	if err != nil {
		closeAll(closers)
		return nil, err
	}
	if cl, ok := prober.(io.Closer); ok {
		closers = append(closers, cl)
	}

	a := newApp(c, logger, gw, probe.NewWatcher(prober, c.OnlineCheckInterval, logger), reg, os.Stdin, os.Stdout)
	a.prompt = isTerminal(int(os.Stdin.Fd()))
	a.closers = closers
	return a, nil
}

func newProber(c *config.Config, remote *client.HTTPClient) (probe.Prober, error) {
	switch c.ProbeMode {
	case config.ProbeModeGRPC:
		p, err := probe.NewGRPCProber(c.GRPCHealthAddr, c.GRPCHealthService, c.ProbeTimeout)
		if err != nil {
			return nil, fmt.Errorf("grpc prober: %w", err)
		}
		return p, nil
	default:
		return probe.NewHTTPProber(remote, c.ProbeTimeout), nil
	}
}

func newApp(c *config.Config, logger logging.Logger, gw *services.Gateway, w *probe.Watcher, stats prometheus.Gatherer, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		logger:  logger,
		gateway: gw,
		watcher: w,
		stats:   stats,
		in:      bufio.NewReader(in),
		out:     &lockedWriter{w: out},
	}
	w.OnChange(func(online bool) {
		fmt.Fprintf(a.out, "Switched to %s mode\n", modeName(online))
	})
	return a
}

func modeName(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}

func (a *App) getStatus() string {
	return fmt.Sprintf("(%s)", modeName(a.watcher.Online()))
}

// Run starts the connectivity watcher and blocks in the REPL until the user
// exits, input ends or ctx is cancelled. Resources are released on return.
func (a *App) Run(ctx context.Context) error {
	defer closeAll(a.closers)

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.watcher.Run(ctx)
	}()

	fmt.Fprintln(a.out, "Welcome to GeoJournal (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.in, a.out, a.prompt)

	cancel()
	wg.Wait()
	return nil
}

func closeAll(closers []io.Closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		_ = closers[i].Close()
	}
}

// lockedWriter serializes writes from the REPL and the watcher callback.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
