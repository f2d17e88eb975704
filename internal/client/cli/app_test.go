package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/geojournal/internal/client/client"
	"github.com/dmitrijs2005/geojournal/internal/client/config"
	"github.com/dmitrijs2005/geojournal/internal/client/mirror"
	"github.com/dmitrijs2005/geojournal/internal/client/probe"
	"github.com/dmitrijs2005/geojournal/internal/client/repositories/kv"
	"github.com/dmitrijs2005/geojournal/internal/client/services"
	"github.com/dmitrijs2005/geojournal/internal/logging"
	"github.com/dmitrijs2005/geojournal/internal/models"
	"github.com/dmitrijs2005/geojournal/internal/server/api"
	"github.com/dmitrijs2005/geojournal/internal/server/repositories/entries"
	srvservices "github.com/dmitrijs2005/geojournal/internal/server/services"
)

// startStore runs the real journal store API over an in-memory repository.
func startStore(t *testing.T) *httptest.Server {
	t.Helper()
	nop := logging.NewNopLogger()
	svc := srvservices.NewEntryService(entries.NewMemoryRepository(), nil, nop)
	srv := httptest.NewServer(api.NewServer("", api.NewHandler(svc, nop), nil, time.Second, nop).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, serverURL, input string) (*App, *bytes.Buffer) {
	t.Helper()
	nop := logging.NewNopLogger()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerURL = serverURL
	cfg.DatabasePath = MemoryDatabase

	reg := prometheus.NewRegistry()
	remote := client.NewHTTPClient(serverURL, time.Second)
	gw := services.NewGateway(remote, mirror.New(kv.NewMemoryStore(), nop), nop, reg)
	w := probe.NewWatcher(probe.NewHTTPProber(remote, time.Second), time.Hour, nop)

	out := &bytes.Buffer{}
	return newApp(cfg, nop, gw, w, reg, strings.NewReader(input), out), out
}

func fixedNow(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

const addInput = "51.5007\n-0.1246\nLandmark\nBig Ben\n\nhttps://cdn/bigben.jpg\n"

func TestAdd_Online(t *testing.T) {
	fixedNow(t)
	srv := startStore(t)
	a, out := newTestApp(t, srv.URL, addInput)

	require.NoError(t, a.Add(context.Background()))
	assert.Contains(t, out.String(), "(remote)")
	assert.NotContains(t, out.String(), models.LocalIDPrefix)

	out.Reset()
	require.NoError(t, a.List(context.Background()))
	assert.Contains(t, out.String(), "1 entries (remote)")
	assert.Contains(t, out.String(), "Big Ben")
	assert.Contains(t, out.String(), "Sat, 01 Jun 2024 12:00")
}

func TestAdd_RepromptsOnBadInput(t *testing.T) {
	fixedNow(t)
	srv := startStore(t)
	a, out := newTestApp(t, srv.URL, "north\n91\n10\n20\nshopping\nfood\nramen\n\n\n")

	require.NoError(t, a.Add(context.Background()))
	assert.Contains(t, out.String(), "Enter a number between -90 and 90")
	assert.Contains(t, out.String(), "Unknown category")
	assert.Contains(t, out.String(), "(remote)")
}

func TestAdd_EmptyAnswerCancels(t *testing.T) {
	a, _ := newTestApp(t, "http://127.0.0.1:1", "\n")
	require.ErrorIs(t, a.Add(context.Background()), ErrCancelled)
}

func TestOfflineFlow(t *testing.T) {
	fixedNow(t)
	srv := startStore(t)
	url := srv.URL
	srv.Close()

	a, out := newTestApp(t, url, addInput)
	ctx := context.Background()

	require.NoError(t, a.Add(ctx))
	assert.Contains(t, out.String(), "Saved "+models.LocalIDPrefix)
	assert.Contains(t, out.String(), "(local)")

	out.Reset()
	require.NoError(t, a.Pending(ctx))
	assert.Contains(t, out.String(), "1 entries only on this device")

	out.Reset()
	require.NoError(t, a.Status(ctx))
	assert.Contains(t, out.String(), "offline")

	out.Reset()
	require.NoError(t, a.List(ctx))
	assert.Contains(t, out.String(), "1 entries (local)")
}

func TestDelete_ReportsSource(t *testing.T) {
	srv := startStore(t)
	a, out := newTestApp(t, srv.URL, "")

	require.NoError(t, a.Delete(context.Background(), "does-not-exist"))
	assert.Contains(t, out.String(), "Deleted does-not-exist (remote)")
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.yaml")
	require.NoError(t, writeSnapshot(in, sampleEntries()))

	a, out := newTestApp(t, "http://127.0.0.1:1", "")
	ctx := context.Background()

	require.NoError(t, a.Import(ctx, in))
	assert.Contains(t, out.String(), "Imported 2 entries")

	exported := filepath.Join(dir, "out.json")
	require.NoError(t, a.Export(ctx, exported))
	assert.Contains(t, out.String(), "Exported 2 entries (local)")

	got, err := readSnapshot(exported)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.ErrorIs(t, a.Import(ctx, filepath.Join(dir, "in.csv")), ErrUnsupportedFormat)
}

func TestStatus_Online(t *testing.T) {
	srv := startStore(t)
	a, out := newTestApp(t, srv.URL, "")

	require.NoError(t, a.Status(context.Background()))
	assert.Contains(t, out.String(), "Switched to online mode")
	assert.Contains(t, out.String(), srv.URL+": online")
	assert.Equal(t, "(online)", a.getStatus())
	assert.Contains(t, out.String(), "No operations yet")
}

func TestStatus_ReportsServedCounts(t *testing.T) {
	fixedNow(t)
	srv := startStore(t)
	a, out := newTestApp(t, srv.URL, addInput+addInput)
	ctx := context.Background()

	require.NoError(t, a.Add(ctx))
	require.NoError(t, a.List(ctx))
	srv.Close()
	require.NoError(t, a.Add(ctx))
	require.NoError(t, a.List(ctx))

	out.Reset()
	require.NoError(t, a.Status(ctx))
	got := out.String()
	assert.Contains(t, got, "offline")
	assert.Contains(t, got, "OPERATION")
	assert.Regexp(t, `create\s+remote\s+1\n`, got)
	assert.Regexp(t, `create\s+local\s+1\n`, got)
	assert.Regexp(t, `list\s+remote\s+1\n`, got)
	assert.Regexp(t, `list\s+local\s+1\n`, got)
	assert.NotContains(t, got, "Device store failed")
}

func TestRun_ExitsOnQuit(t *testing.T) {
	srv := startStore(t)
	a, out := newTestApp(t, srv.URL, "list\nquit\n")

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.Contains(t, out.String(), "Welcome to GeoJournal")
	assert.Contains(t, out.String(), "Bye!")
}

func TestNewApp(t *testing.T) {
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "device", "journal.db")

	a, err := NewApp(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	assert.False(t, a.prompt)
	assert.NotNil(t, a.stats)
	require.Len(t, a.closers, 1)
	closeAll(a.closers)

	_, err = os.Stat(cfg.DatabasePath)
	require.NoError(t, err)

	cfg.DatabasePath = MemoryDatabase
	cfg.ProbeMode = config.ProbeModeGRPC
	a, err = NewApp(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, a.closers, 1, "grpc prober is closed with the app")
	closeAll(a.closers)
}
