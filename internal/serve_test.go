package internal_test

import (
	"context"
	"fmt"
	"github.com/brodo/incbundle/internal"
	"github.com/stretchr/testify/require"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestServe_RequiresDevServerPort(t *testing.T) {
	p := lookup(t, internal.ProductionMinProfile)
	err := internal.Serve(context.Background(), p, internal.BundleOptions{WorkDir: t.TempDir()})
	require.ErrorIs(t, err, internal.ErrNoDevServer)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestServe_ServesDevelopmentBundle(t *testing.T) {
	dir := writeEntry(t)
	port := freePort(t)
	p := lookup(t, internal.DevelopmentProfile).WithOverrides(internal.Overrides{DevPort: port})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- internal.Serve(ctx, p, internal.BundleOptions{WorkDir: dir, ServeHost: "127.0.0.1"})
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/dev.inc.js", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK && len(body) > 0
	}, 10*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("dev server did not stop")
	}
}
