package main

import (
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_WaitsForInFlightRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		_, _ = io.WriteString(w, "done")
	})}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sigs := make(chan os.Signal, 1)
	served := make(chan error, 1)
	go func() { served <- serve(srv, ln, sigs, 5*time.Second) }()

	type result struct {
		body string
		err  error
	}
	got := make(chan result, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			got <- result{err: err}
			return
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		got <- result{body: string(b), err: err}
	}()

	<-entered
	sigs <- syscall.SIGTERM

	select {
	case err := <-served:
		t.Fatalf("serve returned before the request drained: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the drain")
	}

	r := <-got
	require.NoError(t, r.err)
	assert.Equal(t, "done", r.body)
}

func TestServe_ReturnsWhenSignalChannelCloses(t *testing.T) {
	srv := &http.Server{Handler: http.NotFoundHandler()}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	sigs := make(chan os.Signal)
	served := make(chan error, 1)
	go func() { served <- serve(srv, ln, sigs, time.Second) }()

	// Without a signal nothing shuts the server down; close it directly.
	close(sigs)
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, srv.Close())

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after close")
	}
}
