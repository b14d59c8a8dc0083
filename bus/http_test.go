package bus_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/threshold-signer/bus"
)

func newTestServer() *httptest.Server {
	srv := bus.NewServer(bus.NewRegistry(), nil)
	return httptest.NewServer(srv.Handler())
}

func TestHandleBroadcastAcceptsBody(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/rooms/r1/broadcast", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleIssueUniqueIdxReturnsIncrementingJSON(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/rooms/r1/issue_unique_idx", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body strings.Builder
	buf := make([]byte, 256)
	n, _ := resp.Body.Read(buf)
	body.Write(buf[:n])
	assert.Contains(t, body.String(), `"unique_idx":0`)
}

func TestHandleSubscribeStreamsPublishedMessages(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/rooms/r2/subscribe", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = http.Post(ts.URL+"/rooms/r2/broadcast", "text/plain", strings.NewReader("payload"))
	}()

	scanner := bufio.NewScanner(resp.Body)
	var sawData bool
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			assert.Equal(t, "data: payload", line)
			sawData = true
			break
		}
	}
	assert.True(t, sawData, "expected to observe the published message over SSE")
}
