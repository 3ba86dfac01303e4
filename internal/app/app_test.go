package app

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundview/internal/config"
	apierrors "fundview/internal/errors"
	"fundview/internal/shared/testutil"
	"fundview/pkg/contracts/events"
)

// testConfig listens on an ephemeral loopback port and serves dataFile
func testConfig(dataFile string) *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Security.RateLimit.Enabled = false
	cfg.Data.File = dataFile
	cfg.Data.PollInterval = 0
	return cfg
}

func startApp(t *testing.T, cfg *config.Config) (*Application, string) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)

	a, err := New(cfg, logger)
	require.NoError(t, err)
	require.NoError(t, a.Start(context.Background()))
	t.Cleanup(func() {
		assert.NoError(t, a.Stop(context.Background()))
	})

	return a, "http://" + a.Addr()
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func decode(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return out
}

func TestApplication_Serves(t *testing.T) {
	path := testutil.WriteWorkbook(t, testutil.StandardSheet())
	_, base := startApp(t, testConfig(path))

	t.Run("dashboard", func(t *testing.T) {
		resp, body := get(t, base+"/")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "https://cdn.plot.ly")
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.Contains(t, string(body), config.AppName)
	})

	t.Run("figure", func(t *testing.T) {
		resp, body := get(t, base+"/api/figure?metric=Average+Fund+Size")
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		data := decode(t, body)["data"].([]interface{})
		require.Len(t, data, 2)
		assert.Equal(t, []interface{}{2006.0, 2007.0, 2008.0}, data[0].(map[string]interface{})["x"])
	})

	t.Run("data", func(t *testing.T) {
		resp, body := get(t, base+"/api/data")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode(t, body)
		assert.Equal(t, 3.0, out["count"])
		assert.Equal(t, "exact", out["strategy"])
	})

	t.Run("csv", func(t *testing.T) {
		resp, body := get(t, base+"/api/data.csv")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "2006,10,1234,123.4", lines[1])
	})

	t.Run("png", func(t *testing.T) {
		resp, body := get(t, base+"/api/chart.png?width=400&height=300")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		assert.True(t, strings.HasPrefix(string(body), "\x89PNG"))
	})

	t.Run("ready", func(t *testing.T) {
		resp, body := get(t, base+"/api/health/ready")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ready", decode(t, body)["status"])
	})

	t.Run("prometheus", func(t *testing.T) {
		resp, body := get(t, base+"/metrics")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "go_goroutines")
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, body := get(t, base+"/api/nope")
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, apierrors.TypeNotFound, decode(t, body)["type"])
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Post(base+"/api/figure", "application/json", strings.NewReader("{}"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestApplication_StartsWithoutData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Fundraising Data.xlsx")
	_, base := startApp(t, testConfig(path))

	resp, body := get(t, base+"/api/figure")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	problem := decode(t, body)
	assert.Equal(t, apierrors.TypeDataUnavailable, problem["type"])
	assert.Equal(t, "Data file not found: "+path, problem["detail"])

	resp, _ = get(t, base+"/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, base+"/api/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// The page still renders and shows the problem in place of the chart.
	resp, _ = get(t, base+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApplication_PushesReload(t *testing.T) {
	path := testutil.WriteWorkbook(t, testutil.StandardSheet())
	cfg := testConfig(path)
	cfg.Data.PollInterval = 50 * time.Millisecond
	_, base := startApp(t, cfg)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(base, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() events.WebSocketMessage {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg events.WebSocketMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	}

	require.Equal(t, events.MessageTypeConnect, read().Type)

	// Swap the file in whole so the watcher never sees a partial write.
	sheet := append(testutil.StandardSheet(), []any{2009, 20, "$", 3000, "$", 150, nil})
	next := filepath.Join(t.TempDir(), "next.xlsx")
	testutil.WriteWorkbookAt(t, next, "Sheet1", sheet)
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(next, future, future))
	require.NoError(t, os.Rename(next, path))

	msg := read()
	require.Equal(t, events.MessageTypeDatasetReloaded, msg.Type)
	data := msg.Data.(map[string]interface{})
	assert.Equal(t, 4.0, data["rows"])
	assert.Equal(t, 2009.0, data["last_year"])

	resp, body := get(t, base+"/api/data")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 4.0, decode(t, body)["count"])
}

func TestApplication_OptionalEndpoints(t *testing.T) {
	path := testutil.WriteWorkbook(t, testutil.StandardSheet())
	cfg := testConfig(path)
	cfg.WebSocket.Enabled = false
	cfg.Telemetry.MetricExporter = "none"
	a, base := startApp(t, cfg)

	assert.Nil(t, a.WebSocketHub)

	resp, _ := get(t, base+"/ws")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, base+"/metrics")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, body := get(t, base+"/")
	assert.NotContains(t, string(body), "listen(1000);")
}

func TestApplication_StartFailsOnBusyPort(t *testing.T) {
	path := testutil.WriteWorkbook(t, testutil.StandardSheet())
	first, _ := startApp(t, testConfig(path))

	cfg := testConfig(path)
	_, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)
	cfg.Server.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	logger, _ := testutil.NewTestLogger(t)
	second, err := New(cfg, logger)
	require.NoError(t, err)

	err = second.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
