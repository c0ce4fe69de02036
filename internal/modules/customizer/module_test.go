package customizer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialView(t *testing.T, server *httptest.Server, b *browser, viewID string) *websocket.Conn {
	t.Helper()

	var cookies []string
	for _, c := range b.cookies {
		cookies = append(cookies, c.Name+"="+c.Value)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/views/" + viewID + "/ws"
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": {strings.Join(cookies, "; ")}},
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

// readUntil reads messages until one contains want.
func readUntil(t *testing.T, conn *websocket.Conn, want string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err, "waiting for %q", want)
		if strings.Contains(string(data), want) {
			return string(data)
		}
	}
}

func TestWebSocket_PushesAsyncChanges(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.e)
	t.Cleanup(server.Close)

	b := app.browser()
	id := b.open(t)
	conn := dialView(t, server, b, id)

	// The current fragment is sent on connect.
	readUntil(t, conn, `id="customizer"`)

	rec := b.do(httptest.NewRequest(http.MethodPost, "/views/"+id+"/picker", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	readUntil(t, conn, `"open_picker"`)

	rec = b.upload(t, id, "brand.png", "image/png", pngBytes(t))
	require.Equal(t, http.StatusOK, rec.Code)
	fragment := readUntil(t, conn, "uploaded-logo")
	assert.Contains(t, fragment, "data:image/png;base64,")
	assert.Contains(t, fragment, "Remove Logo")

	rec = b.do(httptest.NewRequest(http.MethodDelete, "/views/"+id+"/logo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	readUntil(t, conn, `"reset_picker"`)
}

func TestWebSocket_ForeignSessionRejected(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.e)
	t.Cleanup(server.Close)

	id := app.browser().open(t)
	stranger := app.browser()
	stranger.open(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/views/" + id + "/ws"
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Cookie": {stranger.cookies[0].Name + "=" + stranger.cookies[0].Value}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket_DetachesOnClose(t *testing.T) {
	app := newTestApp(t)
	server := httptest.NewServer(app.e)
	t.Cleanup(server.Close)

	b := app.browser()
	id := b.open(t)
	conn := dialView(t, server, b, id)
	readUntil(t, conn, `id="customizer"`)

	v, ok := app.module.views.Lookup(id)
	require.True(t, ok)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))
	assert.Eventually(t, func() bool {
		// Once detached, the picker is gone and triggering it is harmless.
		v.Customizer.TriggerUploadPicker()
		return app.module.bridge.ClientCount(id) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
