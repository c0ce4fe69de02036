package customizer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/katariyakhushi/umbrella-customiser/internal/config"
	"github.com/katariyakhushi/umbrella-customiser/internal/decode"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	"github.com/katariyakhushi/umbrella-customiser/internal/handlers"
	"github.com/katariyakhushi/umbrella-customiser/internal/middleware"
	"github.com/katariyakhushi/umbrella-customiser/internal/pubsub"
	"github.com/katariyakhushi/umbrella-customiser/internal/rendering"
	"github.com/katariyakhushi/umbrella-customiser/internal/storage"
	"github.com/katariyakhushi/umbrella-customiser/internal/websocket"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	e      *echo.Echo
	module *Module
	fs     afero.Fs
}

// newTestApp wires the module the way the server does, on an in-memory spool.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	bus := pubsub.NewWatermillBridge(false)
	bridge := websocket.NewBridge()
	go bridge.Run(ctx)
	fs := afero.NewMemMapFs()

	i := do.New()
	do.ProvideValue[config.Provider](i, &config.Config{
		ViewIdleTTL:     time.Minute,
		UploadRateLimit: 1000,
	})
	do.ProvideValue[pubsub.Publisher](i, bus)
	do.ProvideValue[pubsub.Subscriber](i, bus)
	do.ProvideValue[rendering.Renderer](i, rendering.NewUniversalRenderer())
	do.ProvideValue(i, bridge)
	do.ProvideValue(i, storage.NewSpool(storage.NewAferoStore(fs)))
	do.ProvideValue[domain.LogoDecoder](i, decode.NewDataURIDecoder(false))

	validator, err := handlers.NewValidator()
	require.NoError(t, err)

	e := echo.New()
	e.Validator = validator
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))
	e.Use(middleware.ClientID)

	m := New()
	require.NoError(t, m.Register(i))
	require.NoError(t, m.Boot(ctx, e.Group(""), i))

	t.Cleanup(func() {
		_ = m.Shutdown(context.Background())
		cancel()
		_ = bus.Close()
	})
	return &testApp{e: e, module: m, fs: fs}
}

// browser is one cookie jar talking to the app.
type browser struct {
	app     *testApp
	cookies []*http.Cookie
}

func (a *testApp) browser() *browser {
	return &browser{app: a}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.app.e.ServeHTTP(rec, req)
	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		b.cookies = cookies
	}
	return rec
}

var viewIDPattern = regexp.MustCompile(`/views/([0-9a-f-]{36})/ws`)

// open loads the page and returns the new view id.
func (b *browser) open(t *testing.T) string {
	t.Helper()
	rec := b.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	m := viewIDPattern.FindStringSubmatch(rec.Body.String())
	require.Len(t, m, 2, "page should reference its websocket")
	return m[1]
}

func (b *browser) postColor(viewID, color string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/views/"+viewID+"/color", bytes.NewBufferString("color="+color))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) upload(t *testing.T, viewID, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, "logo", filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/views/"+viewID+"/logo", body)
	req.Header.Set(echo.HeaderContentType, ct)
	return b.do(req)
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
