package rendering_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/katariyakhushi/umbrella-customiser/internal/rendering"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

func templText(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func TestRenderComponent(t *testing.T) {
	r := rendering.NewUniversalRenderer()

	out, err := r.RenderComponent(context.Background(), Div(ID("x"), g.Text("hi")))
	require.NoError(t, err)
	assert.Equal(t, `<div id="x">hi</div>`, string(out))

	out, err = r.RenderComponent(context.Background(), templText("<p>templ</p>"))
	require.NoError(t, err)
	assert.Equal(t, "<p>templ</p>", string(out))

	_, err = r.RenderComponent(context.Background(), 42)
	assert.ErrorContains(t, err, "unsupported component type: int")
}

func TestRenderPage(t *testing.T) {
	e := echo.New()
	r := rendering.NewUniversalRenderer()
	e.Renderer = r

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, r.RenderPage(c, http.StatusCreated, templText("page")))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "page", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, c.Render(http.StatusOK, "", Span(g.Text("via echo"))))
	assert.Equal(t, "<span>via echo</span>", rec.Body.String())
}
