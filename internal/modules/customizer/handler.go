package customizer

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	core "github.com/katariyakhushi/umbrella-customiser/internal/customizer"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
	"github.com/katariyakhushi/umbrella-customiser/internal/handlers"
	"github.com/katariyakhushi/umbrella-customiser/internal/middleware"
	"github.com/katariyakhushi/umbrella-customiser/internal/rendering"
	"github.com/katariyakhushi/umbrella-customiser/internal/storage"
	"github.com/katariyakhushi/umbrella-customiser/internal/view"
	"github.com/katariyakhushi/umbrella-customiser/internal/views"
	"github.com/katariyakhushi/umbrella-customiser/internal/websocket"
	"github.com/labstack/echo/v4"
)

// Handler serves the customizer page and the operations its controls post.
type Handler struct {
	views    *views.Registry
	spool    *storage.Spool
	renderer rendering.Renderer
	bridge   *websocket.Bridge
}

// NewHandler creates a new Handler.
func NewHandler(registry *views.Registry, spool *storage.Spool, renderer rendering.Renderer, bridge *websocket.Bridge) *Handler {
	return &Handler{
		views:    registry,
		spool:    spool,
		renderer: renderer,
		bridge:   bridge,
	}
}

// PageGet starts a new view for the browser and renders the full page.
func (h *Handler) PageGet(c echo.Context) error {
	v := h.views.Create(middleware.ClientFromContext(c))
	return h.renderer.RenderPage(c, http.StatusOK, view.Page(v.ID, v.Customizer.State(), v.Theme()))
}

// ColorPost selects the umbrella color.
func (h *Handler) ColorPost(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}

	var req handlers.ColorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown umbrella color.")
	}
	color, err := domain.ParseColor(req.Color)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown umbrella color.")
	}

	return h.fragment(c, v, v.Customizer.SelectColor(color))
}

// LogoPost accepts a logo from the multipart field "logo". Validation
// failures are reported in the rendered error banner, not as HTTP errors.
func (h *Handler) LogoPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	v, err := h.view(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("logo")
	if errors.Is(err, http.ErrMissingFile) {
		// The picker was dismissed without a choice.
		return h.fragment(c, v, v.Customizer.State())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid upload.")
	}

	upload := &domain.Upload{
		Filename:  filepath.Base(fileHeader.Filename),
		MediaType: fileHeader.Header.Get("Content-Type"),
		Size:      fileHeader.Size,
	}

	// The multipart temp file goes away with the request, so accepted
	// uploads are spooled before the read starts.
	if upload.CheckDeclared() == nil {
		entry, err := h.stash(c, fileHeader.Open)
		if err != nil {
			logger.Error("Failed to spool upload", "filename", upload.Filename, "error", err)
			upload.Open = func() (io.ReadCloser, error) { return nil, err }
		} else {
			upload.Open = entry.Open
			upload.Release = entry.Release
		}
	}

	return h.fragment(c, v, v.Customizer.HandleUpload(upload))
}

func (h *Handler) stash(c echo.Context, open func() (multipart.File, error)) (*storage.Entry, error) {
	src, err := open()
	if err != nil {
		return nil, fmt.Errorf("open multipart file: %w", err)
	}
	defer src.Close()
	return h.spool.Stash(c.Request().Context(), src)
}

// LogoDelete removes the logo.
func (h *Handler) LogoDelete(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	return h.fragment(c, v, v.Customizer.RemoveLogo())
}

// PickerPost asks the page to open its file chooser.
func (h *Handler) PickerPost(c echo.Context) error {
	v, err := h.view(c)
	if err != nil {
		return err
	}
	v.Customizer.TriggerUploadPicker()
	return c.NoContent(http.StatusNoContent)
}

// WebSocket attaches a connection to the view. While it is open the
// connection acts as the view's file picker and receives fragments for
// changes that happen outside of a request.
func (h *Handler) WebSocket(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	v, err := h.view(c)
	if err != nil {
		return err
	}

	client, err := h.bridge.Accept(c, v.ID)
	if err != nil {
		// Accept has already written the response.
		logger.Warn("WebSocket upgrade failed", "viewID", v.ID, "error", err)
		return nil
	}

	v.Attach()
	picker := &socketPicker{client: client}
	v.Customizer.MountPicker(picker)

	// Bring a reconnecting page up to date.
	if html, err := h.renderer.RenderComponent(c.Request().Context(), view.Fragment(v.ID, v.Customizer.State(), v.Theme())); err == nil {
		client.Send(html)
	} else {
		logger.Error("Failed to render customizer fragment", "viewID", v.ID, "error", err)
	}

	<-client.Done()

	v.Customizer.UnmountPicker(picker)
	v.Detach(time.Now())
	logger.Debug("WebSocket detached", "viewID", v.ID)
	return nil
}

func (h *Handler) view(c echo.Context) (*views.View, error) {
	v, err := h.views.Get(c.Param("id"), middleware.ClientFromContext(c))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "View not found.")
	}
	return v, nil
}

func (h *Handler) fragment(c echo.Context, v *views.View, s core.State) error {
	return h.renderer.RenderPage(c, http.StatusOK, view.Fragment(v.ID, s, v.Theme()))
}
