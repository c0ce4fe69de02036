package customizer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
)

// DefaultErrorClearDelay is how long an error banner stays up.
const DefaultErrorClearDelay = 5 * time.Second

// Listener receives state produced outside of any caller: a finished logo read
// or an expired error banner. It is called without the customizer lock held.
type Listener func(State)

// Options configures a Customizer.
type Options struct {
	Decoder  domain.LogoDecoder
	Themer   Themer
	Listener Listener
	// ErrorClearDelay defaults to DefaultErrorClearDelay.
	ErrorClearDelay time.Duration
	Logger          *slog.Logger
}

// Customizer owns the state of one page view: the umbrella color, the uploaded
// logo and the transient error banner. All operations are serialised, and the
// asynchronous logo read re-enters through the same lock when it completes.
type Customizer struct {
	mu    sync.Mutex
	state State

	decoder  domain.LogoDecoder
	themer   Themer
	listener Listener
	picker   Picker
	delay    time.Duration
	logger   *slog.Logger

	// errSeq identifies the current error so an older clear never removes a newer one.
	errSeq   uint64
	errClear scheduledTask

	// readSeq identifies the read whose result is still wanted.
	readSeq    uint64
	cancelRead context.CancelFunc

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a customizer in its initial state and applies the default theme.
func New(opts Options) *Customizer {
	if opts.ErrorClearDelay <= 0 {
		opts.ErrorClearDelay = DefaultErrorClearDelay
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Themer == nil {
		opts.Themer = ThemeFunc(func(string) {})
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Customizer{
		state:    State{Color: domain.DefaultColor, Version: 1},
		decoder:  opts.Decoder,
		themer:   opts.Themer,
		listener: opts.Listener,
		delay:    opts.ErrorClearDelay,
		logger:   opts.Logger,
		ctx:      ctx,
		cancel:   cancel,
	}
	c.themer.ApplyTheme(c.state.Color.ThemeClass())
	return c
}

// State returns a snapshot of the current state.
func (c *Customizer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectColor switches the umbrella color and re-applies the page theme.
// Reselecting the active color changes nothing.
func (c *Customizer) SelectColor(color domain.Color) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || color == c.state.Color || !color.Valid() {
		return c.state
	}
	c.state.Color = color
	c.themer.ApplyTheme(color.ThemeClass())
	c.state.Version++
	c.logger.Debug("Umbrella color selected", "color", color)
	return c.state
}

// HandleUpload validates the upload synchronously and, when it passes, starts
// reading it in the background. A nil upload is a cancelled picker and is ignored.
//
// A new accepted upload supersedes any read still in flight; the stale read is
// cancelled and its result discarded.
func (c *Customizer) HandleUpload(u *domain.Upload) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u == nil {
		return c.state
	}
	if c.closed {
		u.Close()
		return c.state
	}

	if err := u.Validate(); err != nil {
		u.Close()
		c.logger.Info("Logo upload rejected",
			"filename", u.Filename,
			"media_type", u.MediaType,
			"size", humanize.IBytes(uint64(max(u.Size, 0))),
			"error", err)
		c.setErrorLocked(err)
		c.state.Version++
		return c.state
	}

	if c.cancelRead != nil {
		c.cancelRead()
	}
	c.readSeq++
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelRead = cancel
	c.state.Phase = PhaseDecoding
	c.state.Version++

	go c.read(ctx, c.readSeq, u)
	return c.state
}

// read decodes the upload and applies the result if it is still wanted.
func (c *Customizer) read(ctx context.Context, seq uint64, u *domain.Upload) {
	logo, err := c.decoder.Decode(ctx, u)
	u.Close()

	c.mu.Lock()
	if c.closed || seq != c.readSeq {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale logo read", "filename", u.Filename)
		return
	}
	c.cancelRead()
	c.cancelRead = nil
	c.state.Phase = PhaseIdle

	if err != nil {
		c.logger.Warn("Failed to read logo", "filename", u.Filename, "error", err)
		c.setErrorLocked(domain.ErrReadFailure)
	} else {
		c.state.Logo = logo
		c.clearErrorLocked()
		c.logger.Info("Logo decoded", "filename", u.Filename, "size", humanize.IBytes(uint64(max(logo.Size, 0))))
	}
	c.state.Version++
	snapshot := c.state
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}
}

// RemoveLogo clears the logo and resets the file picker so the same file can
// be chosen again. Any read still in flight is abandoned.
func (c *Customizer) RemoveLogo() State {
	c.mu.Lock()
	if c.closed {
		defer c.mu.Unlock()
		return c.state
	}

	if c.cancelRead != nil {
		c.cancelRead()
		c.cancelRead = nil
	}
	c.readSeq++
	c.state.Logo = nil
	c.state.Phase = PhaseIdle
	c.state.PickerGeneration++
	c.state.Version++
	snapshot := c.state
	picker := c.picker
	c.mu.Unlock()

	if picker != nil {
		picker.Reset()
	}
	return snapshot
}

// TriggerUploadPicker opens the file chooser. It does nothing while no picker
// is mounted.
func (c *Customizer) TriggerUploadPicker() {
	c.mu.Lock()
	picker := c.picker
	c.mu.Unlock()

	if picker != nil {
		picker.Open()
	}
}

// MountPicker attaches the file-selection affordance.
func (c *Customizer) MountPicker(p Picker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.picker = p
	}
}

// UnmountPicker detaches p if it is the mounted picker.
func (c *Customizer) UnmountPicker(p Picker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.picker == p {
		c.picker = nil
	}
}

// Close abandons any pending read and error timer. The customizer keeps
// answering State but no longer changes.
func (c *Customizer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.cancelRead = nil
	c.picker = nil
	c.errClear.Cancel()
}

// setErrorLocked shows err and schedules it to clear, replacing any pending clear.
func (c *Customizer) setErrorLocked(err error) {
	c.errSeq++
	seq := c.errSeq
	c.state.Error = domain.Banner(err)
	c.errClear.Schedule(c.delay, func() { c.expireError(seq) })
}

func (c *Customizer) clearErrorLocked() {
	c.errSeq++
	c.state.Error = ""
	c.errClear.Cancel()
}

func (c *Customizer) expireError(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.errSeq || c.state.Error == "" {
		c.mu.Unlock()
		return
	}
	c.state.Error = ""
	c.state.Version++
	snapshot := c.state
	listener := c.listener
	c.mu.Unlock()

	if listener != nil {
		listener(snapshot)
	}
}
