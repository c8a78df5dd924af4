// Package ui provides the Gio main window: language selector, Start/Stop
// listening, status line, level meter, model download and the records table.
package ui

import (
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"

	"voiceroll/internal/extract"
	"voiceroll/internal/i18n"
	"voiceroll/internal/ledger"
)

// Phase is what the window is doing right now.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseDownloading
	PhaseLoading
)

// Window is the main application window.
type Window struct {
	mu sync.Mutex

	// Window state
	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// View state
	phase        Phase
	language     extract.Language
	status       string
	statusError  bool
	transcript   string
	level        float64
	listenStart  time.Time
	listenFor    time.Duration
	modelMissing string // model name when the selected language has no model
	progress     float64
	loadingModel string
	hotkey       string
	session      []ledger.Record
	saved        []ledger.Record

	// Widgets
	langEnum    widget.Enum
	uiLangBtns  map[i18n.Language]*widget.Clickable
	startBtn    widget.Clickable
	stopBtn     widget.Clickable
	downloadBtn widget.Clickable
	hotkeyBtn   widget.Clickable
	table       widget.List

	// Callbacks
	onStart          func(extract.Language)
	onStop           func()
	onLanguageChange func(extract.Language)
	onDownload       func(extract.Language)
	onUILangChange   func(i18n.Language)
	onHotkeyEdit     func()
}

// New creates the main window for the given recognition language.
func New(lang extract.Language) *Window {
	w := &Window{
		language:   lang,
		status:     i18n.T("ui_status_idle"),
		uiLangBtns: make(map[i18n.Language]*widget.Clickable),
	}
	w.langEnum.Value = string(lang)
	for _, l := range i18n.AvailableLanguages() {
		w.uiLangBtns[l] = new(widget.Clickable)
	}
	w.table.Axis = layout.Vertical
	return w
}

// OnStart sets the callback for the Start Listening button.
func (w *Window) OnStart(fn func(extract.Language)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onStart = fn
}

// OnStop sets the callback for the Stop Listening button.
func (w *Window) OnStop(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onStop = fn
}

// OnLanguageChange sets the callback for the recognition language selector.
func (w *Window) OnLanguageChange(fn func(extract.Language)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onLanguageChange = fn
}

// OnDownload sets the callback for the model download button.
func (w *Window) OnDownload(fn func(extract.Language)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onDownload = fn
}

// OnUILangChange sets the callback for interface language buttons.
func (w *Window) OnUILangChange(fn func(i18n.Language)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUILangChange = fn
}

// OnHotkeyEdit sets the callback for the hotkey button.
func (w *Window) OnHotkeyEdit(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onHotkeyEdit = fn
}

// SetListening switches the window into listening mode for d.
func (w *Window) SetListening(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseListening
	w.listenStart = time.Now()
	w.listenFor = d
	w.level = 0
	w.status = i18n.Tf("ui_status_listening", int(d.Round(time.Second)/time.Second))
	w.statusError = false
}

// SetIdle returns the window to idle with the given status line.
func (w *Window) SetIdle(status string, isError bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseIdle
	w.level = 0
	w.status = status
	w.statusError = isError
}

// SetTranscript shows the last finalized transcript.
func (w *Window) SetTranscript(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.transcript = text
}

// SetLevel updates the level meter (0..1).
func (w *Window) SetLevel(level float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.level = level
}

// SetRecords replaces the table: rows of this session first, then rows
// loaded from the CSV file at startup.
func (w *Window) SetRecords(session, saved []ledger.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session = session
	w.saved = saved
}

// SetModelMissing shows the download prompt for model name; "" hides it.
func (w *Window) SetModelMissing(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.modelMissing = name
}

// SetDownload shows download progress; active=false ends the download phase.
func (w *Window) SetDownload(progress float64, active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.progress = progress
	switch {
	case active:
		w.phase = PhaseDownloading
	case w.phase == PhaseDownloading:
		w.phase = PhaseIdle
	}
}

// SetLoading shows the spinner while model name is loaded into memory.
func (w *Window) SetLoading(name string, active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loadingModel = name
	switch {
	case active && w.phase == PhaseIdle:
		w.phase = PhaseLoading
	case !active && w.phase == PhaseLoading:
		w.phase = PhaseIdle
	}
}

// SetHotkey shows the current hotkey.
func (w *Window) SetHotkey(hk string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hotkey = hk
}

// Show displays the window (non-blocking).
func (w *Window) Show() {
	w.mu.Lock()
	if w.running {
		win := w.window
		w.mu.Unlock()
		if win != nil {
			win.Perform(system.ActionRaise)
		}
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	go w.runEventLoop(stopCh, doneCh)
}

// Hide closes the window.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}
	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// IsVisible returns true if window is currently shown.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Window) runEventLoop(stopCh, doneCh chan struct{}) {
	defer func() {
		w.mu.Lock()
		w.running = false
		w.window = nil
		w.mu.Unlock()
		close(doneCh)
	}()

	win := new(app.Window)
	win.Option(
		app.Title(i18n.T("ui_title")),
		app.Size(unit.Dp(480), unit.Dp(600)),
		app.MinSize(unit.Dp(420), unit.Dp(480)),
	)
	w.mu.Lock()
	w.window = win
	w.mu.Unlock()

	var ops op.Ops

	// Invalidation goroutine: level meter and countdown are redrawn continuously
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				win.Perform(system.ActionClose)
				return
			case <-doneCh:
				return
			case <-ticker.C:
				win.Invalidate()
			}
		}
	}()

	for {
		switch e := win.Event().(type) {
		case app.DestroyEvent:
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.handleEvents(gtx)
			w.draw(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (w *Window) handleEvents(gtx layout.Context) {
	if w.langEnum.Update(gtx) {
		w.mu.Lock()
		lang := extract.ParseLanguage(w.langEnum.Value)
		changed := lang != w.language && w.phase == PhaseIdle
		if changed {
			w.language = lang
		} else {
			w.langEnum.Value = string(w.language)
		}
		callback := w.onLanguageChange
		w.mu.Unlock()
		if changed && callback != nil {
			callback(lang)
		}
	}

	for lang, btn := range w.uiLangBtns {
		if btn.Clicked(gtx) && lang != i18n.GetLanguage() {
			i18n.SetLanguage(lang)
			w.mu.Lock()
			callback := w.onUILangChange
			w.mu.Unlock()
			if callback != nil {
				callback(lang)
			}
		}
	}

	w.mu.Lock()
	phase, lang := w.phase, w.language
	onStart, onStop, onDownload, onHotkey := w.onStart, w.onStop, w.onDownload, w.onHotkeyEdit
	w.mu.Unlock()

	// Start is ignored while busy: the capture device is not shared
	if w.startBtn.Clicked(gtx) && phase == PhaseIdle && onStart != nil {
		onStart(lang)
	}
	if w.stopBtn.Clicked(gtx) && phase == PhaseListening && onStop != nil {
		onStop()
	}
	if w.downloadBtn.Clicked(gtx) && phase == PhaseIdle && onDownload != nil {
		onDownload(lang)
	}
	if w.hotkeyBtn.Clicked(gtx) && onHotkey != nil {
		go onHotkey()
	}
}

// viewState is a snapshot of the view state for one frame.
type viewState struct {
	phase        Phase
	language     extract.Language
	status       string
	statusError  bool
	transcript   string
	level        float64
	remaining    time.Duration
	listenFor    time.Duration
	modelMissing string
	progress     float64
	loadingModel string
	hotkey       string
	session      []ledger.Record
	saved        []ledger.Record
}

func (w *Window) snapshot() viewState {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := viewState{
		phase:        w.phase,
		language:     w.language,
		status:       w.status,
		statusError:  w.statusError,
		transcript:   w.transcript,
		level:        w.level,
		listenFor:    w.listenFor,
		modelMissing: w.modelMissing,
		progress:     w.progress,
		loadingModel: w.loadingModel,
		hotkey:       w.hotkey,
		session:      w.session,
		saved:        w.saved,
	}
	if w.phase == PhaseListening {
		s.remaining = w.listenFor - time.Since(w.listenStart)
		if s.remaining < 0 {
			s.remaining = 0
		}
	}
	return s
}
