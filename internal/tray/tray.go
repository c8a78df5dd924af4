// Package tray предоставляет системный трей с меню.
package tray

import (
	"github.com/getlantern/systray"

	"voiceroll/embedded"
	"voiceroll/internal/i18n"
)

// State состояние приложения для иконки трея.
type State int

const (
	StateIdle State = iota
	StateListening
	StateLoading
)

// Callbacks обработчики пунктов меню.
type Callbacks struct {
	OnShow                func()
	OnListen              func()
	OnNotificationsToggle func() bool
	OnSelectCSV           func()
	OnQuit                func()
}

// Tray управляет иконкой в системном трее.
type Tray struct {
	callbacks     Callbacks
	notifications bool
	state         State

	status   *systray.MenuItem
	show     *systray.MenuItem
	listen   *systray.MenuItem
	notifyOn *systray.MenuItem
	csv      *systray.MenuItem
	quit     *systray.MenuItem
}

// New создаёт Tray. notifications - начальное состояние флажка уведомлений.
func New(callbacks Callbacks, notifications bool) *Tray {
	return &Tray{callbacks: callbacks, notifications: notifications}
}

// Run запускает системный трей. Блокирующая функция.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, func() {})
}

func (t *Tray) onReady() {
	systray.SetIcon(embedded.IconIdle)
	systray.SetTitle(i18n.T("app_name"))
	systray.SetTooltip(i18n.T("app_tooltip"))

	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()

	t.show = systray.AddMenuItem(i18n.T("tray_show"), i18n.T("tray_show_hint"))
	t.listen = systray.AddMenuItem(i18n.T("tray_listen"), i18n.T("tray_listen_hint"))

	systray.AddSeparator()

	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.notifications)
	t.csv = systray.AddMenuItem(i18n.T("tray_csv"), i18n.T("tray_csv_hint"))

	systray.AddSeparator()

	t.quit = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.show.ClickedCh:
			call(t.callbacks.OnShow)

		case <-t.listen.ClickedCh:
			call(t.callbacks.OnListen)

		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				if t.callbacks.OnNotificationsToggle() {
					t.notifyOn.Check()
				} else {
					t.notifyOn.Uncheck()
				}
			}

		case <-t.csv.ClickedCh:
			call(t.callbacks.OnSelectCSV)

		case <-t.quit.ClickedCh:
			call(t.callbacks.OnQuit)
			systray.Quit()
			return
		}
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetState меняет иконку и статус. Во время записи пункт запуска недоступен.
func (t *Tray) SetState(state State) {
	t.state = state

	var icon []byte
	var status string
	switch state {
	case StateListening:
		icon, status = embedded.IconListening, i18n.T("tray_recording")
	case StateLoading:
		icon, status = embedded.IconLoading, i18n.T("ui_downloading")
	default:
		icon, status = embedded.IconIdle, i18n.T("tray_ready")
	}

	systray.SetIcon(icon)
	systray.SetTooltip(i18n.T("app_name") + " - " + status)
	if t.status != nil {
		t.status.SetTitle(status)
	}
	if t.listen != nil {
		if state == StateIdle {
			t.listen.Enable()
		} else {
			t.listen.Disable()
		}
	}
}

// Quit закрывает системный трей.
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshUI обновляет тексты меню на текущем языке.
func (t *Tray) RefreshUI() {
	systray.SetTooltip(i18n.T("app_tooltip"))

	items := []struct {
		item        *systray.MenuItem
		title, hint string
	}{
		{t.show, "tray_show", "tray_show_hint"},
		{t.listen, "tray_listen", "tray_listen_hint"},
		{t.notifyOn, "tray_notifications", "tray_notifications_hint"},
		{t.csv, "tray_csv", "tray_csv_hint"},
		{t.quit, "tray_quit", "tray_quit_hint"},
	}
	for _, it := range items {
		if it.item == nil {
			continue
		}
		it.item.SetTitle(i18n.T(it.title))
		it.item.SetTooltip(i18n.T(it.hint))
	}
	t.SetState(t.state)
}
