// Package notify предоставляет системные уведомления.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"voiceroll/internal/i18n"
)

// Notifier отправляет системные уведомления.
type Notifier struct {
	mu      sync.Mutex
	enabled bool
	send    func(title, message string) error
}

// New создаёт новый Notifier.
func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// SetEnabled включает/выключает уведомления.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	n.enabled = enabled
	n.mu.Unlock()
}

// Listening - началась запись.
func (n *Notifier) Listening() {
	n.notify(i18n.T("notify_listening"), i18n.T("notify_listening_hint"))
}

// Recorded - в таблицу добавлена строка.
func (n *Notifier) Recorded(name, country string) {
	n.notify(i18n.T("notify_recorded"), name+", "+country)
}

// NoSpeech - за отведённое время фраза не закончилась.
func (n *Notifier) NoSpeech() {
	n.notify(i18n.T("notify_no_speech"), i18n.T("notify_no_speech_hint"))
}

// Error показывает уведомление об ошибке.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), truncate(msg))
}

// Info показывает информационное уведомление.
func (n *Notifier) Info(msg string) {
	n.notify("", truncate(msg))
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) > 100 {
		return string(r[:100]) + "..."
	}
	return s
}

func (n *Notifier) notify(title, message string) {
	n.mu.Lock()
	enabled := n.enabled
	n.mu.Unlock()
	if !enabled {
		return
	}

	appName := i18n.T("app_name")
	if title != "" {
		title = appName + ": " + title
	} else {
		title = appName
	}
	// Игнорируем ошибки уведомлений - они не критичны
	_ = n.send(title, message)
}
