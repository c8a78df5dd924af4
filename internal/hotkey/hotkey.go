// Package hotkey регистрирует глобальную горячую клавишу запуска прослушивания.
package hotkey

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"voiceroll/internal/config"
)

// debounce защищает от автоповтора клавиши.
const debounce = 300 * time.Millisecond

// Toggle вызывает onPress при каждом нажатии комбинации.
// Что делать с нажатием (начать или остановить запись), решает вызывающий.
type Toggle struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	onPress func()
	current config.HotkeyConfig
	stopCh  chan struct{}
}

// New создаёт обработчик.
func New(onPress func()) *Toggle {
	return &Toggle{onPress: onPress}
}

// Register регистрирует комбинацию, снимая предыдущую.
func (t *Toggle) Register(cfg config.HotkeyConfig) error {
	key, ok := keys[cfg.Key]
	if !ok {
		return fmt.Errorf("неподдерживаемая клавиша: %s", cfg.Key)
	}

	mods := make([]hotkey.Modifier, 0, len(cfg.Modifiers))
	for _, m := range cfg.Modifiers {
		if mod, ok := platformModifiers[m]; ok {
			mods = append(mods, mod)
		}
	}

	t.release()

	t.mu.Lock()
	defer t.mu.Unlock()

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("не удалось зарегистрировать %s: %w", cfg, err)
	}

	t.hk = hk
	t.current = cfg
	t.stopCh = make(chan struct{})
	go t.listen(hk, t.stopCh)

	log.Printf("Горячая клавиша: %s", cfg)
	return nil
}

// release останавливает слушателя и снимает регистрацию.
// На некоторых X11 Unregister зависает, поэтому ждём его ограниченное время.
func (t *Toggle) release() {
	t.mu.Lock()
	old := t.hk
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
	t.hk = nil
	t.mu.Unlock()

	if old == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		old.Unregister()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		log.Printf("Таймаут снятия горячей клавиши")
	}
}

func (t *Toggle) listen(hk *hotkey.Hotkey, stopCh chan struct{}) {
	var last time.Time
	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			now := time.Now()
			if now.Sub(last) < debounce {
				continue
			}
			last = now
			if t.onPress != nil {
				t.onPress()
			}
		case _, ok := <-hk.Keyup():
			// Отпускание не используется, но канал нужно вычитывать
			if !ok {
				return
			}
		}
	}
}

// Unregister снимает горячую клавишу.
func (t *Toggle) Unregister() {
	t.release()
}

// Current возвращает зарегистрированную комбинацию.
func (t *Toggle) Current() config.HotkeyConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// RunOnMainThread запускает fn с главным потоком, которого требует macOS.
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

var keys = map[config.Key]hotkey.Key{
	config.KeySpace:  hotkey.KeySpace,
	config.KeyReturn: hotkey.KeyReturn,
	config.KeyL:      hotkey.KeyL,
	config.KeyR:      hotkey.KeyR,
	config.KeyF9:     hotkey.KeyF9,
	config.KeyF10:    hotkey.KeyF10,
	config.KeyF11:    hotkey.KeyF11,
	config.KeyF12:    hotkey.KeyF12,
}
