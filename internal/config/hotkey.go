package config

import "strings"

// Modifier представляет модификатор клавиши.
type Modifier string

const (
	ModCtrl  Modifier = "ctrl"
	ModShift Modifier = "shift"
	ModAlt   Modifier = "alt"
	ModSuper Modifier = "super" // Win/Cmd
)

// Key представляет клавишу.
type Key string

const (
	KeySpace  Key = "space"
	KeyReturn Key = "return"
	KeyL      Key = "l"
	KeyR      Key = "r"
	KeyF9     Key = "f9"
	KeyF10    Key = "f10"
	KeyF11    Key = "f11"
	KeyF12    Key = "f12"
)

// HotkeyConfig хранит настройки горячей клавиши запуска прослушивания.
type HotkeyConfig struct {
	Modifiers []Modifier `json:"modifiers"`
	Key       Key        `json:"key"`
}

// String возвращает строковое представление вида "ctrl+shift+l".
func (h HotkeyConfig) String() string {
	parts := make([]string, 0, len(h.Modifiers)+1)
	for _, m := range h.Modifiers {
		parts = append(parts, string(m))
	}
	parts = append(parts, string(h.Key))
	return strings.Join(parts, "+")
}

// AvailableKeys возвращает список клавиш, которые можно назначить.
func AvailableKeys() []Key {
	return []Key{KeySpace, KeyReturn, KeyL, KeyR, KeyF9, KeyF10, KeyF11, KeyF12}
}
