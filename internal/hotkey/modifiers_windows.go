//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"voiceroll/internal/config"
)

// Windows: Super = Win
var platformModifiers = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModAlt,
	config.ModSuper: hotkey.ModWin,
}
