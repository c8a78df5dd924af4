//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"voiceroll/internal/config"
)

// macOS: Alt = Option, Super = Cmd
var platformModifiers = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModOption,
	config.ModSuper: hotkey.ModCmd,
}
