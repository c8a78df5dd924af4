// Package dialog предоставляет системные диалоги.
package dialog

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"

	"voiceroll/internal/config"
)

// ErrCanceled - пользователь закрыл диалог.
var ErrCanceled = zenity.ErrCanceled

var modifierLabels = []struct {
	label string
	mod   config.Modifier
}{
	{"Ctrl", config.ModCtrl},
	{"Shift", config.ModShift},
	{"Alt", config.ModAlt},
	{"Super (Win/Cmd)", config.ModSuper},
}

// SelectHotkey выбирает горячую клавишу в два шага: модификаторы, затем клавиша.
func SelectHotkey(current config.HotkeyConfig) (config.HotkeyConfig, error) {
	options := make([]string, 0, len(modifierLabels))
	var selected []string
	for _, m := range modifierLabels {
		options = append(options, m.label)
		for _, cur := range current.Modifiers {
			if cur == m.mod {
				selected = append(selected, m.label)
			}
		}
	}

	mods, err := zenity.ListMultiple(
		"Выберите модификаторы:",
		options,
		zenity.Title("Горячая клавиша - модификаторы"),
		zenity.DefaultItems(selected...),
	)
	if err != nil {
		return current, err
	}
	if len(mods) == 0 {
		return current, errors.New("необходимо выбрать хотя бы один модификатор")
	}

	result := config.HotkeyConfig{}
	for _, s := range mods {
		for _, m := range modifierLabels {
			if s == m.label {
				result.Modifiers = append(result.Modifiers, m.mod)
			}
		}
	}

	keyOptions := make([]string, 0, len(config.AvailableKeys()))
	for _, k := range config.AvailableKeys() {
		keyOptions = append(keyOptions, strings.ToUpper(string(k)))
	}

	key, err := zenity.List(
		"Выберите клавишу:",
		keyOptions,
		zenity.Title("Горячая клавиша - клавиша"),
		zenity.DefaultItems(strings.ToUpper(string(current.Key))),
	)
	if err != nil {
		return current, err
	}
	result.Key = config.Key(strings.ToLower(key))

	return result, nil
}

// SelectCSVPath спрашивает, куда сохранять таблицу.
// Существующий файл не перезаписывается: строки дописываются в конец.
func SelectCSVPath(current string) (string, error) {
	path, err := zenity.SelectFileSave(
		zenity.Title("Файл для записей"),
		zenity.Filename(current),
		zenity.FileFilters{{Name: "CSV", Patterns: []string{"*.csv"}, CaseFold: true}},
	)
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += ".csv"
	}
	return path, nil
}

// ShowInfo показывает информационное сообщение.
func ShowInfo(title, message string) {
	if err := zenity.Info(message, zenity.Title(title)); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		fmt.Printf("%s: %s\n", title, message)
	}
}

// ShowError показывает сообщение об ошибке.
func ShowError(title, message string) {
	if err := zenity.Error(message, zenity.Title(title)); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		fmt.Printf("%s: %s\n", title, message)
	}
}
