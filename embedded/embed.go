// Package embedded содержит встроенные ресурсы приложения.
// Иконки генерируются скриптом scripts/generate_icons.go.
package embedded

import (
	_ "embed"
)

// IconIdle - ожидание (серая).
//
//go:embed icon_idle.png
var IconIdle []byte

// IconListening - идёт запись (красная).
//
//go:embed icon_listening.png
var IconListening []byte

// IconLoading - загрузка или скачивание модели (синяя).
//
//go:embed icon_loading.png
var IconLoading []byte
