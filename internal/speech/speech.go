// Package speech предоставляет движок распознавания речи Vosk.
package speech

import (
	"errors"

	"voiceroll/internal/capture"
)

// ErrModelNotDownloaded - модель для языка не найдена на диске.
var ErrModelNotDownloaded = errors.New("модель не скачана")

// Model - загруженная модель распознавания.
type Model interface {
	// NewRecognizer создаёт поток распознавания для одной сессии записи.
	NewRecognizer(sampleRate float64) (Recognizer, error)

	// Close освобождает ресурсы модели.
	Close()

	// Name возвращает название движка (для логирования).
	Name() string
}

// Recognizer - поток распознавания одной сессии.
type Recognizer interface {
	capture.Recognizer

	// Close освобождает поток.
	Close()
}
