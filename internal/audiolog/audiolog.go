// Package audiolog сохраняет аудио сессий записи в WAV файлы.
package audiolog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"voiceroll/internal/capture"
)

// Archive пишет файлы в директорию dir.
type Archive struct {
	dir    string
	format capture.Format
}

// New создаёт архив. Пустой dir означает, что архив выключен (nil).
func New(dir string, f capture.Format) *Archive {
	if dir == "" {
		return nil
	}
	return &Archive{dir: dir, format: f}
}

// Dir возвращает директорию архива.
func (a *Archive) Dir() string {
	return a.dir
}

// Clip накапливает сэмплы одной сессии.
type Clip struct {
	mu      sync.Mutex
	path    string
	format  capture.Format
	samples []int
	closed  bool
}

// Begin начинает клип для сессии id.
func (a *Archive) Begin(id string) *Clip {
	return &Clip{
		path:    filepath.Join(a.dir, id+".wav"),
		format:  a.format,
		samples: make([]int, 0, a.format.SampleRate*5),
	}
}

// Path возвращает путь будущего файла.
func (c *Clip) Path() string {
	return c.path
}

// Write добавляет чанк PCM16 LE.
func (c *Clip) Write(pcm []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for _, s := range capture.Samples(pcm) {
		c.samples = append(c.samples, int(s))
	}
}

// Close записывает WAV на диск. Повторный вызов ничего не делает.
func (c *Clip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("не удалось создать директорию архива: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, c.format.SampleRate, 16, c.format.Channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: c.format.Channels,
			SampleRate:  c.format.SampleRate,
		},
		Data:           c.samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("ошибка записи WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("ошибка записи WAV: %w", err)
	}

	c.samples = nil
	return nil
}
