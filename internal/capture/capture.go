// Package capture реализует запись с микрофона ограниченной длительности
// с распознаванием до первой законченной фразы.
package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// Format формат аудио потока.
type Format struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// DefaultFormat - 16 kHz, mono, int16, чанки по 1024 фрейма (требование Vosk).
var DefaultFormat = Format{
	SampleRate:      16000,
	Channels:        1,
	FramesPerBuffer: 1024,
}

// BytesPerChunk возвращает размер одного чанка в байтах (int16 = 2 байта).
func (f Format) BytesPerChunk() int {
	return f.FramesPerBuffer * f.Channels * 2
}

// ChunkDuration возвращает длительность одного чанка.
func (f Format) ChunkDuration() time.Duration {
	if f.SampleRate == 0 {
		return 0
	}
	return time.Duration(f.FramesPerBuffer) * time.Second / time.Duration(f.SampleRate)
}

var (
	// ErrDeviceOpen - не удалось открыть устройство записи.
	ErrDeviceOpen = errors.New("не удалось открыть устройство записи")
	// ErrDeviceRead - ошибка чтения с устройства или подачи данных распознавателю.
	ErrDeviceRead = errors.New("ошибка чтения аудио")
	// ErrRecognizerDecode - распознаватель вернул некорректный результат.
	ErrRecognizerDecode = errors.New("некорректный результат распознавателя")
)

// Device - открытое устройство записи. Read возвращает один чанк PCM16 LE.
type Device interface {
	Read() ([]byte, error)
	Close() error
}

// Source открывает устройство записи.
type Source interface {
	Open(f Format) (Device, error)
}

// Recognizer принимает чанки PCM и сообщает о законченной фразе.
type Recognizer interface {
	// AcceptWaveform возвращает true, если фраза закончена.
	AcceptWaveform(pcm []byte) (bool, error)
	// Result возвращает JSON законченной фразы с полем "text".
	Result() string
}

// State состояние сессии записи.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalized
	StateTimedOut
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateFinalized:
		return "finalized"
	case StateTimedOut:
		return "timed_out"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result итог сессии. Text заполнен только для StateFinalized.
type Result struct {
	State State
	Text  string
}

// Session владеет открытым устройством до Close.
type Session struct {
	mu     sync.Mutex
	device Device
	format Format
	state  State
}

// Open захватывает устройство и возвращает сессию.
func Open(src Source, f Format) (*Session, error) {
	dev, err := src.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceOpen, err)
	}
	return &Session{device: dev, format: f, state: StateIdle}, nil
}

// State возвращает текущее состояние сессии.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Close освобождает устройство. Повторный вызов и вызов на nil безопасны.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	dev := s.device
	s.device = nil
	s.mu.Unlock()

	if dev == nil {
		return nil
	}
	return dev.Close()
}

// Option настраивает Listen.
type Option func(*options)

type options struct {
	tap func(pcm []byte)
	now func() time.Time
}

// WithTap передаёт каждый прочитанный чанк в fn (архив, индикатор уровня).
func WithTap(fn func(pcm []byte)) Option {
	return func(o *options) {
		o.tap = fn
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

type voskResult struct {
	Text string `json:"text"`
}

// Listen читает чанки, пока не истечёт duration, не закончится фраза
// или не будет отменён ctx.
func (s *Session) Listen(ctx context.Context, duration time.Duration, rec Recognizer, opts ...Option) (Result, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.Lock()
	dev := s.device
	s.mu.Unlock()
	if dev == nil {
		return Result{State: StateIdle}, fmt.Errorf("%w: сессия закрыта", ErrDeviceRead)
	}

	s.setState(StateRecording)
	start := o.now()

	for o.now().Sub(start) < duration {
		if err := ctx.Err(); err != nil {
			s.setState(StateStopped)
			return Result{State: StateStopped}, nil
		}

		pcm, err := dev.Read()
		if err != nil {
			s.setState(StateIdle)
			return Result{State: StateIdle}, fmt.Errorf("%w: %w", ErrDeviceRead, err)
		}

		if o.tap != nil {
			o.tap(pcm)
		}

		final, err := rec.AcceptWaveform(pcm)
		if err != nil {
			s.setState(StateIdle)
			return Result{State: StateIdle}, fmt.Errorf("%w: %w", ErrDeviceRead, err)
		}
		if !final {
			continue
		}

		var res voskResult
		if err := json.Unmarshal([]byte(rec.Result()), &res); err != nil {
			s.setState(StateIdle)
			return Result{State: StateIdle}, fmt.Errorf("%w: %w", ErrRecognizerDecode, err)
		}

		s.setState(StateFinalized)
		return Result{State: StateFinalized, Text: res.Text}, nil
	}

	s.setState(StateTimedOut)
	return Result{State: StateTimedOut}, nil
}

// Capture открывает устройство, слушает не дольше duration и всегда
// освобождает устройство перед возвратом.
func Capture(ctx context.Context, src Source, f Format, duration time.Duration, rec Recognizer, opts ...Option) (Result, error) {
	s, err := Open(src, f)
	if err != nil {
		return Result{State: StateIdle}, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			log.Printf("Ошибка освобождения устройства: %v", cerr)
		}
	}()

	return s.Listen(ctx, duration, rec, opts...)
}
