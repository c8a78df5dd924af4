// Package listen связывает запись, извлечение и журнал в одну сессию
// "нажал кнопку - получил строку таблицы".
package listen

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"voiceroll/internal/audiolog"
	"voiceroll/internal/capture"
	"voiceroll/internal/extract"
	"voiceroll/internal/ledger"
)

// Recognizers выдаёт распознаватель для одной сессии на языке.
type Recognizers interface {
	NewRecognizer(lang extract.Language) (capture.Recognizer, error)
}

// Outcome итог одной сессии.
type Outcome struct {
	SessionID string
	Language  extract.Language
	State     capture.State
	Text      string
	Record    ledger.Record
	Recorded  bool   // запись добавлена в журнал
	ClipPath  string // путь к WAV, если архив включён
}

// Listener проводит сессии записи.
type Listener struct {
	source      capture.Source
	recognizers Recognizers
	recorder    *ledger.Recorder
	format      capture.Format
	archive     *audiolog.Archive
	level       func(float64)
	newID       func() string
	now         func() time.Time
}

// Option настраивает Listener.
type Option func(*Listener)

// WithFormat задаёт формат аудио (по умолчанию capture.DefaultFormat).
func WithFormat(f capture.Format) Option {
	return func(l *Listener) {
		l.format = f
	}
}

// WithArchive включает сохранение аудио сессий.
func WithArchive(a *audiolog.Archive) Option {
	return func(l *Listener) {
		l.archive = a
	}
}

// WithLevel передаёт уровень сигнала каждого чанка в fn.
func WithLevel(fn func(float64)) Option {
	return func(l *Listener) {
		l.level = fn
	}
}

// WithSessionIDs подменяет генератор идентификаторов сессий.
func WithSessionIDs(fn func() string) Option {
	return func(l *Listener) {
		l.newID = fn
	}
}

// WithClock подменяет источник времени записи.
func WithClock(now func() time.Time) Option {
	return func(l *Listener) {
		l.now = now
	}
}

// New создаёт Listener.
func New(src capture.Source, recognizers Recognizers, recorder *ledger.Recorder, opts ...Option) *Listener {
	l := &Listener{
		source:      src,
		recognizers: recognizers,
		recorder:    recorder,
		format:      capture.DefaultFormat,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Recorder возвращает журнал сессий.
func (l *Listener) Recorder() *ledger.Recorder {
	return l.recorder
}

// Run записывает не дольше duration, извлекает имя и страну из законченной
// фразы и добавляет их в журнал. Без законченной фразы журнал не меняется.
func (l *Listener) Run(ctx context.Context, lang extract.Language, duration time.Duration) (Outcome, error) {
	out := Outcome{
		SessionID: l.newID(),
		Language:  lang,
		State:     capture.StateIdle,
	}

	rec, err := l.recognizers.NewRecognizer(lang)
	if err != nil {
		return out, fmt.Errorf("не удалось подготовить распознаватель: %w", err)
	}
	if c, ok := rec.(interface{ Close() }); ok {
		defer c.Close()
	}

	var clip *audiolog.Clip
	if l.archive != nil {
		clip = l.archive.Begin(out.SessionID)
		out.ClipPath = clip.Path()
		defer func() {
			if err := clip.Close(); err != nil {
				log.Printf("[%s] Не удалось сохранить аудио: %v", out.SessionID, err)
			}
		}()
	}

	tap := func(pcm []byte) {
		if clip != nil {
			clip.Write(pcm)
		}
		if l.level != nil {
			l.level(capture.Level(pcm))
		}
	}

	log.Printf("[%s] Запись %s (%s)", out.SessionID, duration, lang)
	res, err := capture.Capture(ctx, l.source, l.format, duration, rec,
		capture.WithTap(tap), capture.WithClock(l.now))
	out.State = res.State
	if err != nil {
		log.Printf("[%s] Ошибка записи: %v", out.SessionID, err)
		return out, err
	}

	log.Printf("[%s] Запись завершена: %s", out.SessionID, res.State)
	if res.State != capture.StateFinalized {
		return out, nil
	}

	out.Text = res.Text
	name, country := extract.Extract(res.Text, lang)

	out.Record, err = l.recorder.Record(name, country)
	out.Recorded = true
	if err != nil {
		log.Printf("[%s] %v", out.SessionID, err)
		return out, err
	}

	log.Printf("[%s] %q -> %s, %s", out.SessionID, res.Text, out.Record.Name, out.Record.Country)
	return out, nil
}
