// Package audio предоставляет запись аудио с микрофона через PortAudio.
package audio

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"

	"voiceroll/internal/capture"
)

// ErrBusy - микрофон уже открыт другой сессией.
var ErrBusy = errors.New("микрофон уже используется")

// Microphone открывает поток с устройства ввода по умолчанию.
// Одновременно может быть открыт только один поток.
type Microphone struct {
	mu   sync.Mutex
	open bool
}

// New создаёт источник записи с микрофона по умолчанию.
func New() *Microphone {
	return &Microphone{}
}

// Open инициализирует PortAudio и запускает поток ввода.
func (m *Microphone) Open(f capture.Format) (capture.Device, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.open {
		return nil, ErrBusy
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}

	buffer := make([]int16, f.FramesPerBuffer*f.Channels)
	stream, err := portaudio.OpenDefaultStream(
		f.Channels,            // input channels
		0,                     // output channels
		float64(f.SampleRate), // sample rate
		f.FramesPerBuffer,     // frames per buffer
		buffer,
	)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}

	m.open = true
	return &stream16{mic: m, stream: stream, buffer: buffer}, nil
}

func (m *Microphone) release() {
	m.mu.Lock()
	m.open = false
	m.mu.Unlock()
}

// stream16 - открытый поток int16.
type stream16 struct {
	mu     sync.Mutex
	mic    *Microphone
	stream *portaudio.Stream
	buffer []int16
}

// Read блокируется до заполнения буфера и возвращает его как PCM16 LE.
func (s *stream16) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return nil, errors.New("поток закрыт")
	}

	// Переполнение входного буфера означает потерю части сэмплов,
	// но прочитанный буфер при этом валиден
	if err := s.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, err
	}

	return capture.Encode(s.buffer, nil), nil
}

// Close останавливает поток и освобождает PortAudio. Повторный вызов ничего не делает.
func (s *stream16) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stream == nil {
		return nil
	}

	stopErr := s.stream.Stop()
	closeErr := s.stream.Close()
	s.stream = nil
	portaudio.Terminate()
	s.mic.release()

	return errors.Join(stopErr, closeErr)
}

// Probe проверяет, что в системе есть устройство ввода.
func Probe() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer portaudio.Terminate()

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return err
	}
	log.Printf("Микрофон: %s (%.0f Гц)", dev.Name, dev.DefaultSampleRate)
	return nil
}
