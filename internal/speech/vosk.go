package speech

import (
	"errors"
	"fmt"
	"os"
	"sync"

	vosk "github.com/alphacep/vosk-api/go"
)

func init() {
	// Vosk по умолчанию пишет подробный лог Kaldi в stderr
	vosk.SetLogLevel(-1)
}

// VoskModel реализует Model через Vosk.
type VoskModel struct {
	mu    sync.Mutex
	model *vosk.VoskModel
	path  string
}

// NewVosk загружает модель Vosk из директории.
func NewVosk(modelPath string) (*VoskModel, error) {
	// Проверяем существование директории модели
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrModelNotDownloaded, modelPath)
	}

	model, err := vosk.NewModel(modelPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки модели Vosk: %w", err)
	}

	return &VoskModel{model: model, path: modelPath}, nil
}

// Name возвращает название движка.
func (v *VoskModel) Name() string {
	return "vosk"
}

// Path возвращает путь к модели.
func (v *VoskModel) Path() string {
	return v.path
}

// NewRecognizer создаёт KaldiRecognizer для новой сессии записи.
func (v *VoskModel) NewRecognizer(sampleRate float64) (Recognizer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.model == nil {
		return nil, errors.New("модель Vosk закрыта")
	}

	rec, err := vosk.NewRecognizer(v.model, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания распознавателя: %w", err)
	}
	return &VoskStream{rec: rec}, nil
}

// Close освобождает модель.
func (v *VoskModel) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
}

// VoskStream - распознаватель одной сессии.
type VoskStream struct {
	mu  sync.Mutex
	rec *vosk.VoskRecognizer
}

// AcceptWaveform передаёт чанк PCM16 LE в Vosk.
// Vosk возвращает 1 для законченной фразы, 0 - продолжение, -1 - ошибка.
func (s *VoskStream) AcceptWaveform(pcm []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return false, errors.New("распознаватель закрыт")
	}

	switch s.rec.AcceptWaveform(pcm) {
	case 1:
		return true, nil
	case 0:
		return false, nil
	default:
		return false, errors.New("vosk не смог обработать аудио")
	}
}

// Result возвращает JSON законченной фразы.
func (s *VoskStream) Result() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec == nil {
		return ""
	}
	return s.rec.Result()
}

// Close освобождает распознаватель.
func (s *VoskStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rec != nil {
		s.rec.Free()
		s.rec = nil
	}
}
