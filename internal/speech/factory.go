package speech

import (
	"fmt"
	"log"
	"sync"

	"voiceroll/internal/capture"
	"voiceroll/internal/config"
	"voiceroll/internal/extract"
	"voiceroll/internal/models"
)

// Factory загружает модели по языкам и выдаёт распознаватели для сессий.
// Модели кешируются: повторная сессия на том же языке не грузит модель заново.
type Factory struct {
	manager *models.Manager
	cfg     *config.Config
	format  capture.Format

	mu     sync.Mutex
	loaded map[extract.Language]*loadedModel
}

type loadedModel struct {
	path  string
	model Model
}

// NewFactory создаёт фабрику распознавателей.
func NewFactory(manager *models.Manager, cfg *config.Config, format capture.Format) *Factory {
	return &Factory{
		manager: manager,
		cfg:     cfg,
		format:  format,
		loaded:  make(map[extract.Language]*loadedModel),
	}
}

// ModelPath возвращает путь к модели для языка.
// Путь из переменной окружения имеет приоритет над скачанной моделью.
func (f *Factory) ModelPath(lang extract.Language) (string, error) {
	if path := f.cfg.ModelPathOverride(lang); path != "" {
		return path, nil
	}

	info := models.Resolve(f.cfg.ModelID(lang), lang)
	if !f.manager.IsDownloaded(info) {
		return "", fmt.Errorf("%w: %s", ErrModelNotDownloaded, info.Name)
	}
	return f.manager.GetModelPath(info), nil
}

// Ready сообщает, можно ли начать сессию на языке без скачивания.
func (f *Factory) Ready(lang extract.Language) bool {
	_, err := f.ModelPath(lang)
	return err == nil
}

// Load загружает модель языка, если она ещё не загружена
// или если путь к ней изменился.
func (f *Factory) Load(lang extract.Language) (Model, error) {
	path, err := f.ModelPath(lang)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cur, ok := f.loaded[lang]; ok {
		if cur.path == path {
			return cur.model, nil
		}
		// Пользователь сменил модель: старую освобождаем
		cur.model.Close()
		delete(f.loaded, lang)
	}

	log.Printf("Загрузка модели %s: %s", lang, path)
	model, err := NewVosk(path)
	if err != nil {
		return nil, err
	}
	f.loaded[lang] = &loadedModel{path: path, model: model}
	return model, nil
}

// NewRecognizer создаёт распознаватель для одной сессии на языке lang.
func (f *Factory) NewRecognizer(lang extract.Language) (capture.Recognizer, error) {
	model, err := f.Load(lang)
	if err != nil {
		return nil, err
	}
	return model.NewRecognizer(float64(f.format.SampleRate))
}

// Close освобождает все загруженные модели.
func (f *Factory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for lang, cur := range f.loaded {
		cur.model.Close()
		delete(f.loaded, lang)
	}
}
