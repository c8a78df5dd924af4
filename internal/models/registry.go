// Package models управляет моделями распознавания речи Vosk.
package models

import "voiceroll/internal/extract"

// ModelInfo информация о модели.
type ModelInfo struct {
	ID       string           // Уникальный идентификатор: "vosk-en-us-small"
	Language extract.Language // Язык распознавания
	Name     string           // Отображаемое имя: "English Small"
	Dir      string           // Имя директории после распаковки
	URL      string           // URL архива
	Size     int64            // Размер в байтах (для прогресса)
}

// Registry все доступные модели.
var Registry = []ModelInfo{
	{
		ID:       "vosk-en-us-small",
		Language: extract.English,
		Name:     "English Small",
		Dir:      "vosk-model-small-en-us-0.15",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-small-en-us-0.15.zip",
		Size:     40 * 1024 * 1024,
	},
	{
		ID:       "vosk-en-us",
		Language: extract.English,
		Name:     "English Large",
		Dir:      "vosk-model-en-us-0.22",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-en-us-0.22.zip",
		Size:     1800 * 1024 * 1024,
	},
	{
		ID:       "vosk-cn-small",
		Language: extract.Chinese,
		Name:     "Chinese Small",
		Dir:      "vosk-model-small-cn-0.22",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-small-cn-0.22.zip",
		Size:     42 * 1024 * 1024,
	},
	{
		ID:       "vosk-cn",
		Language: extract.Chinese,
		Name:     "Chinese Large",
		Dir:      "vosk-model-cn-0.22",
		URL:      "https://alphacephei.com/vosk/models/vosk-model-cn-0.22.zip",
		Size:     1300 * 1024 * 1024,
	},
}

// DefaultModelID модель по умолчанию для языка.
func DefaultModelID(lang extract.Language) string {
	switch lang {
	case extract.Chinese:
		return "vosk-cn-small"
	default:
		return "vosk-en-us-small"
	}
}

// GetModel возвращает модель по ID.
func GetModel(id string) (ModelInfo, bool) {
	for _, m := range Registry {
		if m.ID == id {
			return m, true
		}
	}
	return ModelInfo{}, false
}

// GetModelsByLanguage возвращает модели для языка.
func GetModelsByLanguage(lang extract.Language) []ModelInfo {
	var result []ModelInfo
	for _, m := range Registry {
		if m.Language == lang {
			result = append(result, m)
		}
	}
	return result
}

// Resolve возвращает модель по ID, а если ID неизвестен или относится
// к другому языку - модель по умолчанию для языка.
func Resolve(id string, lang extract.Language) ModelInfo {
	if info, ok := GetModel(id); ok && info.Language == lang {
		return info
	}
	info, _ := GetModel(DefaultModelID(lang))
	return info
}
