// Package config предоставляет конфигурацию приложения с сохранением в файл.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voiceroll/internal/extract"
)

// DefaultDuration - длительность прослушивания по умолчанию.
const DefaultDuration = 5 * time.Second

// configData структура для сериализации.
type configData struct {
	Language        string            `json:"language"`
	UILanguage      string            `json:"ui_language,omitempty"`
	Notifications   bool              `json:"notifications"`
	Hotkey          HotkeyConfig      `json:"hotkey"`
	DurationSeconds float64           `json:"duration_seconds,omitempty"`
	CSVPath         string            `json:"csv_path,omitempty"`
	AudioDir        string            `json:"audio_dir,omitempty"`
	Models          map[string]string `json:"models,omitempty"`
}

// Config хранит настройки приложения.
type Config struct {
	mu             sync.RWMutex
	language       extract.Language
	uiLanguage     string
	notifications  bool
	hotkey         HotkeyConfig
	duration       time.Duration
	csvPath        string
	audioDir       string
	models         map[extract.Language]string
	env            Env
	configPath     string
	onHotkeyChange func(HotkeyConfig)
}

func defaults() *Config {
	return &Config{
		language:      extract.English,
		uiLanguage:    "en",
		notifications: true,
		hotkey: HotkeyConfig{
			Modifiers: []Modifier{ModCtrl, ModShift},
			Key:       KeyL,
		},
		duration: DefaultDuration,
		csvPath:  "data.csv",
		models: map[extract.Language]string{
			extract.English: "vosk-en-us-small",
			extract.Chinese: "vosk-cn-small",
		},
	}
}

// New создаёт конфигурацию, загружая из файла рядом с бинарником
// или с настройками по умолчанию.
func New() *Config {
	path := ""

	// Определяем путь к файлу конфигурации рядом с бинарником
	execPath, err := os.Executable()
	if err == nil {
		// Резолвим симлинки
		execPath, err = filepath.EvalSymlinks(execPath)
		if err == nil {
			path = filepath.Join(filepath.Dir(execPath), "config.json")
		}
	}

	return Load(path)
}

// Load создаёт конфигурацию из указанного файла.
// Пустой path - конфигурация только в памяти.
func Load(path string) *Config {
	c := defaults()
	c.configPath = path
	c.env = LoadEnv()
	c.load()
	return c
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	if c.configPath == "" {
		return
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return // Файл не существует, используем defaults
	}

	var cfg configData
	if err := json.Unmarshal(data, &cfg); err != nil {
		return
	}

	c.language = extract.ParseLanguage(cfg.Language)
	if cfg.UILanguage != "" {
		c.uiLanguage = cfg.UILanguage
	}
	c.notifications = cfg.Notifications
	if cfg.Hotkey.Key != "" {
		c.hotkey = cfg.Hotkey
	}
	if cfg.DurationSeconds > 0 {
		c.duration = time.Duration(cfg.DurationSeconds * float64(time.Second))
	}
	if cfg.CSVPath != "" {
		c.csvPath = cfg.CSVPath
	}
	c.audioDir = cfg.AudioDir
	for lang, id := range cfg.Models {
		if id != "" {
			c.models[extract.ParseLanguage(lang)] = id
		}
	}
}

// save сохраняет конфигурацию в файл.
func (c *Config) save() {
	if c.configPath == "" {
		return
	}

	cfg := configData{
		Language:        string(c.language),
		UILanguage:      c.uiLanguage,
		Notifications:   c.notifications,
		Hotkey:          c.hotkey,
		DurationSeconds: c.duration.Seconds(),
		CSVPath:         c.csvPath,
		AudioDir:        c.audioDir,
		Models:          make(map[string]string, len(c.models)),
	}
	for lang, id := range c.models {
		cfg.Models[string(lang)] = id
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return
	}

	os.WriteFile(c.configPath, data, 0644)
}

// Language возвращает текущий язык распознавания.
func (c *Config) Language() extract.Language {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// SetLanguage устанавливает язык распознавания.
func (c *Config) SetLanguage(lang extract.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = lang
	c.save()
}

// Duration возвращает длительность прослушивания.
func (c *Config) Duration() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.duration
}

// SetDuration устанавливает длительность прослушивания.
func (c *Config) SetDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = d
	c.save()
}

// CSVPath возвращает путь к CSV файлу; переменная окружения имеет приоритет.
func (c *Config) CSVPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.env.CSVPath != "" {
		return c.env.CSVPath
	}
	return c.csvPath
}

// SetCSVPath устанавливает путь к CSV файлу.
func (c *Config) SetCSVPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csvPath = path
	c.save()
}

// AudioDir возвращает директорию архива WAV (пусто - архив выключен).
func (c *Config) AudioDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.audioDir
}

// ModelID возвращает ID модели Vosk для языка.
func (c *Config) ModelID(lang extract.Language) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.models[lang]
}

// SetModelID устанавливает ID модели для языка.
func (c *Config) SetModelID(lang extract.Language, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models[lang] = id
	c.save()
}

// ModelPathOverride возвращает путь к модели из окружения, если задан.
func (c *Config) ModelPathOverride(lang extract.Language) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.env.ModelPaths[lang]
}

// SetNotifications включает/выключает уведомления.
func (c *Config) SetNotifications(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = enabled
	c.save()
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = !c.notifications
	c.save()
	return c.notifications
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.notifications
}

// Hotkey возвращает текущую горячую клавишу.
func (c *Config) Hotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hotkey
}

// SetHotkey устанавливает горячую клавишу.
func (c *Config) SetHotkey(hk HotkeyConfig) {
	c.mu.Lock()
	c.hotkey = hk
	callback := c.onHotkeyChange
	c.save()
	c.mu.Unlock()

	if callback != nil {
		callback(hk)
	}
}

// OnHotkeyChange устанавливает callback для изменения горячей клавиши.
func (c *Config) OnHotkeyChange(fn func(HotkeyConfig)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onHotkeyChange = fn
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.uiLanguage
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uiLanguage = lang
	c.save()
}
