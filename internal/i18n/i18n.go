// Package i18n provides internationalization support.
package i18n

import (
	"fmt"
	"sync"
)

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
	ZH Language = "zh"
)

var (
	mu      sync.RWMutex
	current = EN // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "VoiceRoll",
		"app_tooltip": "VoiceRoll - имя и страна с голоса",

		// Tray menu
		"tray_ready":              "Готов к работе",
		"tray_recording":          "Слушаю...",
		"tray_show":               "Открыть окно",
		"tray_show_hint":          "Таблица и управление записью",
		"tray_listen":             "Начать прослушивание",
		"tray_listen_hint":        "Записать фразу с микрофона",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_csv":                "Файл CSV...",
		"tray_csv_hint":           "Куда сохранять записи",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_listening":      "Слушаю...",
		"notify_listening_hint": "Назовите имя и страну",
		"notify_recorded":       "Записано",
		"notify_no_speech":      "Речь не распознана",
		"notify_no_speech_hint": "Попробуйте ещё раз",
		"notify_error":          "Ошибка",
		"notify_ready":          "VoiceRoll готов к работе",

		// Main window
		"ui_title":            "VoiceRoll",
		"ui_language":         "Язык распознавания",
		"ui_lang_english":     "English",
		"ui_lang_chinese":     "中文",
		"ui_start":            "Начать прослушивание",
		"ui_stop":             "Остановить",
		"ui_status_idle":      "Готов",
		"ui_status_listening": "Слушаю %d с...",
		"ui_status_recorded":  "Записано: %s, %s",
		"ui_status_no_speech": "Речь не распознана",
		"ui_status_stopped":   "Остановлено",
		"ui_transcript":       "Распознанный текст",
		"ui_table":            "Записанные данные",
		"ui_col_name":         "Имя",
		"ui_col_country":      "Страна",
		"ui_from_file":        "ранее",
		"ui_empty":            "Пока нет записей",
		"ui_model_missing":    "Модель %s не скачана",
		"ui_download":         "Скачать модель",
		"ui_downloading":      "Загрузка",
		"ui_loading_model":    "Загрузка модели...",
		"ui_ui_language":      "Язык интерфейса",
		"ui_hotkey":           "Горячая клавиша: %s",

		// Errors
		"error_model_not_downloaded": "Модель не скачана. Скачайте её в главном окне.",
		"error_model_load":           "Не удалось загрузить модель",
		"error_device":               "Не удалось открыть микрофон",
		"error_recording":            "Ошибка записи",
		"error_recognition":          "Ошибка распознавания",
		"error_save":                 "Запись не сохранена в файл",
		"error_hotkey_register":      "Не удалось зарегистрировать горячую клавишу",
		"error_download":             "Не удалось скачать модель",
		"error_busy":                 "Запись уже идёт",
	},

	EN: {
		// App
		"app_name":    "VoiceRoll",
		"app_tooltip": "VoiceRoll - name and country from speech",

		// Tray menu
		"tray_ready":              "Ready",
		"tray_recording":          "Listening...",
		"tray_show":               "Show window",
		"tray_show_hint":          "Table and listening controls",
		"tray_listen":             "Start listening",
		"tray_listen_hint":        "Record a phrase from the microphone",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_csv":                "CSV file...",
		"tray_csv_hint":           "Where records are saved",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close application",

		// Notifications
		"notify_listening":      "Listening...",
		"notify_listening_hint": "Say your name and country",
		"notify_recorded":       "Recorded",
		"notify_no_speech":      "No speech recognized",
		"notify_no_speech_hint": "Please try again",
		"notify_error":          "Error",
		"notify_ready":          "VoiceRoll is ready",

		// Main window
		"ui_title":            "VoiceRoll",
		"ui_language":         "Recognition language",
		"ui_lang_english":     "English",
		"ui_lang_chinese":     "Chinese",
		"ui_start":            "Start Listening",
		"ui_stop":             "Stop Listening",
		"ui_status_idle":      "Ready",
		"ui_status_listening": "Listening for %d seconds...",
		"ui_status_recorded":  "Recorded: %s, %s",
		"ui_status_no_speech": "No valid input detected",
		"ui_status_stopped":   "Stopped",
		"ui_transcript":       "Transcribed text",
		"ui_table":            "Recorded information",
		"ui_col_name":         "Name",
		"ui_col_country":      "Country",
		"ui_from_file":        "earlier",
		"ui_empty":            "No records yet",
		"ui_model_missing":    "Model %s is not downloaded",
		"ui_download":         "Download model",
		"ui_downloading":      "Downloading",
		"ui_loading_model":    "Loading model...",
		"ui_ui_language":      "Interface language",
		"ui_hotkey":           "Hotkey: %s",

		// Errors
		"error_model_not_downloaded": "Model not downloaded. Download it in the main window.",
		"error_model_load":           "Could not load model",
		"error_device":               "Could not open the microphone",
		"error_recording":            "Recording error",
		"error_recognition":          "Recognition error",
		"error_save":                 "Record was not saved to file",
		"error_hotkey_register":      "Could not register hotkey",
		"error_download":             "Could not download model",
		"error_busy":                 "Already listening",
	},

	ZH: {
		// App
		"app_name":    "VoiceRoll",
		"app_tooltip": "VoiceRoll - 语音登记姓名和国家",

		// Tray menu
		"tray_ready":              "就绪",
		"tray_recording":          "正在聆听...",
		"tray_show":               "显示窗口",
		"tray_show_hint":          "表格和录音控制",
		"tray_listen":             "开始聆听",
		"tray_listen_hint":        "从麦克风录制一句话",
		"tray_notifications":      "通知",
		"tray_notifications_hint": "显示通知",
		"tray_csv":                "CSV 文件...",
		"tray_csv_hint":           "记录保存位置",
		"tray_quit":               "退出",
		"tray_quit_hint":          "关闭应用",

		// Notifications
		"notify_listening":      "正在聆听...",
		"notify_listening_hint": "请说出姓名和国家",
		"notify_recorded":       "已记录",
		"notify_no_speech":      "未识别到语音",
		"notify_no_speech_hint": "请再试一次",
		"notify_error":          "错误",
		"notify_ready":          "VoiceRoll 已就绪",

		// Main window
		"ui_title":            "VoiceRoll",
		"ui_language":         "识别语言",
		"ui_lang_english":     "英语",
		"ui_lang_chinese":     "中文",
		"ui_start":            "开始聆听",
		"ui_stop":             "停止聆听",
		"ui_status_idle":      "就绪",
		"ui_status_listening": "正在聆听 %d 秒...",
		"ui_status_recorded":  "已记录：%s，%s",
		"ui_status_no_speech": "未检测到有效输入",
		"ui_status_stopped":   "已停止",
		"ui_transcript":       "识别文本",
		"ui_table":            "已记录信息",
		"ui_col_name":         "姓名",
		"ui_col_country":      "国家",
		"ui_from_file":        "之前",
		"ui_empty":            "暂无记录",
		"ui_model_missing":    "模型 %s 尚未下载",
		"ui_download":         "下载模型",
		"ui_downloading":      "下载中",
		"ui_loading_model":    "正在加载模型...",
		"ui_ui_language":      "界面语言",
		"ui_hotkey":           "快捷键：%s",

		// Errors
		"error_model_not_downloaded": "模型未下载，请在主窗口下载。",
		"error_model_load":           "无法加载模型",
		"error_device":               "无法打开麦克风",
		"error_recording":            "录音错误",
		"error_recognition":          "识别错误",
		"error_save":                 "记录未保存到文件",
		"error_hotkey_register":      "无法注册快捷键",
		"error_download":             "无法下载模型",
		"error_busy":                 "正在录音中",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to English, then to the key itself
	if s, ok := translations[EN][key]; ok {
		return s
	}
	return key
}

// Tf formats the translation for key with args.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// SetLanguage sets the current UI language. Unknown languages are ignored.
func SetLanguage(lang Language) {
	if _, ok := translations[lang]; !ok {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{RU, EN, ZH}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	case ZH:
		return "中文"
	default:
		return string(lang)
	}
}
