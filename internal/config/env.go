package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"voiceroll/internal/extract"
)

// Переменные окружения (можно задать в .env в рабочей директории).
const (
	EnvModelEnglish = "VOICEROLL_MODEL_EN"
	EnvModelChinese = "VOICEROLL_MODEL_ZH"
	EnvCSVPath      = "VOICEROLL_CSV"
)

// Env - переопределения из окружения.
type Env struct {
	// ModelPaths - путь к распакованной модели Vosk по языку.
	ModelPaths map[extract.Language]string
	CSVPath    string
}

// LoadEnv читает .env (если есть) и переменные окружения.
// Уже заданные переменные окружения не перезаписываются.
func LoadEnv(files ...string) Env {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Printf("Ошибка чтения %s: %v", f, err)
		}
	}

	env := Env{
		ModelPaths: make(map[extract.Language]string),
		CSVPath:    os.Getenv(EnvCSVPath),
	}
	if p := os.Getenv(EnvModelEnglish); p != "" {
		env.ModelPaths[extract.English] = p
	}
	if p := os.Getenv(EnvModelChinese); p != "" {
		env.ModelPaths[extract.Chinese] = p
	}
	return env
}
