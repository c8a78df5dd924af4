// VoiceRoll - запись имени и страны с голоса в таблицу.
//
// Слушает микрофон несколько секунд, распознаёт фразу офлайн через Vosk
// (английский или китайский), извлекает имя и страну и дописывает их в CSV.
// Запуск записи: кнопка в окне, пункт меню трея или Ctrl+Shift+L.
package main

import (
	"log"
	"os"

	"voiceroll/internal/app"
	"voiceroll/internal/hotkey"
)

// Version устанавливается при сборке через -ldflags.
var Version = "dev"

func main() {
	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Printf("VoiceRoll %s запускается...", Version)

	// Запускаем в главном потоке (требование для macOS и некоторых GUI)
	hotkey.RunOnMainThread(run)
}

func run() {
	application, err := app.New()
	if err != nil {
		log.Printf("Ошибка инициализации: %v", err)
		os.Exit(1)
	}

	application.Run()
}
