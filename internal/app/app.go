// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"log"
	"sync"

	"voiceroll/internal/audio"
	"voiceroll/internal/audiolog"
	"voiceroll/internal/capture"
	"voiceroll/internal/config"
	"voiceroll/internal/dialog"
	"voiceroll/internal/extract"
	"voiceroll/internal/hotkey"
	"voiceroll/internal/i18n"
	"voiceroll/internal/ledger"
	"voiceroll/internal/listen"
	"voiceroll/internal/models"
	"voiceroll/internal/notify"
	"voiceroll/internal/speech"
	"voiceroll/internal/tray"
	"voiceroll/internal/ui"
)

// App представляет главное приложение.
type App struct {
	mu       sync.Mutex
	config   *config.Config
	manager  *models.Manager
	factory  *speech.Factory
	recorder *ledger.Recorder
	listener *listen.Listener
	notifier *notify.Notifier
	tray     *tray.Tray
	hotkey   *hotkey.Toggle
	window   *ui.Window

	saved          []ledger.Record // строки CSV, записанные до запуска
	busy           bool            // идёт запись: второй запуск запрещён
	stopListening  context.CancelFunc
	downloading    bool
	cancelDownload context.CancelFunc
	work           sync.WaitGroup
}

// New создаёт новое приложение.
func New() (*App, error) {
	cfg := config.New()

	// Инициализируем язык интерфейса из конфига
	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	if err := audio.Probe(); err != nil {
		log.Printf("Микрофон недоступен: %v", err)
		dialog.ShowError(i18n.T("app_name"), i18n.T("error_device")+": "+err.Error())
	}

	manager, err := models.NewManager()
	if err != nil {
		return nil, err
	}

	store := ledger.NewCSVStore(cfg.CSVPath())
	saved, err := store.Load()
	if err != nil {
		log.Printf("Не удалось прочитать %s: %v", store.Path(), err)
	}

	a := &App{
		config:   cfg,
		manager:  manager,
		factory:  speech.NewFactory(manager, cfg, capture.DefaultFormat),
		recorder: ledger.NewRecorder(nil, store),
		notifier: notify.New(cfg.NotificationsEnabled()),
		window:   ui.New(cfg.Language()),
		saved:    saved,
	}

	opts := []listen.Option{listen.WithLevel(a.window.SetLevel)}
	if archive := audiolog.New(cfg.AudioDir(), capture.DefaultFormat); archive != nil {
		log.Printf("Аудио сессий сохраняется в %s", archive.Dir())
		opts = append(opts, listen.WithArchive(archive))
	}
	a.listener = listen.New(audio.New(), a.factory, a.recorder, opts...)

	a.hotkey = hotkey.New(a.toggleListening)
	cfg.OnHotkeyChange(func(hk config.HotkeyConfig) {
		if err := a.hotkey.Register(hk); err != nil {
			log.Printf("Ошибка регистрации горячей клавиши: %v", err)
			a.notifier.Error(i18n.T("error_hotkey_register"))
			return
		}
		a.window.SetHotkey(hk.String())
	})

	a.window.OnStart(a.startListening)
	a.window.OnStop(a.stop)
	a.window.OnLanguageChange(func(lang extract.Language) {
		a.config.SetLanguage(lang)
		a.refreshModelState(lang)
	})
	a.window.OnDownload(a.download)
	a.window.OnUILangChange(func(lang i18n.Language) {
		a.config.SetUILanguage(string(lang))
		a.tray.RefreshUI()
	})
	a.window.OnHotkeyEdit(func() {
		hk, err := dialog.SelectHotkey(a.config.Hotkey())
		if err != nil {
			if !errors.Is(err, dialog.ErrCanceled) {
				a.notifier.Error(err.Error())
			}
			return
		}
		a.config.SetHotkey(hk)
	})

	a.tray = tray.New(tray.Callbacks{
		OnShow:   a.window.Show,
		OnListen: a.toggleListening,
		OnNotificationsToggle: func() bool {
			enabled := a.config.ToggleNotifications()
			a.notifier.SetEnabled(enabled)
			return enabled
		},
		OnSelectCSV: a.selectCSV,
		OnQuit:      a.Close,
	}, cfg.NotificationsEnabled())

	return a, nil
}

// Run запускает приложение. Блокирующая функция.
func (a *App) Run() {
	a.tray.Run(func() {
		hk := a.config.Hotkey()
		if err := a.hotkey.Register(hk); err != nil {
			log.Printf("Ошибка регистрации горячей клавиши: %v", err)
			a.notifier.Error(i18n.T("error_hotkey_register"))
		} else {
			a.window.SetHotkey(hk.String())
		}

		a.refreshTable()
		a.refreshModelState(a.config.Language())
		a.window.Show()
		a.notifier.Info(i18n.T("notify_ready"))
	})
}

// refreshModelState показывает кнопку скачивания, если модели языка нет,
// иначе загружает модель в фоне, чтобы первая запись не ждала загрузки.
func (a *App) refreshModelState(lang extract.Language) {
	if !a.factory.Ready(lang) {
		info := models.Resolve(a.config.ModelID(lang), lang)
		a.window.SetModelMissing(info.Name)
		return
	}
	a.window.SetModelMissing("")

	name := models.Resolve(a.config.ModelID(lang), lang).Name
	if path := a.config.ModelPathOverride(lang); path != "" {
		name = path
	}

	a.work.Add(1)
	go func() {
		defer a.work.Done()

		a.window.SetLoading(name, true)
		defer a.window.SetLoading("", false)

		if _, err := a.factory.Load(lang); err != nil {
			log.Printf("Ошибка загрузки модели: %v", err)
			a.window.SetIdle(i18n.T("error_model_load")+": "+err.Error(), true)
			a.notifier.Error(i18n.T("error_model_load"))
		}
	}()
}

func (a *App) refreshTable() {
	a.mu.Lock()
	saved := a.saved
	a.mu.Unlock()
	a.window.SetRecords(a.recorder.Ledger().Records(), saved)
}

// toggleListening запускает запись, а если она идёт - останавливает.
func (a *App) toggleListening() {
	a.mu.Lock()
	busy := a.busy
	a.mu.Unlock()

	if busy {
		a.stop()
		return
	}
	a.window.Show()
	a.startListening(a.config.Language())
}

func (a *App) startListening(lang extract.Language) {
	a.mu.Lock()
	if a.busy || a.downloading {
		a.mu.Unlock()
		a.notifier.Error(i18n.T("error_busy"))
		return
	}
	if !a.factory.Ready(lang) {
		a.mu.Unlock()
		a.refreshModelState(lang)
		a.notifier.Error(i18n.T("error_model_not_downloaded"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.busy = true
	a.stopListening = cancel
	a.work.Add(1)
	a.mu.Unlock()

	duration := a.config.Duration()
	a.tray.SetState(tray.StateListening)
	a.window.SetListening(duration)
	a.notifier.Listening()

	go func() {
		defer a.work.Done()
		out, err := a.listener.Run(ctx, lang, duration)
		cancel()
		a.finish(out, err)
	}()
}

func (a *App) stop() {
	a.mu.Lock()
	cancel := a.stopListening
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (a *App) finish(out listen.Outcome, err error) {
	a.mu.Lock()
	a.busy = false
	a.stopListening = nil
	a.mu.Unlock()

	a.tray.SetState(tray.StateIdle)
	if out.Recorded {
		a.window.SetTranscript(out.Text)
		a.refreshTable()
	}

	if err != nil {
		msg := errorMessage(err, out)
		a.window.SetIdle(msg+": "+err.Error(), true)
		a.notifier.Error(msg)
		return
	}

	switch out.State {
	case capture.StateFinalized:
		a.window.SetIdle(i18n.Tf("ui_status_recorded", out.Record.Name, out.Record.Country), false)
		a.notifier.Recorded(out.Record.Name, out.Record.Country)
	case capture.StateStopped:
		a.window.SetIdle(i18n.T("ui_status_stopped"), false)
	default:
		a.window.SetIdle(i18n.T("ui_status_no_speech"), false)
		a.notifier.NoSpeech()
	}
}

func errorMessage(err error, out listen.Outcome) string {
	switch {
	case out.Recorded:
		return i18n.T("error_save")
	case errors.Is(err, speech.ErrModelNotDownloaded):
		return i18n.T("error_model_not_downloaded")
	case errors.Is(err, capture.ErrDeviceOpen), errors.Is(err, audio.ErrBusy):
		return i18n.T("error_device")
	case errors.Is(err, capture.ErrRecognizerDecode):
		return i18n.T("error_recognition")
	default:
		return i18n.T("error_recording")
	}
}

func (a *App) download(lang extract.Language) {
	a.mu.Lock()
	if a.busy || a.downloading {
		a.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.downloading = true
	a.cancelDownload = cancel
	a.work.Add(1)
	a.mu.Unlock()

	info := models.Resolve(a.config.ModelID(lang), lang)
	log.Printf("Скачивание модели %s", info.Name)
	a.tray.SetState(tray.StateLoading)
	a.window.SetDownload(0, true)

	go func() {
		defer a.work.Done()

		progressCh := make(chan models.Progress, 10)
		progressDone := make(chan struct{})
		go func() {
			defer close(progressDone)
			for p := range progressCh {
				if p.Total > 0 {
					a.window.SetDownload(float64(p.Downloaded)/float64(p.Total), true)
				}
			}
		}()

		err := a.manager.Download(ctx, info, progressCh)
		close(progressCh)
		<-progressDone
		cancel()

		a.mu.Lock()
		a.downloading = false
		a.cancelDownload = nil
		a.mu.Unlock()

		a.window.SetDownload(0, false)
		a.tray.SetState(tray.StateIdle)

		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("Ошибка скачивания модели: %v", err)
				a.window.SetIdle(i18n.T("error_download")+": "+err.Error(), true)
				a.notifier.Error(i18n.T("error_download"))
			}
			return
		}

		a.config.SetModelID(lang, info.ID)
		a.window.SetIdle(i18n.T("ui_status_idle"), false)
		a.refreshModelState(lang)
	}()
}

func (a *App) selectCSV() {
	a.mu.Lock()
	busy := a.busy
	a.mu.Unlock()
	if busy {
		a.notifier.Error(i18n.T("error_busy"))
		return
	}

	path, err := dialog.SelectCSVPath(a.config.CSVPath())
	if err != nil {
		return
	}
	a.config.SetCSVPath(path)

	store := ledger.NewCSVStore(a.config.CSVPath())
	saved, err := store.Load()
	if err != nil {
		log.Printf("Не удалось прочитать %s: %v", store.Path(), err)
	}
	a.recorder.SetStore(store)

	a.mu.Lock()
	a.saved = saved
	a.mu.Unlock()
	a.refreshTable()
	log.Printf("Записи сохраняются в %s", store.Path())
}

// Close освобождает ресурсы приложения.
func (a *App) Close() {
	a.mu.Lock()
	if a.stopListening != nil {
		a.stopListening()
	}
	if a.cancelDownload != nil {
		a.cancelDownload()
	}
	a.mu.Unlock()

	a.hotkey.Unregister()
	a.window.Hide()

	// Запись прерывается не позже чем через один чанк
	a.work.Wait()
	a.factory.Close()
}
