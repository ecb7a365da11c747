package main

import (
	"CalAssist/ai/gpt"
	"CalAssist/bot"
	"CalAssist/impl/core"
	"CalAssist/internal/config"
	repository "CalAssist/internal/database"
	"CalAssist/internal/http-server/api"
	"CalAssist/internal/lib/logger"
	"CalAssist/internal/lib/sl"
	"CalAssist/internal/service/auth"
	"CalAssist/internal/service/gcal"
	"CalAssist/internal/service/reminder"
	"CalAssist/internal/service/scheduler"
	"CalAssist/internal/ws"
	"context"
	"flag"
	"log/slog"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	// Initialize Telegram bot if enabled
	var tgBot *bot.TgBot
	if conf.Telegram.Enabled {
		var err error
		tgBot, err = bot.NewTgBot(conf.Telegram.BotName, conf.Telegram.ApiKey, conf.Telegram.AdminId, lg)
		if err != nil {
			lg.Error("failed to initialize telegram bot", slog.String("error", err.Error()))
		} else {
			// Mirror error-level logs to the admin chat
			lg = logger.SetupNotifyHandler(lg, tgBot, slog.LevelError)
			lg.With(
				slog.String("bot_name", conf.Telegram.BotName),
			).Info("telegram bot initialized")

			go func() {
				if err := tgBot.Start(); err != nil {
					lg.Error("telegram bot error", slog.String("error", err.Error()))
				}
			}()
		}
	}

	lg.Info("starting calassist", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	handler := core.New(lg)
	handler.SetAuthKey(conf.Listen.ApiKey)
	handler.SetTicketSecret(conf.Listen.TicketSecret)

	authService := auth.NewAuthService(lg)

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		authService.SetRepository(db)
		handler.SetRepository(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}
	handler.SetAuthService(authService)

	calendarService := gcal.NewService(conf, lg)
	if db != nil {
		calendarService.SetRepository(db)
		handler.SetCalendarAuth(calendarService)
		lg.With(
			sl.Secret("client_id", conf.Google.ClientId),
			slog.String("calendar", conf.Google.CalendarId),
		).Info("google calendar service initialized")
	}

	schedulerService := scheduler.NewService(lg)
	if db != nil {
		schedulerService.SetRepository(db)
		schedulerService.SetCalendar(calendarService)
	}
	handler.SetScheduler(schedulerService)

	assistant := gpt.NewAssistant(conf, lg)
	assistant.SetScheduler(schedulerService)
	if db != nil {
		assistant.SetRepository(db)
	}
	handler.SetAssistant(assistant)
	lg.With(
		sl.Secret("openai_key", conf.OpenAI.ApiKey),
		slog.String("model", conf.OpenAI.Model),
	).Info("assistant initialized")

	hub := ws.NewHub(lg)
	go hub.Run()
	handler.SetBroadcaster(hub)

	if db != nil {
		reminderService := reminder.NewService(conf, lg)
		reminderService.SetRepository(db)
		reminderService.AddNotifier(hub)
		if tgBot != nil {
			reminderService.AddNotifier(tgBot)
		}
		go reminderService.Start(context.Background())
	} else {
		lg.Warn("reminders disabled, no repository")
	}

	handler.Init()

	// *** blocking start with http server ***
	err = api.New(conf, lg, handler, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
