package protocal

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"picturedrive/configs"
	httpAdapter "picturedrive/internal/adapters/input/http"
	telegramIn "picturedrive/internal/adapters/input/telegram"
	lineAdapter "picturedrive/internal/adapters/output/line"
	"picturedrive/internal/adapters/output/memory"
	"picturedrive/internal/adapters/output/router"
	telegramOut "picturedrive/internal/adapters/output/telegram"
	"picturedrive/internal/application"
	"picturedrive/internal/domain"
	"picturedrive/internal/ports/output"
	"picturedrive/pkg/keyqueue"
	"picturedrive/pkg/validator"
)

type config struct {
	ENV string `mapstructure:"env"`
}

// ServeBot func - wires storage, chat adapters and services, then runs the
// Telegram poller and the HTTP server until SIGINT or SIGTERM.
func ServeBot() error {
	var cfg config
	flag.StringVar(&cfg.ENV, "env", "", "the environment to use")
	flag.Parse()
	configs.InitViper("./configs", cfg.ENV)
	conf := configs.GetViper()
	setupLogger(conf.App)
	logrus.Info(conf.Env)

	if err := conf.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, conf)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logrus.Errorf("Error when closing storage: %v", err)
		}
	}()

	bot, err := tgbotapi.NewBotAPIWithClient(
		conf.Telegram.Token,
		tgbotapi.APIEndpoint,
		&http.Client{Timeout: conf.PollingClientTimeout()},
	)
	if err != nil {
		return err
	}
	logrus.WithField("bot", bot.Self.UserName).Info("Authorized on Telegram")
	if conf.Telegram.StorageChannelID == 0 {
		logrus.Warn("telegram.storage_channel_id is not set, uploads will be refused")
	}

	// Output adapters (chat platforms)
	fetchers := map[domain.Platform]output.ImageFetcher{
		domain.PlatformTelegram: telegramOut.NewFileFetcher(bot, &http.Client{Timeout: conf.RequestTimeout()}),
	}
	messenger := router.NewMessenger().
		Register(domain.PlatformTelegram, telegramOut.NewMessenger(bot))
	if conf.Line.Enabled {
		lineClient, err := lineAdapter.NewLineClientAdapter(conf.Line.ChannelToken)
		if err != nil {
			return err
		}
		lineFetcher, err := lineAdapter.NewBlobFetcher(conf.Line.ChannelToken)
		if err != nil {
			return err
		}
		messenger.Register(domain.PlatformLine, lineClient)
		fetchers[domain.PlatformLine] = lineFetcher
	}
	blobHost := telegramOut.NewBlobHost(bot, conf.Telegram.StorageChannelID, fetchers)

	// Application services (use cases)
	policy := domain.RejectWhenBound
	if conf.Auth.EvictPreviousSession {
		policy = domain.EvictPrevious
	}
	authSrv := application.NewAuthService(store.accounts, validator.New(), application.AuthConfig{
		BcryptCost:     conf.Auth.BcryptCost,
		EvictionPolicy: policy,
	})
	folderSrv := application.NewFolderService(store.folders, store.accounts)
	uploadSrv := application.NewUploadService(authSrv, folderSrv, store.folders, blobHost, nil)
	conversationSrv := application.NewConversationService(
		authSrv,
		folderSrv,
		uploadSrv,
		memory.NewStateStore(conf.SessionTimeout()),
		messenger,
		domain.LoadLocation(conf.App.Timezone),
	)

	// Input adapters
	queue := keyqueue.New(keyqueue.Config{
		QueueSize:    conf.Telegram.QueueSize,
		ErrorHandler: telegramIn.HandleJobError,
	})
	poller := telegramIn.NewPoller(bot, queue, conversationSrv, conf.Telegram.PollTimeout)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
	hdl := httpAdapter.New(store.health, conf.Storage.Driver)
	app.Get("/health", hdl.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if conf.Line.Enabled {
		lineWebhookHdl := httpAdapter.NewLineWebhookHandler(conversationSrv, conf.Line.ChannelSecret)
		webhook := app.Group("/webhook")
		{
			webhook.Post("/line", lineWebhookHdl.HandleWebhook)
		}
	}

	pollerDone := make(chan error, 1)
	go func() {
		pollerDone <- poller.Run(ctx)
	}()

	listenErr := make(chan error, 1)
	go func() {
		logrus.Println("Listerning on port: ", conf.App.Port)
		listenErr <- app.Listen(":" + conf.App.Port)
	}()

	var runErr error
	pollerRunning := true
	select {
	case <-ctx.Done():
		logrus.Println("Gracefull shut down ...")
	case err := <-listenErr:
		runErr = err
	case err := <-pollerDone:
		pollerRunning = false
		runErr = err
		if runErr == nil {
			runErr = errors.New("telegram poller stopped unexpectedly")
		}
	}

	stop()
	if pollerRunning {
		<-pollerDone
	}
	queue.Stop()
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("Error when shutdown server: %v", err)
	}
	return runErr
}

func setupLogger(app configs.App) {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if app.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetLevel(logrus.InfoLevel)
	if app.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}
