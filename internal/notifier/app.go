package notifier

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/vamazon/internal/flagx"
	"github.com/dmitrijs2005/vamazon/internal/logging"
	"github.com/dmitrijs2005/vamazon/internal/notifier/config"
	"github.com/dmitrijs2005/vamazon/internal/server/events"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	consumer *events.Consumer
	handler  *Handler
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(c.LogLevel))

	mailer, err := newMailer(c, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   c,
		logger:   logger,
		consumer: events.NewConsumer(flagx.SplitList(c.KafkaBrokers), c.KafkaTopic, c.KafkaGroupID, logger),
		handler:  NewHandler(mailer, c.OrdersURL, logger),
	}, nil
}

// newMailer falls back to logging when no Resend key is configured so the
// pipeline can run locally.
func newMailer(c *config.Config, logger logging.Logger) (Mailer, error) {
	if c.ResendAPIKey == "" {
		logger.Warn(context.Background(), "resend api key not set, emails will only be logged")
		return LogMailer{logger: logger}, nil
	}
	return NewResendMailer(c.ResendAPIKey, c.EmailFrom, c.EmailFromName)
}

func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	app.logger.Info(ctx, "Starting notifier...", "topic", app.config.KafkaTopic, "group", app.config.KafkaGroupID)

	if err := app.consumer.Consume(ctx, app.handler.HandleEvent); err != nil && ctx.Err() == nil {
		app.logger.Error(ctx, "consumer error", "error", err)
	}

	if err := app.consumer.Close(); err != nil {
		app.logger.Error(context.Background(), "consumer close error", "error", err)
	}
	app.logger.Info(context.Background(), "Notifier stopped")
}
