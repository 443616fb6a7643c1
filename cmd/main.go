package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailv1 "google.golang.org/api/gmail/v1"

	"deal-detector/config"
	"deal-detector/domain/classify"
	"deal-detector/domain/coupon"
	"deal-detector/domain/enrich"
	"deal-detector/domain/extract"
	"deal-detector/domain/sync"
	"deal-detector/pkg/apperrors"
	"deal-detector/pkg/gemini"
	"deal-detector/pkg/gmailapi"
	"deal-detector/pkg/logger"
	"deal-detector/pkg/notify"
	"deal-detector/routes"
)

type pipeline struct {
	gmail   *gmailapi.Client
	model   *gemini.Client
	engine  *sync.Engine
	webhook *sync.WebhookHandler
	coupons *coupon.Handler
}

func main() {
	config.InitConfig()

	logger.Init(logger.Config{
		Level:       logger.Level(viper.GetString("LOG_LEVEL")),
		Environment: viper.GetString("ENVIRONMENT"),
		ServiceName: "deal-detector",
		Version:     viper.GetString("VERSION"),
	})
	log := logger.Get()

	config.InitDB()
	defer config.CloseDB()
	config.InitRedis()

	ctx := context.Background()
	p, err := buildPipeline(ctx)
	if err != nil {
		log.Fatal("Failed to build pipeline", err)
	}
	defer p.model.Close()

	cmd := "server"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "server":
		startServer(p)
	case "watch":
		runWatch(ctx, p, requireMailboxArg())
	case "unwatch":
		runUnwatch(ctx, p, requireMailboxArg())
	case "resync":
		runResync(ctx, p, requireMailboxArg())
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		fmt.Println("Usage: deal-detector [server|watch <mailbox>|unwatch <mailbox>|resync <mailbox>]")
		os.Exit(1)
	}
}

func requireMailboxArg() string {
	if len(os.Args) < 3 {
		fmt.Println("Missing mailbox argument")
		os.Exit(1)
	}
	return os.Args[2]
}

func buildPipeline(ctx context.Context) (*pipeline, error) {
	model, err := gemini.NewClient(ctx,
		viper.GetString("GEMINI_API_KEY"),
		viper.GetString("GEMINI_OCR_MODEL"),
		viper.GetString("GEMINI_CLASSIFY_MODEL"),
	)
	if err != nil {
		return nil, err
	}

	gmailClient, err := gmailapi.NewClient(ctx, tokenSource(ctx))
	if err != nil {
		return nil, err
	}

	couponStore := coupon.NewStore(config.DB)
	cursors := sync.NewSQLCursorStore(config.DB)

	images := extract.NewImageTextRecoverer(model, viper.GetDuration("IMAGE_FETCH_TIMEOUT"))
	offers := classify.NewExtractor(model, viper.GetDuration("CLASSIFY_TIMEOUT"))
	enricher := enrich.NewService(viper.GetDuration("IMAGE_FETCH_TIMEOUT"))

	var notifier sync.Notifier
	if key := viper.GetString("RESEND_API_KEY"); key != "" {
		notifier = notify.NewNotifier(key, viper.GetString("DIGEST_FROM_ADDRESS"))
	}

	proc := sync.NewProcessor(gmailClient, images, offers, enricher, couponStore)
	engine := sync.NewEngine(
		gmailClient,
		cursors,
		proc,
		notifier,
		gmailapi.PromotionalLabel,
		viper.GetInt("SYNC_WORKER_COUNT"),
	)

	return &pipeline{
		gmail:   gmailClient,
		model:   model,
		engine:  engine,
		webhook: sync.NewWebhookHandler(engine, viper.GetDuration("WEBHOOK_ACK_WINDOW")),
		coupons: coupon.NewHandler(couponStore),
	}, nil
}

// tokenSource builds an auto-refreshing OAuth2 token source from the
// stored refresh token.
func tokenSource(ctx context.Context) oauth2.TokenSource {
	cfg := &oauth2.Config{
		ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		ClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmailv1.GmailReadonlyScope},
	}
	return cfg.TokenSource(ctx, &oauth2.Token{
		RefreshToken: viper.GetString("GOOGLE_REFRESH_TOKEN"),
	})
}

func startServer(p *pipeline) {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler(log)

	e.Use(logger.RequestLoggerMiddleware(log))
	e.Use(logger.RecoveryMiddleware(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: viper.GetStringSlice("CORS_ORIGINS"),
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		MaxAge:       86400,
	}))

	routes.RegisterRoutes(e, p.webhook, p.coupons)

	serverCtx, stopRenewal := context.WithCancel(context.Background())
	go renewWatches(serverCtx, p)

	go func() {
		port := viper.GetString("PORT")
		if port == "" {
			port = "8080"
		}
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	stopRenewal()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", err)
	}
}

// renewWatches keeps the push registrations alive for the configured
// mailboxes. Registrations expire after seven days; a daily re-register
// keeps comfortable margin.
func renewWatches(ctx context.Context, p *pipeline) {
	log := logger.Get().WithComponent("watch_renewal")

	topic := viper.GetString("PUBSUB_TOPIC")
	mailboxes := viper.GetStringSlice("WATCH_MAILBOXES")
	if topic == "" || len(mailboxes) == 0 {
		log.Info("Watch renewal disabled, no topic or mailboxes configured")
		return
	}

	register := func() {
		for _, mailbox := range mailboxes {
			if _, _, err := p.gmail.StartWatch(ctx, mailbox, topic); err != nil {
				log.Error("Failed to renew watch", err, logger.Mailbox(mailbox))
			}
		}
	}

	register()

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			register()
		}
	}
}

func runWatch(ctx context.Context, p *pipeline, mailbox string) {
	topic := viper.GetString("PUBSUB_TOPIC")
	historyID, expiration, err := p.gmail.StartWatch(ctx, mailbox, topic)
	if err != nil {
		fmt.Printf("Failed to register watch: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Watch registered for %s (history_id=%d, expires=%s)\n",
		mailbox, historyID, time.UnixMilli(expiration).Format(time.RFC3339))
}

func runUnwatch(ctx context.Context, p *pipeline, mailbox string) {
	if err := p.gmail.StopWatch(ctx, mailbox); err != nil {
		fmt.Printf("Failed to stop watch: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Watch stopped for %s\n", mailbox)
}

func runResync(ctx context.Context, p *pipeline, mailbox string) {
	if err := p.engine.FullSync(ctx, mailbox); err != nil {
		fmt.Printf("Resync failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Resync completed for %s\n", mailbox)
}
