package bootstrap

import (
	"context"
	"log"

	"caseflow-be/internal/config"
	"caseflow-be/internal/controller"
	"caseflow-be/internal/handler"
	"caseflow-be/internal/pkg/logger"
	"caseflow-be/internal/pkg/mailer"
	"caseflow-be/internal/repository/contract"
	"caseflow-be/internal/repository/implementation"
	"caseflow-be/internal/service"
	"caseflow-be/internal/syncstore"
	"caseflow-be/internal/upstream"
	"caseflow-be/internal/websocket"

	pktNats "caseflow-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CaseController     controller.ICaseController
	CaseDataController controller.ICaseDataController
	WorkflowController controller.IWorkflowController

	// Background Services (Exposed for main.go to run)
	NotificationService service.INotificationService

	// WebSockets
	ProgressWsHandler *handler.ProgressWsHandler
	WebSocketHub      *websocket.Hub
}

// NewContainer wires the application. db may be nil; the snapshot mirror is
// then disabled and the cache alone holds reconciled data.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	upstreamClient := upstream.NewHTTPClient(
		cfg.Upstream.BaseURL,
		cfg.Upstream.APIKey,
		cfg.Upstream.Timeout,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	var snapshotRepo contract.SnapshotRepository
	if db != nil {
		snapshotRepo = implementation.NewSnapshotRepository(db)
	}

	publisherService := service.NewPublisherService(cfg.App.ProgressTopic, pubSub)
	syncService := service.NewSyncService(upstreamClient, syncstore.NewStore(), snapshotRepo, natsPub, sysLogger)
	caseService := service.NewCaseService(upstreamClient, natsPub, sysLogger)
	progressService := service.NewProgressService(syncService, upstreamClient, publisherService, sysLogger)

	notifService := service.NewNotificationService(
		cfg.App.ProgressTopic,
		pubSub,
		natsSub,
		wsHub,
		emailService,
		wsLogger,
	)

	// 4. Controllers
	return &Container{
		CaseController:     controller.NewCaseController(caseService),
		CaseDataController: controller.NewCaseDataController(syncService),
		WorkflowController: controller.NewWorkflowController(progressService),

		NotificationService: notifService,

		ProgressWsHandler: handler.NewProgressWsHandler(wsHub, wsLogger),
		WebSocketHub:      wsHub,
	}
}
