package bootstrap

import (
	"context"
	"log"

	"realty-agent-be/internal/config"
	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/controller"
	"realty-agent-be/internal/handler"
	"realty-agent-be/internal/mapper"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/internal/repository/implementation"
	"realty-agent-be/internal/service"
	"realty-agent-be/internal/websocket"
	pktNats "realty-agent-be/pkg/nats"
	"realty-agent-be/pkg/sensay"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReplicaController   controller.IReplicaController
	KnowledgeController controller.IKnowledgeController
	ChatController      controller.IChatController
	SettingsController  controller.ISettingsController

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Background Services (exposed for main.go to run and stop)
	ConsumerService service.IConsumerService
	TrackerService  service.ITrackerService
	SettingsService service.ISettingsService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// In-process bus: decouples submitters from the tracker.
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS event bus. Optional: the dashboard works without it, only the
	// notification inbox goes quiet.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		natsSub = nil
	}

	// Redis for cross-instance websocket fan-out. Also optional.
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
		rdb = nil
	}

	// WebSocket hub on an isolated logger; polling and socket chatter would
	// drown the main log.
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Repositories
	settingRepo := implementation.NewSettingRepository(db)
	submissionRepo := implementation.NewSubmissionRepository(db)
	notifRepo := implementation.NewNotificationRepository(db)

	// Mappers
	replicaMapper := mapper.NewReplicaMapper()
	knowledgeMapper := mapper.NewKnowledgeMapper()

	// Settings own the platform credentials and hand out the client.
	settingsService := service.NewSettingsService(cfg.Sensay, settingRepo, natsPub, sysLogger)
	if err := settingsService.Bootstrap(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to load settings: %v", err)
	}

	trackerService := service.NewTrackerService(
		settingsService,
		cfg.Tracker.PollInterval,
		natsPub,
		wsHub,
		knowledgeMapper,
		wsLogger,
	)
	// Tracked state belongs to one organization; drop it when the secret
	// changes.
	settingsService.OnCredentialsChanged(trackerService.Reset)

	publisherService := service.NewPublisherService(pubSub, constant.KnowledgeSubmittedTopic)
	consumerService := service.NewConsumerService(pubSub, constant.KnowledgeSubmittedTopic, trackerService, sysLogger)

	knowledgeService := service.NewKnowledgeService(
		settingsService,
		trackerService,
		submissionRepo,
		publisherService,
		natsPub,
		knowledgeMapper,
		sysLogger,
	)

	replicaService := service.NewReplicaService(
		settingsService,
		replicaMapper,
		natsPub,
		constant.DefaultSeedGuide,
		sensay.LLMSpec{Provider: cfg.Sensay.LLMProvider, Model: cfg.Sensay.LLMModel},
		sysLogger,
	)

	chatService := service.NewChatService(settingsService, sysLogger)

	// Notification inbox: bus events become persisted, pushed entries.
	notifService := service.NewNotificationService(notifRepo, wsHub, wsLogger)
	if natsSub != nil {
		if err := natsSub.Subscribe("events.>", "notification-inbox", notifService.HandleEvent); err != nil {
			log.Printf("[WARN] Failed to subscribe notification inbox: %v", err)
		}
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		ReplicaController:   controller.NewReplicaController(replicaService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ChatController:      controller.NewChatController(chatService),
		SettingsController:  controller.NewSettingsController(settingsService),

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ConsumerService: consumerService,
		TrackerService:  trackerService,
		SettingsService: settingsService,

		Logger: sysLogger,
	}
}
