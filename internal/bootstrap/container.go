package bootstrap

import (
	"context"
	"log"

	"collabnote-be/internal/config"
	"collabnote-be/internal/controller"
	"collabnote-be/internal/pkg/logger"
	"collabnote-be/internal/pkg/mailer"
	"collabnote-be/internal/pkg/serverutils"
	"collabnote-be/internal/pkg/statscache"
	"collabnote-be/internal/repository/memory"
	"collabnote-be/internal/repository/unitofwork"
	"collabnote-be/internal/service"
	pktNats "collabnote-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController     controller.IAuthController
	UserController     controller.IUserController
	NotebookController controller.INotebookController
	NoteController     controller.INoteController

	// Background services, run from main.
	SummarizerService service.ISummarizerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus for in-process work
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS: auxiliary event fan-out, the API works without it.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis: stats cache, also optional.
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
	statsCache := statscache.New(rdb, cfg.App.StatsCacheTTL)

	sessionRepo := memory.NewSessionRepository(cfg.Auth.RefreshTokenTTL)
	authMiddleware := serverutils.JwtMiddleware(cfg.Auth.JwtSecret)

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.SummarizeTopic, pubSub)
	summarizerService := service.NewSummarizerService(
		pubSub,
		cfg.App.SummarizeTopic,
		uowFactory,
	)

	authService := service.NewAuthService(
		uowFactory,
		sessionRepo,
		cfg.Auth.JwtSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	userService := service.NewUserService(uowFactory)
	notebookService := service.NewNotebookService(uowFactory, emailService, natsPub, statsCache)
	noteService := service.NewNoteService(uowFactory, publisherService, natsPub, statsCache)

	// 4. Controllers
	return &Container{
		AuthController:     controller.NewAuthController(authService),
		UserController:     controller.NewUserController(userService, authMiddleware),
		NotebookController: controller.NewNotebookController(notebookService, authMiddleware),
		NoteController:     controller.NewNoteController(noteService, authMiddleware),

		SummarizerService: summarizerService,
		Logger:            sysLogger,
	}
}
