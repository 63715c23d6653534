package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"readsprint_backend/internal/config"
	"readsprint_backend/internal/controller"
	"readsprint_backend/internal/repository"
	"readsprint_backend/internal/service"
	"readsprint_backend/pkg/database"
	"readsprint_backend/pkg/logger"
	"readsprint_backend/pkg/monitoring"
	"readsprint_backend/pkg/security"
	"readsprint_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// tracerShutdowner 追踪导出器的关停入口，优雅停机时统一收尾
type tracerShutdowner interface {
	Shutdown(ctx context.Context) error
}

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          tracerShutdowner
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	document *repository.DocumentRepository
	page     *repository.DocumentPageRepository
	analysis *repository.AnalysisRepository
	profile  *repository.ReaderProfileRepository
	progress *repository.ProgressRepository
	sprint   *repository.SprintRepository
	goal     *repository.GoalRepository
}

type services struct {
	auth        *service.AuthService
	storage     service.StorageService
	events      *service.EventService
	readability *service.ReadabilityService
	structure   *service.StructureService
	estimator   *service.TimeEstimatorService
	document    *service.DocumentService
	progress    *service.ProgressService
	sprint      *service.SprintService
	feedback    *service.FeedbackService
	goal        *service.GoalService
	profile     *service.ProfileService
}

type controllers struct {
	auth     *controller.AuthController
	document *controller.DocumentController
	progress *controller.ProgressController
	sprint   *controller.SprintController
	goal     *controller.GoalController
	profile  *controller.ProfileController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) ConfigCallbacks() []func(*config.Config) {
	return a.configCallbacks
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		document: repository.NewDocumentRepository(db),
		page:     repository.NewDocumentPageRepository(db),
		analysis: repository.NewAnalysisRepository(db),
		profile:  repository.NewReaderProfileRepository(db),
		progress: repository.NewProgressRepository(db),
		sprint:   repository.NewSprintRepository(db),
		goal:     repository.NewGoalRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	s.storage = storage

	s.events = service.NewEventService(cfg.Events, logger.Log)
	s.auth = service.NewAuthService(repos.user, cfg)

	s.readability = service.NewReadabilityService()
	s.structure = service.NewStructureService()
	s.estimator = service.NewTimeEstimatorService()

	s.document = service.NewDocumentService(
		repos.document,
		repos.page,
		repos.analysis,
		repos.profile,
		s.readability,
		s.structure,
		s.estimator,
		s.storage,
		s.events,
		rdb,
		logger.Log,
		cfg.Analysis,
	)
	s.progress = service.NewProgressService(repos.progress, repos.document)
	s.sprint = service.NewSprintService(
		repos.sprint,
		repos.document,
		repos.analysis,
		repos.progress,
		repos.profile,
		s.estimator,
		logger.Log,
	)
	s.feedback = service.NewFeedbackService(
		repos.sprint,
		repos.profile,
		repos.progress,
		repos.document,
		s.events,
		logger.Log,
	)
	s.goal = service.NewGoalService(repos.goal, repos.document, repos.progress)
	s.profile = service.NewProfileService(repos.profile, repos.sprint, repos.document, s.goal)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		document: controller.NewDocumentController(s.document),
		progress: controller.NewProgressController(s.progress),
		sprint:   controller.NewSprintController(s.sprint, s.feedback),
		goal:     controller.NewGoalController(s.goal),
		profile:  controller.NewProfileController(s.profile),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("readsprint", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		// 提供器随服务存活，Run 的优雅停机里统一关停
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	a.shutdownBackground(ctx)

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// shutdownBackground 关停后台组件：事件发布连接与追踪导出器
func (a *App) shutdownBackground(ctx context.Context) {
	if a.services != nil && a.services.events != nil {
		a.services.events.Close()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer provider: %v", err)
		}
	}
}
