package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-retail-ws/internal/backend"
	"go-retail-ws/internal/backend/memory"
	"go-retail-ws/internal/handler"
	"go-retail-ws/internal/middleware"
	"go-retail-ws/internal/repository"
	"go-retail-ws/internal/service"
	"go-retail-ws/internal/session"
	"go-retail-ws/internal/ws"
	"go-retail-ws/pkg/config"
	"go-retail-ws/pkg/database"
	"go-retail-ws/pkg/logger"
)

func main() {
	// 1. Load Env
	envErr := godotenv.Load()

	log, err := logger.New(logger.ConfigFromEnv())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if envErr != nil {
		log.Warn(".env file not found, relying on system env")
	}
	cfg := config.FromEnv()

	// 2. Setup Backend
	b, err := openBackend(cfg, log)
	if err != nil {
		log.Fatal("backend setup failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub(log.Named("ws"))
	go wsHub.Run(ctx)

	// 4. Sessions and per-session workspaces
	sessions := session.NewManager(session.WithTTL(cfg.SessionTTL))
	resolver := service.NewPermissionResolver(b, log.Named("permissions"))
	workspaces := service.NewWorkspaces(func(token string) *service.StoreService {
		svc := service.NewStoreService(b, resolver, log.Named("store"))
		svc.Subscribe(func(ev service.Event) { wsHub.Publish(token, ev) })
		return svc
	})
	workspaces.OnClose(wsHub.Disconnect)

	go sessions.RunSweeper(ctx, cfg.SessionSweepInterval, func(removed int) {
		pruned := workspaces.Prune(func(token string) bool {
			_, err := sessions.Validate(token)
			return err == nil
		})
		log.Info("expired sessions swept", zap.Int("sessions", removed), zap.Int("workspaces", pruned))
	})

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Retail Store Manager v1.0",
		Immutable: true,
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	// 6. Routes
	handler.SetupRoutes(app, handler.Deps{
		Auth:       service.NewAuthService(b, sessions, log.Named("auth")),
		Users:      service.NewUserService(b, log.Named("users")),
		Sessions:   sessions,
		Workspaces: workspaces,
	})

	// WebSocket Route, bound to the caller's session
	app.Use("/ws", middleware.RequireSocketAuth(sessions), func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		token, _ := c.Locals("session_id").(string)
		if !wsHub.Join(token, c) {
			return
		}
		defer wsHub.Leave(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 7. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic("listen failed", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("port", cfg.Port), zap.String("backend", cfg.Backend))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	cancel()
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

func openBackend(cfg config.Config, log *zap.Logger) (backend.Backend, error) {
	if cfg.Backend == config.BackendMemory {
		log.Warn("using in-memory backend, data is lost on exit")
		return memory.New(), nil
	}

	db, err := database.ConnectDB(database.ConfigFromEnv())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	log.Info("database connected")
	return repository.NewBackend(db), nil
}
