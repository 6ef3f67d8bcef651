package server

import (
	"context"
	"errors"
	"time"

	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/config"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/db"
	authdomain "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/domain"
	authhandler "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/handler"
	authrepo "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/repository"
	authservice "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/auth/service"
	extractionhandler "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/extraction/handler"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/httpx"
	ledgerhandler "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/handler"
	ledgerrepo "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/repository"
	ledgerservice "github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/ledger/service"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/internal/middleware"
	"github.com/Mohamad548/smart-accounting-receipt-manager-backend/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

const healthTimeout = 3 * time.Second

// Server owns the HTTP app and the background work that lives as long as it.
type Server struct {
	App     *fiber.App
	Users   *authservice.UserService
	Sweeper *authservice.TokenSweeper

	db  db.DB
	log *zap.Logger
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Backend  string `json:"backend"`
}

// New wires repositories, services and handlers on top of handle.
func New(cfg *config.Config, handle db.DB, denylist authdomain.AccessTokenDenylist, extractor extractionhandler.Extractor, log *zap.Logger) (*Server, error) {
	users := authrepo.NewUserRepository(handle)
	tokens := authrepo.NewRefreshTokenRepository(handle)
	creditors := ledgerrepo.NewCreditorRepository(handle)
	customers := ledgerrepo.NewCustomerRepository(handle)
	receipts := ledgerrepo.NewReceiptRepository(handle)

	tokenService := authservice.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := authservice.NewUserService(users, tokens, tokenService, denylist, cfg.MaxActiveRefreshTokens, log)

	sweeper, err := authservice.NewTokenSweeper(tokens, cfg.TokenCleanupSchedule, log)
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ErrorHandler: errorHandler(log),
	})
	app.Use(middleware.Logger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + constant.HeaderRequestID,
	}))

	s := &Server{App: app, Users: userService, Sweeper: sweeper, db: handle, log: log}
	app.Get("/api/health", s.health)

	auth := authhandler.NewAuthHandler(userService, tokenService, denylist, cfg.IsProduction(), log)
	authhandler.RegisterRoutes(app, auth)

	ledgerhandler.RegisterRoutes(app, auth.RequireAuth,
		ledgerhandler.NewCreditorHandler(ledgerservice.NewCreditorService(creditors), log),
		ledgerhandler.NewCustomerHandler(ledgerservice.NewCustomerService(customers), log),
		ledgerhandler.NewReceiptHandler(ledgerservice.NewReceiptService(receipts, customers, creditors), log),
	)

	extractionhandler.RegisterRoutes(app, auth.RequireAuth, extractionhandler.NewExtractionHandler(extractor, creditors, log))

	return s, nil
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.log.Error("health check: database unreachable", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
			Status:   "error",
			Database: "unreachable",
			Backend:  s.db.Backend(),
		})
	}
	return c.JSON(HealthResponse{Status: "ok", Database: "connected", Backend: s.db.Backend()})
}

// Start begins the token sweeps and serves HTTP until the listener fails or
// Shutdown is called.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.Sweeper.Start(ctx)
	return s.App.Listen(addr)
}

// Shutdown drains HTTP, waits for a running sweep and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.App.ShutdownWithContext(ctx)

	select {
	case <-s.Sweeper.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("token sweep still running at shutdown")
	}

	s.db.Close()
	return err
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return httpx.ErrorJSON(c, fe.Code, fe.Message)
		}
		log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		return httpx.ErrorJSON(c, fiber.StatusInternalServerError, constant.MsgInternalError)
	}
}
