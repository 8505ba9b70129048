package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/foodlink/foodlink-backend/internal/cart"
	"github.com/foodlink/foodlink-backend/internal/handler"
	"github.com/foodlink/foodlink-backend/internal/logger"
	appmw "github.com/foodlink/foodlink-backend/internal/middleware"
	"github.com/foodlink/foodlink-backend/internal/reqctx"
	"github.com/foodlink/foodlink-backend/internal/repository"
	"github.com/foodlink/foodlink-backend/internal/service"
	"github.com/foodlink/foodlink-backend/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type Server struct {
	e          *echo.Echo
	userRepo   repository.UserRepository
	itemRepo   repository.FoodItemRepository
	pickupRepo repository.PickupRequestRepository
	notifRepo  repository.NotificationRepository
	sha        string
	build      string
}

func New(db *gorm.DB, uploader storage.Uploader, log logger.Logger, adminToken, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ctx := reqctx.WithRID(c.Request().Context(), rid)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			if strings.HasSuffix(u.Hostname(), "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewFoodItemRepository(db)
	pickupRepo := repository.NewPickupRequestRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	userSvc := service.NewUserService(userRepo)
	itemSvc := service.NewFoodItemService(itemRepo)
	notifSvc := service.NewNotificationService(notifRepo)
	pickupSvc := service.NewPickupService(pickupRepo, itemRepo, userRepo, notifSvc, log)

	carts := cart.NewStore()

	userHandler := handler.NewUserHandler(userSvc)
	itemHandler := handler.NewFoodItemHandler(itemSvc, userSvc, uploader, adminToken)
	cartHandler := handler.NewCartHandler(carts, itemSvc, userSvc, pickupSvc)
	pickupHandler := handler.NewPickupHandler(pickupSvc, userSvc)
	notifHandler := handler.NewNotificationHandler(notifSvc, userSvc)

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		log.Warn("firebase auth unavailable, protected routes disabled", logger.Error(err))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})

	api := e.Group("/api")
	api.GET("/items", itemHandler.List)
	api.GET("/items/:id", itemHandler.Get)
	api.GET("/users/:id/public", userHandler.GetPublic)
	api.GET("/users/:id/slots", userHandler.GetSlots)

	if authMw != nil {
		auth := api.Group("", authMw.RequireAuth)
		auth.POST("/items", itemHandler.Create)
		auth.PUT("/items/:id", itemHandler.Update)
		auth.DELETE("/items/:id", itemHandler.Delete)
		auth.POST("/items/:id/photos", itemHandler.UploadPhoto)
		auth.POST("/me/profile", userHandler.UpsertProfile)
		auth.GET("/me", userHandler.Me)
		auth.PUT("/me/availability", userHandler.UpdateAvailability)
		auth.GET("/me/cart", cartHandler.Get)
		auth.POST("/me/cart/items", cartHandler.AddItem)
		auth.DELETE("/me/cart/items/:itemId", cartHandler.RemoveItem)
		auth.DELETE("/me/cart", cartHandler.Clear)
		auth.POST("/me/cart/checkout", cartHandler.Checkout)
		auth.GET("/me/pending-deliveries", pickupHandler.PendingDeliveries)
		auth.GET("/me/deliveries", pickupHandler.DeliveryHistory)
		auth.PATCH("/deliveries/:deliveryNumber/status", pickupHandler.UpdateStatus)
		auth.GET("/me/notifications", notifHandler.List)
		auth.POST("/me/notifications/read", notifHandler.MarkAllRead)
		auth.DELETE("/admin/items/expired", itemHandler.CleanupExpired)
	}

	return &Server{
		e:          e,
		userRepo:   userRepo,
		itemRepo:   itemRepo,
		pickupRepo: pickupRepo,
		notifRepo:  notifRepo,
		sha:        sha,
		build:      buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// SetDB injects the connection into repositories created before the
// database came up; the server starts serving /healthz while the DB dials.
func (s *Server) SetDB(db *gorm.DB) {
	s.userRepo.SetDB(db)
	s.itemRepo.SetDB(db)
	s.pickupRepo.SetDB(db)
	s.notifRepo.SetDB(db)
}
