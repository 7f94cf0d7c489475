// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"circustix/internal/checkout"
	"circustix/internal/layout"
	"circustix/internal/notifications"
	"circustix/internal/pricing"
	"circustix/internal/reservations"
	"circustix/internal/shared/config"
	"circustix/internal/shared/database"
	"circustix/internal/shows"
	"circustix/internal/tickets"
	"circustix/pkg/cache"
	"circustix/pkg/logger"
	"circustix/pkg/ratelimit"

	_ "circustix/docs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const serviceName = "circustix"

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	log    *logger.Logger

	catalog      *pricing.Catalog
	shows        shows.Provider
	layouts      *layout.Cache
	reservations reservations.Service
	tickets      tickets.Service
	dispatcher   *notifications.Dispatcher
	sessions     *checkout.Sessions
	sweeper      *reservations.Sweeper
	rateLimiter  *ratelimit.RateLimiter
}

// NewRouter builds every component of the box office. Missing Redis or
// PostgreSQL connections switch the affected stores to their in-process
// or fallback counterparts.
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger) *Router {
	if log == nil {
		log = logger.GetDefault()
	}
	r := &Router{config: cfg, db: db, log: log}

	r.catalog = pricing.NewCatalog(pricing.Rules{
		GroupDiscountThreshold: cfg.Pricing.GroupDiscountThreshold,
		GroupDiscountRate:      cfg.Pricing.GroupDiscountRate,
		ServiceFeeRate:         cfg.Pricing.ServiceFeeRate,
	})

	rdb := db.GetRedis()
	var cacheService cache.Service
	if rdb != nil {
		cacheService = cache.NewService(rdb)
	}

	r.shows = shows.NewProvider(shows.Fixtures(), cacheService)
	r.layouts = layout.NewCache(layout.NewGenerator(layout.DefaultOptions()), layout.DefaultBlueprints(), r.shows)

	var holds reservations.HoldStore
	var fallback reservations.OrderStore
	if rdb != nil {
		holds = reservations.NewRedisHoldStore(rdb, nil)
		fallback = reservations.NewCacheOrderStore(cacheService, cfg.Reservation.FallbackOrderTTL)
	} else {
		holds = reservations.NewMemoryHoldStore(nil)
		fallback = reservations.NewMemoryOrderStore()
	}

	var primary reservations.OrderStore
	if pg := db.GetPostgreSQL(); pg != nil {
		primary = reservations.NewPostgresOrderStore(pg)
	}

	resSvc := reservations.NewService(holds, primary, fallback, r.catalog, cfg.Reservation,
		reservations.WithLayouts(r.layouts),
		reservations.WithShowResolver(r.shows),
		reservations.WithLogger(log),
	)

	qr := tickets.NewQRGenerator(cfg.Tickets.QRSize)
	signer := tickets.NewSigner(cfg.Tickets.SigningSecret)
	renderer := tickets.NewPDFRenderer(cfg.Email.FromName, cfg.Email.FromEmail)

	// The dispatcher only renders PDFs, so it can sit on the plain service
	r.dispatcher = r.newDispatcher(tickets.NewService(resSvc, qr, signer, renderer, log))

	// Status changes made by the gate or the API publish events
	r.reservations = notifications.WithStatusEvents(resSvc, r.dispatcher)
	r.tickets = tickets.NewService(r.reservations, qr, signer, renderer, log)

	r.sessions = checkout.NewSessions(r.layouts, r.reservations, checkout.Dependencies{
		Reserver: r.reservations,
		Tickets:  r.tickets,
		Notifier: r.dispatcher,
		Catalog:  r.catalog,
		Config:   cfg.Checkout,
		Logger:   log,
	})

	if cfg.Reservation.HoldSweepInterval > 0 {
		sweeper, err := reservations.NewSweeper(r.reservations, cfg.Reservation.HoldSweepInterval, log)
		if err != nil {
			log.Warn("Hold sweeper disabled", "error", err)
		} else {
			r.sweeper = sweeper
		}
	}

	// A nil *redis.Client must not become a non-nil Scripter
	var scripter redis.Scripter
	if rdb != nil {
		scripter = rdb
	}
	r.rateLimiter = ratelimit.NewRateLimiter(scripter, cfg.RateLimit)

	return r
}

func (r *Router) newDispatcher(ticketSvc tickets.Service) *notifications.Dispatcher {
	opts := []notifications.DispatcherOption{}

	if r.config.Kafka.Enabled {
		publisher, err := notifications.NewKafkaPublisher(notifications.KafkaProducerConfigFrom(r.config.Kafka), r.log)
		if err != nil {
			r.log.Warn("Kafka unavailable, order events will not be published", "error", err)
		} else {
			opts = append(opts, notifications.WithPublisher(publisher))
		}
	}

	var mailer notifications.Mailer = notifications.NewLogMailer(r.log)
	if r.config.Email.Enabled {
		smtpMailer, err := notifications.NewSMTPMailer(r.config.Email)
		if err != nil {
			r.log.Warn("SMTP unavailable, confirmations will only be logged", "error", err)
		} else {
			mailer = smtpMailer
		}
	}
	opts = append(opts, notifications.WithMailer(mailer, ticketSvc))

	return notifications.NewDispatcher(r.log, opts...)
}

// RateLimiter returns the limiter shared by the global middleware
func (r *Router) RateLimiter() *ratelimit.RateLimiter {
	return r.rateLimiter
}

// Start launches the background jobs
func (r *Router) Start() error {
	if r.sweeper != nil {
		r.sweeper.Start()
	}
	return r.sessions.StartPruning(time.Minute)
}

// Close stops background jobs and drains pending notifications
func (r *Router) Close() error {
	if r.sweeper != nil {
		if err := r.sweeper.Stop(); err != nil {
			r.log.Warn("Failed to stop hold sweeper", "error", err)
		}
	}
	if err := r.sessions.Stop(); err != nil {
		r.log.Warn("Failed to stop session pruning", "error", err)
	}
	return r.dispatcher.Close()
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		shows.SetupShowRoutes(api, shows.NewController(r.shows))
		layout.SetupLayoutRoutes(api, layout.NewController(r.layouts, r.catalog))
		reservations.SetupReservationRoutes(api, reservations.NewController(r.reservations))
		tickets.SetupTicketRoutes(api, tickets.NewController(r.tickets))
		checkout.SetupCheckoutRoutes(api, checkout.NewController(checkout.NewService(r.sessions)))
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   serviceName,
			"stores": gin.H{
				"orders_durable": r.db.GetPostgreSQL() != nil,
				"holds_shared":   r.db.GetRedis() != nil,
			},
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "operational",
			"api_version":     r.config.APIVersion,
			"timestamp":       time.Now(),
			"active_sessions": r.sessions.Len(),
			"cached_layouts":  r.layouts.Len(),
		})
	})
}
