package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"rentals-api/internal/auth"
	"rentals-api/internal/service"
)

// Deps are the collaborators a Handler serves. Metrics and Gatherer are
// optional; AvatarUploads enables the multipart avatar route.
type Deps struct {
	Users         service.UserService
	Reviews       service.ReviewService
	Accounts      service.AccountService
	Catalog       service.CatalogService
	Tokens        *auth.TokenService
	Metrics       *Metrics
	Gatherer      prometheus.Gatherer
	Logger        *logrus.Logger
	AvatarUploads bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	reviews  service.ReviewService
	accounts service.AccountService
	catalog  service.CatalogService
	tokens   *auth.TokenService
	metrics  *Metrics
	gatherer prometheus.Gatherer
	logger   *logrus.Logger
	avatars  bool
}

func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:    deps.Users,
		reviews:  deps.Reviews,
		accounts: deps.Accounts,
		catalog:  deps.Catalog,
		tokens:   deps.Tokens,
		metrics:  deps.Metrics,
		gatherer: deps.Gatherer,
		logger:   logger,
		avatars:  deps.AvatarUploads,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	configureValidator()

	router.Use(corsMiddleware(), requestLogger(h.logger))
	if h.metrics != nil {
		router.Use(h.metrics.middleware())
	}
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	private := RequireAuth(h.tokens)
	viewer := OptionalAuth(h.tokens)

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/users", h.register)
		api.GET("/users/:id", h.getUser)
		api.PUT("/users", private, h.updateUser)
		if h.avatars {
			api.PUT("/users/avatar", private, h.uploadAvatar)
		}
		api.POST("/users/deactivate", private, h.deactivate)

		api.POST("/auth", h.login)
		api.GET("/auth", private, h.me)

		api.GET("/cities", h.listCities)
		api.GET("/cities/:id", viewer, h.getCity)

		api.POST("/places", private, h.createPlace)
		api.GET("/places/:id", viewer, h.getPlace)

		api.POST("/reservations/for/:placeID", private, h.createReservation)

		api.GET("/reviews/:placeID", h.listReviews)
		api.POST("/reviews/for/:placeID", private, h.createReview)
	}
}

// viewerID is the caller's user id, or "" for anonymous requests.
func viewerID(c *gin.Context) string {
	identity, _ := currentIdentity(c)
	return identity.UserID
}
