package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dineline-app/dineline-backend/api/controllers"
	"github.com/dineline-app/dineline-backend/api/middleware"
	"github.com/dineline-app/dineline-backend/internal/menu"
	"github.com/dineline-app/dineline-backend/internal/notifications"
	"github.com/dineline-app/dineline-backend/internal/orders"
	"github.com/dineline-app/dineline-backend/internal/restaurants"
	"github.com/dineline-app/dineline-backend/internal/reviews"
	"github.com/dineline-app/dineline-backend/pkg/config"
	"github.com/dineline-app/dineline-backend/pkg/db"
	"github.com/dineline-app/dineline-backend/pkg/logger"
	"github.com/dineline-app/dineline-backend/pkg/metrics"
	"github.com/dineline-app/dineline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	restaurantsService restaurants.Service,
	menuService menu.Service,
	reviewsService reviews.Service,
	ordersService orders.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public browsing surface: no token required.
		r.Get("/restaurants", controllers.ListRestaurants(restaurantsService, logg))
		r.Get("/restaurants/{restaurantId}", controllers.GetRestaurant(restaurantsService, logg))
		r.Get("/restaurants/{restaurantId}/menu", controllers.RestaurantMenu(menuService, logg))
		r.Get("/restaurants/{restaurantId}/reviews", controllers.ListRestaurantReviews(reviewsService, logg))

		// Guarded routes are registered flat so the idempotency middleware
		// sees the fully composed route pattern, not a partially routed
		// subtree.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.Idempotency(redisClient, logg, cfg.Orders.IdempotencyTTL))

			r.Post("/restaurants", controllers.CreateRestaurant(restaurantsService, logg))
			r.Put("/restaurants/{restaurantId}", controllers.UpdateRestaurant(restaurantsService, logg))
			r.Delete("/restaurants/{restaurantId}", controllers.DeleteRestaurant(restaurantsService, logg))
			r.Post("/restaurants/{restaurantId}/menu-items", controllers.CreateMenuItem(menuService, logg))

			r.Get("/owner/restaurants", controllers.ListOwnerRestaurants(restaurantsService, logg))
			r.Get("/owner/restaurants/{restaurantId}/orders", controllers.ListRestaurantOrders(ordersService, logg))

			r.Get("/menu-items/{menuItemId}", controllers.GetMenuItem(menuService, logg))
			r.Patch("/menu-items/{menuItemId}/availability", controllers.UpdateMenuItemAvailability(menuService, logg))
			r.Get("/menu-items/{menuItemId}/options", controllers.ListMenuItemOptions(menuService, logg))
			r.Post("/menu-items/{menuItemId}/options", controllers.CreateMenuItemOption(menuService, logg))
			r.Put("/options/{optionId}", controllers.UpdateMenuItemOption(menuService, logg))
			r.Delete("/options/{optionId}", controllers.DeleteMenuItemOption(menuService, logg))

			r.Post("/reviews", controllers.CreateReview(reviewsService, logg))
			r.Get("/users/me/reviews", controllers.ListMyReviews(reviewsService, logg))
			r.Delete("/reviews/{reviewId}", controllers.DeleteReview(reviewsService, logg))

			r.Get("/orders", controllers.ListOrders(ordersService, logg))
			r.Post("/orders", controllers.CreateOrder(ordersService, logg))
			r.Get("/orders/{orderId}", controllers.GetOrder(ordersService, logg))
			r.Get("/orders/{orderId}/track", controllers.TrackOrder(ordersService, logg))
			r.Post("/orders/{orderId}/cancel", controllers.CancelOrder(ordersService, logg))
			r.Post("/orders/{orderId}/status", controllers.AdvanceOrderStatus(ordersService, logg))
			r.Post("/orders/{orderId}/payment-status", controllers.SetOrderPaymentStatus(ordersService, logg))

			r.Get("/notifications", controllers.ListNotifications(notificationsService, logg))
			r.Post("/notifications/{notificationId}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/notifications/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(redisClient, logg, cfg.Orders.IdempotencyTTL))
			r.Get("/reviews/pending", controllers.ListPendingReviews(reviewsService, logg))
			r.Post("/reviews/{reviewId}/moderate", controllers.ModerateReview(reviewsService, logg))
		})
	})

	return r
}
