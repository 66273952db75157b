package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mokolo-app/mokolo-backend/api/controllers"
	"github.com/mokolo-app/mokolo-backend/api/middleware"
	"github.com/mokolo-app/mokolo-backend/internal/analytics"
	"github.com/mokolo-app/mokolo-backend/internal/auth"
	"github.com/mokolo-app/mokolo-backend/internal/listings"
	"github.com/mokolo-app/mokolo-backend/internal/media"
	"github.com/mokolo-app/mokolo-backend/internal/notifications"
	"github.com/mokolo-app/mokolo-backend/internal/payments"
	"github.com/mokolo-app/mokolo-backend/internal/plans"
	"github.com/mokolo-app/mokolo-backend/internal/reviews"
	subscriptionsvc "github.com/mokolo-app/mokolo-backend/internal/subscriptions"
	"github.com/mokolo-app/mokolo-backend/internal/support"
	"github.com/mokolo-app/mokolo-backend/internal/users"
	"github.com/mokolo-app/mokolo-backend/pkg/auth/session"
	"github.com/mokolo-app/mokolo-backend/pkg/config"
	"github.com/mokolo-app/mokolo-backend/pkg/enums"
	"github.com/mokolo-app/mokolo-backend/pkg/logger"
	pkgredis "github.com/mokolo-app/mokolo-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *pkgredis.Client,
	storageClient controllers.Pinger,
	sessionChecker session.AccessSessionChecker,
	authService auth.Service,
	usersService users.Service,
	plansService plans.Service,
	subscriptionsService subscriptionsvc.Service,
	listingsService listings.Service,
	mediaService media.Service,
	paymentsService payments.Service,
	notificationsService notifications.Service,
	reviewsService reviews.Service,
	supportService support.Service,
	analyticsService analytics.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient, storageClient))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(authService, logg))
		r.Post("/login", controllers.Login(authService, logg))
		r.Post("/refresh", controllers.Refresh(authService, logg))
		r.With(middleware.Auth(cfg.JWT, sessionChecker, logg)).Post("/logout", controllers.Logout(authService, logg))
	})

	// Browsing is anonymous. Only approved, available listings come back here.
	r.Route("/api/v1/plans", func(r chi.Router) {
		r.Get("/", controllers.ListPlans(plansService, logg))
		r.Get("/{planID}", controllers.GetPlan(plansService, logg))
	})

	r.Route("/api/v1/rentals", func(r chi.Router) {
		r.Get("/", controllers.ListRentals(listingsService, logg))
		r.Get("/{listingID}", controllers.GetRental(listingsService, logg))
		r.Get("/{listingID}/reviews", controllers.ListListingReviews(reviewsService, enums.ListingDomainRental, logg))
		r.Post("/{listingID}/view", controllers.RecordListingView(listingsService, enums.ListingDomainRental, logg))
		r.Post("/{listingID}/whatsapp-click", controllers.RecordWhatsAppClick(listingsService, enums.ListingDomainRental, logg))
	})

	r.Route("/api/v1/marketplace", func(r chi.Router) {
		r.Get("/", controllers.ListMarketplaceItems(listingsService, logg))
		r.Get("/{listingID}", controllers.GetMarketplaceItem(listingsService, logg))
		r.Get("/{listingID}/reviews", controllers.ListListingReviews(reviewsService, enums.ListingDomainMarketplace, logg))
		r.Post("/{listingID}/view", controllers.RecordListingView(listingsService, enums.ListingDomainMarketplace, logg))
		r.Post("/{listingID}/whatsapp-click", controllers.RecordWhatsAppClick(listingsService, enums.ListingDomainMarketplace, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(usersService, logg))
			r.Put("/", controllers.UpdateProfile(usersService, logg))
			r.Post("/deactivate", controllers.DeactivateAccount(usersService, logg))
			r.Get("/rentals", controllers.ListMyRentals(listingsService, logg))
			r.Get("/marketplace", controllers.ListMyMarketplaceItems(listingsService, logg))
		})

		r.Route("/rentals", func(r chi.Router) {
			r.Post("/", controllers.CreateRental(listingsService, logg))
			r.Put("/{listingID}", controllers.UpdateRental(listingsService, logg))
			r.Post("/{listingID}/unavailable", controllers.MarkListingUnavailable(listingsService, enums.ListingDomainRental, logg))
			r.Delete("/{listingID}", controllers.DeleteListing(listingsService, enums.ListingDomainRental, logg))
		})

		r.Route("/marketplace", func(r chi.Router) {
			r.Post("/", controllers.CreateMarketplaceItem(listingsService, logg))
			r.Put("/{listingID}", controllers.UpdateMarketplaceItem(listingsService, logg))
			r.Post("/{listingID}/unavailable", controllers.MarkListingUnavailable(listingsService, enums.ListingDomainMarketplace, logg))
			r.Delete("/{listingID}", controllers.DeleteListing(listingsService, enums.ListingDomainMarketplace, logg))
		})

		r.Post("/media/uploads", controllers.GrantUploads(mediaService, logg))
		r.Delete("/media/uploads", controllers.DiscardUpload(mediaService, logg))
		r.Post("/media/avatar", controllers.GrantAvatarUpload(mediaService, logg))

		r.Route("/subscriptions", func(r chi.Router) {
			r.Get("/access", controllers.GetAccess(subscriptionsService, logg))
			r.Post("/cancel", controllers.CancelSubscription(subscriptionsService, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", controllers.ProcessPayment(paymentsService, logg))
			r.Get("/", controllers.ListPaymentTransactions(paymentsService, logg))
			r.Get("/{transactionID}", controllers.GetPaymentTransaction(paymentsService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/unread-count", controllers.UnreadNotificationCount(notificationsService, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(notificationsService, logg))
			r.Post("/read-all", controllers.MarkAllNotificationsRead(notificationsService, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", controllers.CreateReview(reviewsService, logg))
			r.Delete("/{reviewID}", controllers.DeleteReview(reviewsService, logg))
		})

		r.Route("/support", func(r chi.Router) {
			r.Post("/", controllers.SubmitSupportMessage(supportService, logg))
			r.Get("/", controllers.ListSupportMessages(supportService, logg))
			r.Post("/{messageID}/resolve", controllers.ResolveSupportMessage(supportService, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", controllers.OwnerDashboard(analyticsService, logg))
			r.Get("/report", controllers.OwnerAnalyticsReport(analyticsService, logg))
		})
	})

	return r
}
