package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modamarket/backend/api/controllers"
	"github.com/modamarket/backend/api/middleware"
	authsvc "github.com/modamarket/backend/internal/auth"
	boardsvc "github.com/modamarket/backend/internal/board"
	cartsvc "github.com/modamarket/backend/internal/cart"
	"github.com/modamarket/backend/internal/checkout"
	ordersvc "github.com/modamarket/backend/internal/orders"
	preloginsvc "github.com/modamarket/backend/internal/prelogin"
	productsvc "github.com/modamarket/backend/internal/products"
	registersvc "github.com/modamarket/backend/internal/register"
	"github.com/modamarket/backend/internal/stock"
	"github.com/modamarket/backend/pkg/auth/session"
	"github.com/modamarket/backend/pkg/config"
	"github.com/modamarket/backend/pkg/db"
	"github.com/modamarket/backend/pkg/logger"
	"github.com/modamarket/backend/pkg/redis"
)

// Services bundles the wired domain services the router exposes.
type Services struct {
	Auth     authsvc.Service
	Register registersvc.Service
	Prelogin preloginsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Stock    *stock.Reconciler
	Checkout *checkout.Orchestrator
	Orders   ordersvc.Service
	Board    boardsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	services Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbClient, redisClient))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public storefront endpoints.
	r.Group(func(r chi.Router) {
		r.Route("/api", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/check-email", controllers.CheckEmail(services.Register, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/send-verification", controllers.SendVerification(services.Register, logg))
			r.Post("/verify-email", controllers.VerifyEmailCode(services.Register, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.Register(services.Register, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.Login(services.Auth, logg))
		})

		r.Post("/prelogin/store", controllers.PreloginStore(services.Prelogin, logg))
		r.Get("/board/faq", controllers.FAQList(services.Board, logg))
	})

	// Endpoints behind a shopper session.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Post("/api/logout", controllers.Logout(services.Auth, logg))
		r.Post("/api/refresh", controllers.Refresh(services.Auth, logg))
		r.Post("/prelogin/resume", controllers.PreloginResume(services.Prelogin, services.Cart, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(services.Cart, logg))
			r.Post("/add", controllers.CartAdd(services.Cart, logg))
			r.Get("/option/size", controllers.CartOptionSizes(services.Products, logg))
			r.Post("/update", controllers.CartUpdateOption(services.Cart, logg))
			r.Post("/stock", controllers.CartStockCheck(services.Stock, logg))
			r.Delete("/delete", controllers.CartDelete(services.Cart, logg))
			r.Get("/summary", controllers.CartSummary(services.Cart, logg))
		})

		r.Route("/order", func(r chi.Router) {
			r.Post("/prepare", controllers.OrderPrepare(services.Cart, services.Checkout, logg))
			r.Get("/{orderId}", controllers.OrderDetail(services.Orders, logg))
		})
	})

	return r
}
