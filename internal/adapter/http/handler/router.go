package handler

import (
	"net/http"

	"escrow-wallet-ledger/internal/adapter/http/middleware"
	redisStore "escrow-wallet-ledger/internal/adapter/storage/redis"
	"escrow-wallet-ledger/internal/core/ports"
	"escrow-wallet-ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Ledger         ports.CreditLedger
	Locks          ports.WalletLockManager
	APISecret      string                     // "" = signed-request auth disabled
	NonceStore     ports.NonceStore           // required when APISecret is set
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HTTPMetrics    middleware.HTTPObserver    // nil = request metrics disabled
	MetricsHandler http.Handler               // nil = no /metrics endpoint
	HealthCheckers []ports.HealthChecker
	Retry          service.RetryPolicy // conflict retries for ledger and release writes
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health: deep check of the store and Redis, plus a dependency-free liveness check
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/health/live", Liveness)
	if deps.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsHandler))
	}

	rules := middleware.DefaultRateLimitRules()
	noop := func(c *gin.Context) { c.Next() }

	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return noop
		}
		rule, ok := rules[group]
		if !ok {
			return noop
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	auth := gin.HandlerFunc(noop)
	if deps.APISecret != "" {
		auth = middleware.SignedRequest(deps.APISecret, deps.NonceStore, deps.Logger)
	} else {
		deps.Logger.Warn().Msg("api secret not configured, signed-request auth disabled")
	}

	v1 := r.Group("/api/v1", auth)

	creditHandler := NewCreditHandler(deps.Ledger, deps.Retry)
	credits := v1.Group("/credits")
	{
		credits.POST("/reservations", rl("reservations"), creditHandler.ReserveCredit)
		credits.GET("/reservations/:id", creditHandler.GetEntry)
	}

	buyers := v1.Group("/buyers/:buyer_id")
	{
		buyers.POST("/credits", rl("credits"), creditHandler.Credit)
		buyers.GET("/balance", creditHandler.GetBalance)
	}

	walletHandler := NewWalletHandler(deps.Locks, deps.Retry)
	v1.POST("/wallets/:wallet_id/release", rl("release"), walletHandler.Release)

	return r
}
