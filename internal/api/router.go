package api

import (
	"invest_ledger/internal/approval"
	"invest_ledger/internal/metrics"
	"invest_ledger/internal/middleware"
	"invest_ledger/internal/reconcile"
	"invest_ledger/internal/requests"
	"invest_ledger/internal/stats"
	"invest_ledger/internal/store"
	"invest_ledger/internal/utils"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the HTTP surface is built from
type Deps struct {
	Store      *store.Store
	Engine     *approval.Engine
	Requests   *requests.Service
	Stats      *stats.Aggregator
	Reconciler *reconcile.Checker
	Cache      *utils.Cache
	JWTSecret  string
}

// NewRouter wires every route onto a fresh gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())
	if gin.Mode() != gin.TestMode {
		r.Use(gin.Logger())
	}

	r.GET("/metrics", metrics.Handler())

	// Public routes
	r.POST("/register", RegisterHandler(d.Store))
	r.POST("/login", LoginHandler(d.Store, d.JWTSecret))

	// Authenticated user routes
	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware(d.JWTSecret))
	{
		auth.GET("/wallet", GetWalletHandler(d.Engine, d.Cache))
		auth.GET("/wallet/transactions", GetTransactionHistoryHandler(d.Engine, d.Cache))
		auth.POST("/deposits", SubmitDepositHandler(d.Requests))
		auth.GET("/deposits", ListMyDepositsHandler(d.Requests))
		auth.POST("/withdrawals", SubmitWithdrawalHandler(d.Requests, d.Cache))
		auth.GET("/withdrawals", ListMyWithdrawalsHandler(d.Requests))
	}

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(d.JWTSecret), middleware.AdminOnlyMiddleware(d.Store.DB()))
	{
		admin.GET("/users", ListUsersHandler(d.Store, d.Cache))
		admin.GET("/deposits", ListDepositsHandler(d.Engine))
		admin.POST("/deposits/:id/resolve", ResolveDepositHandler(d.Engine, d.Cache))
		admin.GET("/withdrawals", ListWithdrawalsHandler(d.Engine))
		admin.POST("/withdrawals/:id/resolve", ResolveWithdrawalHandler(d.Engine, d.Cache))
		admin.POST("/wallets/:user_id/adjust", AdjustBalanceHandler(d.Engine, d.Cache))
		admin.GET("/wallets/:user_id", UserWalletHandler(d.Engine, d.Cache))
		admin.GET("/wallets/:user_id/transactions", UserTransactionsHandler(d.Engine, d.Cache))
		admin.GET("/audit-log", AuditLogHandler(d.Engine))
		admin.GET("/stats", StatsHandler(d.Stats, d.Cache))
		admin.GET("/reconcile", ReconcileHandler(d.Reconciler))
	}
	return r
}
