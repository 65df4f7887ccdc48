package api

import (
	"context"  // Request context
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"invest_ledger/internal/approval"   // Approval engine
	"invest_ledger/internal/domain"     // Importing domain models
	"invest_ledger/internal/middleware" // Acting admin
	"invest_ledger/internal/reconcile"  // Ledger reconciliation
	"invest_ledger/internal/stats"      // Dashboard rollup
	"invest_ledger/internal/store"      // Data access
	"invest_ledger/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// ResolveRequest carries an admin's decision on a pending request
type ResolveRequest struct {
	Decision domain.Decision `json:"decision" binding:"required"` // approve or reject
}

// AdjustRequest carries a signed balance correction
type AdjustRequest struct {
	Amount decimal.Decimal `json:"amount"`                    // Signed amount
	Reason string          `json:"reason" binding:"required"` // Why the balance changed
}

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID       uuid.UUID     `json:"id"`       // User ID
	Username string        `json:"username"` // Username
	Role     string        `json:"role"`     // User role
	Wallet   domain.Wallet `json:"wallet"`   // Associated wallet
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Users      []UserAdminResponse `json:"users"`       // List of users
	Page       int                 `json:"page"`        // Current page
	PageSize   int                 `json:"page_size"`   // Page size
	Total      int64               `json:"total"`       // Total number of users
	TotalPages int                 `json:"total_pages"` // Total pages
	Cached     bool                `json:"cached"`      // Served from Redis
}

// ListUsersHandler returns all users with their wallet info
func ListUsersHandler(st *store.Store, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize, window := pageParams(c)
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached UserPage
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		r := st.Read(ctx)
		total, err := r.Users.Count()
		if err != nil {
			respondError(c, err)
			return
		}
		users, err := r.Users.List(window)
		if err != nil {
			respondError(c, err)
			return
		}
		resp := UserPage{
			Users:      make([]UserAdminResponse, len(users)),
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize),
		}
		// Map users to response format
		for i, u := range users {
			resp.Users[i] = UserAdminResponse{ID: u.ID, Username: u.Username, Role: u.Role, Wallet: u.Wallet}
		}
		if err := cache.Set(ctx, cacheKey, resp); err != nil {
			logrus.WithError(err).Warn("Failed to cache user listing")
		}
		c.JSON(http.StatusOK, resp)
	}
}

// statusFilter reads ?status=, defaulting to pending. "all" lists every status.
func statusFilter(c *gin.Context) (domain.RequestStatus, bool) {
	switch s := domain.RequestStatus(c.DefaultQuery("status", string(domain.StatusPending))); s {
	case "all":
		return "", true
	case domain.StatusPending, domain.StatusApproved, domain.StatusCompleted, domain.StatusRejected:
		return s, true
	default:
		return "", false
	}
}

// ListDepositsHandler lists deposit requests, pending ones by default
func ListDepositsHandler(engine *approval.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := statusFilter(c)
		if !ok {
			badRequest(c, "Invalid status filter")
			return
		}
		page, pageSize, window := pageParams(c)
		deps, err := engine.ListDeposits(c.Request.Context(), status, window)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deposits": deps, "page": page, "page_size": pageSize})
	}
}

// ListWithdrawalsHandler lists withdrawal requests, pending ones by default
func ListWithdrawalsHandler(engine *approval.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := statusFilter(c)
		if !ok {
			badRequest(c, "Invalid status filter")
			return
		}
		page, pageSize, window := pageParams(c)
		wds, err := engine.ListWithdrawals(c.Request.Context(), status, window)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"withdrawals": wds, "page": page, "page_size": pageSize})
	}
}

// ResolveDepositHandler approves or rejects a pending deposit
func ResolveDepositHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolve(c, cache, engine.ResolveDeposit)
	}
}

// ResolveWithdrawalHandler completes or rejects a pending withdrawal
func ResolveWithdrawalHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		resolve(c, cache, engine.ResolveWithdrawal)
	}
}

type resolveFunc func(ctx context.Context, id uuid.UUID, decision domain.Decision, adminID uuid.UUID) (*approval.Result, error)

// resolve runs one resolve command for the :id path parameter
func resolve(c *gin.Context, cache *utils.Cache, fn resolveFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid request id")
		return
	}
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	res, err := fn(c.Request.Context(), id, req.Decision, middleware.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	invalidate(c, cache, res.UserID)
	c.JSON(http.StatusOK, gin.H{"result": res})
}

// userParam parses the :user_id path parameter
func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		badRequest(c, "Invalid user id")
		return uuid.Nil, false
	}
	return id, true
}

// AdjustBalanceHandler applies a signed correction to a user's wallet
func AdjustBalanceHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := userParam(c)
		if !ok {
			return
		}
		var req AdjustRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		res, err := engine.AdjustBalance(c.Request.Context(), userID, req.Amount, req.Reason, middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, userID)
		c.JSON(http.StatusOK, gin.H{"result": res})
	}
}

// UserWalletHandler returns any user's wallet
func UserWalletHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := userParam(c); ok {
			walletResponse(c, engine, cache, userID)
		}
	}
}

// UserTransactionsHandler returns any user's ledger, newest first
func UserTransactionsHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := userParam(c); ok {
			transactionsResponse(c, engine, cache, userID)
		}
	}
}

// AuditLogHandler pages through the admin audit log
func AuditLogHandler(engine *approval.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize, window := pageParams(c)
		entries, total, err := engine.ListAuditLog(c.Request.Context(), window)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"entries":     entries,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// StatsHandler returns the platform rollup
func StatsHandler(agg *stats.Aggregator, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached stats.PlatformStats
		if found, err := cache.Get(ctx, utils.StatsKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"stats": cached, "cached": true})
			return
		}
		s, err := agg.ComputeStats(ctx)
		if err != nil {
			respondError(c, err)
			return
		}
		if err := cache.Set(ctx, utils.StatsKey, s); err != nil {
			logrus.WithError(err).Warn("Failed to cache stats")
		}
		c.JSON(http.StatusOK, gin.H{"stats": s, "cached": false})
	}
}

// ReconcileHandler runs a reconciliation pass on demand
func ReconcileHandler(checker *reconcile.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := checker.Check(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"report": report})
	}
}
