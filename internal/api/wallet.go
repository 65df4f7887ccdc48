package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"invest_ledger/internal/approval" // Ledger reads
	"invest_ledger/internal/domain"   // Importing domain models
	"invest_ledger/internal/middleware"
	"invest_ledger/internal/requests" // Request submission
	"invest_ledger/internal/utils"    // Utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"
	"github.com/shopspring/decimal" // Exact money amounts
	"github.com/sirupsen/logrus"    // Logging library
)

// DepositRequest announces a payment the user already sent
type DepositRequest struct {
	Amount            decimal.Decimal `json:"amount"`                          // Amount sent
	PhoneNumber       string          `json:"phone_number" binding:"required"` // Sender phone
	MpesaCode         string          `json:"mpesa_code"`                      // Optional payment code
	PaymentNumberUsed string          `json:"payment_number_used"`             // Receiving number used
}

// WithdrawalRequest asks for a payout to a phone number
type WithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount"`                          // Amount to withdraw
	PhoneNumber string          `json:"phone_number" binding:"required"` // Destination phone
}

// TransactionPage is one page of a user's ledger
type TransactionPage struct {
	Transactions []domain.Transaction `json:"transactions"` // List of transactions
	Page         int                  `json:"page"`         // Current page
	PageSize     int                  `json:"page_size"`    // Page size
	Total        int64                `json:"total"`        // Total transactions
	TotalPages   int                  `json:"total_pages"`  // Total pages
	Cached       bool                 `json:"cached"`       // Served from Redis
}

// GetWalletHandler returns wallet info for the authenticated user
func GetWalletHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		walletResponse(c, engine, cache, middleware.Actor(c))
	}
}

// walletResponse serves a wallet through the read-through cache
func walletResponse(c *gin.Context, engine *approval.Engine, cache *utils.Cache, userID uuid.UUID) {
	ctx := c.Request.Context()
	cacheKey := utils.WalletKey(userID)
	var wallet domain.Wallet
	if found, err := cache.Get(ctx, cacheKey, &wallet); err == nil && found {
		c.JSON(http.StatusOK, gin.H{"wallet": wallet, "cached": true}) // Return cached wallet
		return
	}
	w, err := engine.GetWallet(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := cache.Set(ctx, cacheKey, w); err != nil {
		logrus.WithError(err).Warn("Failed to cache wallet")
	}
	c.JSON(http.StatusOK, gin.H{"wallet": w, "cached": false})
}

// GetTransactionHistoryHandler returns the authenticated user's ledger, newest first
func GetTransactionHistoryHandler(engine *approval.Engine, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionsResponse(c, engine, cache, middleware.Actor(c))
	}
}

// transactionsResponse serves one page of a user's ledger through the cache
func transactionsResponse(c *gin.Context, engine *approval.Engine, cache *utils.Cache, userID uuid.UUID) {
	ctx := c.Request.Context()
	page, pageSize, window := pageParams(c)
	// Redis cache key
	cacheKey := utils.TxHistoryPrefix(userID) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
	var cached TransactionPage
	if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
		cached.Cached = true
		c.JSON(http.StatusOK, cached)
		return
	}
	txs, total, err := engine.ListTransactions(ctx, userID, window)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := TransactionPage{
		Transactions: txs,
		Page:         page,
		PageSize:     pageSize,
		Total:        total,
		TotalPages:   totalPages(total, pageSize),
	}
	if err := cache.Set(ctx, cacheKey, resp); err != nil {
		logrus.WithError(err).Warn("Failed to cache transaction history")
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitDepositHandler queues a deposit for admin review
func SubmitDepositHandler(svc *requests.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DepositRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		dep, err := svc.SubmitDeposit(c.Request.Context(), middleware.Actor(c), requests.DepositInput{
			Amount:            req.Amount,
			PhoneNumber:       req.PhoneNumber,
			MpesaCode:         req.MpesaCode,
			PaymentNumberUsed: req.PaymentNumberUsed,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Deposit submitted", "deposit": dep})
	}
}

// SubmitWithdrawalHandler reserves funds and queues a payout for admin review
func SubmitWithdrawalHandler(svc *requests.Service, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WithdrawalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid request")
			return
		}
		userID := middleware.Actor(c)
		wd, err := svc.SubmitWithdrawal(c.Request.Context(), userID, requests.WithdrawalInput{
			Amount:      req.Amount,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, cache, userID) // The reservation changed the balance
		c.JSON(http.StatusCreated, gin.H{"message": "Withdrawal submitted", "withdrawal": wd})
	}
}

// ListMyDepositsHandler lists the authenticated user's deposit requests
func ListMyDepositsHandler(svc *requests.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps, err := svc.ListDeposits(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deposits": deps})
	}
}

// ListMyWithdrawalsHandler lists the authenticated user's withdrawal requests
func ListMyWithdrawalsHandler(svc *requests.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		wds, err := svc.ListWithdrawals(c.Request.Context(), middleware.Actor(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"withdrawals": wds})
	}
}

// invalidate drops cached views of a user after a committed write
func invalidate(c *gin.Context, cache *utils.Cache, userID uuid.UUID) {
	if err := cache.InvalidateUser(c.Request.Context(), userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Failed to invalidate cache")
	}
}
