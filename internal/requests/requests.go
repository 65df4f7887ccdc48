// Package requests is the user-facing submission path that feeds the
// approval queue. Deposits are queued as-is; withdrawals reserve their
// amount out of the wallet in the same transaction that queues them.
package requests

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"invest_ledger/internal/domain"
	"invest_ledger/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// DepositInput is what a user submits when announcing a payment
type DepositInput struct {
	Amount            decimal.Decimal
	PhoneNumber       string
	MpesaCode         string
	PaymentNumberUsed string
}

// WithdrawalInput is what a user submits when asking for a payout
type WithdrawalInput struct {
	Amount      decimal.Decimal
	PhoneNumber string
}

// Service queues deposit and withdrawal requests
type Service struct {
	store *store.Store
	log   logrus.FieldLogger
}

// NewService builds a Service; a nil logger uses the standard logger
func NewService(st *store.Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: st, log: log}
}

// SubmitDeposit queues a pending deposit for admin review
func (s *Service) SubmitDeposit(ctx context.Context, userID uuid.UUID, in DepositInput) (*domain.PendingDeposit, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	if err := validate(in.Amount, in.PhoneNumber); err != nil {
		return nil, err
	}
	dep := &domain.PendingDeposit{
		UserID:            userID,
		Amount:            in.Amount,
		PhoneNumber:       strings.TrimSpace(in.PhoneNumber),
		PaymentNumberUsed: strings.TrimSpace(in.PaymentNumberUsed),
	}
	if code := strings.ToUpper(strings.TrimSpace(in.MpesaCode)); code != "" {
		dep.MpesaCode = &code
	}
	err := s.store.Atomic(ctx, func(r *store.Repos) error {
		if _, err := r.Wallets.Get(userID); err != nil {
			return err
		}
		return r.Deposits.Create(dep)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":    userID,
		"deposit_id": dep.ID,
		"amount":     dep.Amount.String(),
	}).Info("Deposit request queued")
	return dep, nil
}

// SubmitWithdrawal reserves the amount from the user's wallet and queues
// a pending withdrawal. Insufficient funds yield ErrInvalidState.
func (s *Service) SubmitWithdrawal(ctx context.Context, userID uuid.UUID, in WithdrawalInput) (*domain.PendingWithdrawal, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrNotAuthenticated
	}
	if err := validate(in.Amount, in.PhoneNumber); err != nil {
		return nil, err
	}
	wd := &domain.PendingWithdrawal{
		UserID:      userID,
		Amount:      in.Amount,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
	err := s.store.Atomic(ctx, func(r *store.Repos) error {
		wallet, err := r.Wallets.ForUpdate(userID)
		if err != nil {
			return err
		}
		if wallet.Balance.LessThan(in.Amount) {
			return fmt.Errorf("%w: insufficient balance", domain.ErrInvalidState)
		}
		if err := r.Wallets.CompareAndSetBalance(wallet, wallet.Balance.Sub(in.Amount)); err != nil {
			return err
		}
		return r.Withdrawals.Create(wd)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"user_id":       userID,
		"withdrawal_id": wd.ID,
		"amount":        wd.Amount.String(),
	}).Info("Withdrawal request queued")
	return wd, nil
}

// ListDeposits returns a user's own deposit requests
func (s *Service) ListDeposits(ctx context.Context, userID uuid.UUID) ([]domain.PendingDeposit, error) {
	return s.store.Read(ctx).Deposits.ListByUser(userID)
}

// ListWithdrawals returns a user's own withdrawal requests
func (s *Service) ListWithdrawals(ctx context.Context, userID uuid.UUID) ([]domain.PendingWithdrawal, error) {
	return s.store.Read(ctx).Withdrawals.ListByUser(userID)
}

func validate(amount decimal.Decimal, phone string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount has more than two decimal places", domain.ErrInvalidInput)
	}
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return fmt.Errorf("%w: invalid phone number", domain.ErrInvalidInput)
	}
	return nil
}
