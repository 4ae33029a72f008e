package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/payledger/backend/internal/ledger"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/pkg/api"
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledger *ledger.Ledger
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService backed by l.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// CreateBill creates a bill owned by the caller.
func (s *LedgerService) CreateBill(ctx context.Context, req *connect.Request[api.CreateBillRequest]) (*connect.Response[api.CreateBillResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateBill request received", "user_id", userID, "name", req.Msg.Name)

	bill, err := s.ledger.CreateBill(ctx, userID, ledger.BillInput{
		Name:          req.Msg.Name,
		Description:   req.Msg.Description,
		PaymentMethod: req.Msg.PaymentMethod,
		AccountNumber: req.Msg.AccountNumber,
	})
	if err != nil {
		slog.Error("CreateBill failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.CreateBillResponse{
		Bill: toAPIBill(*bill, models.RoleOwner),
	}), nil
}

// ListBills lists the bills the caller holds a role on.
func (s *LedgerService) ListBills(ctx context.Context, req *connect.Request[api.ListBillsRequest]) (*connect.Response[api.ListBillsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListBills request received", "user_id", userID)

	bills, err := s.ledger.ListBills(ctx, userID)
	if err != nil {
		slog.Error("ListBills failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ListBills successful", "user_id", userID, "count", len(bills))
	return connect.NewResponse(&api.ListBillsResponse{Bills: toAPIBills(bills)}), nil
}

// ShareBill grants viewer access to the user with the given email.
func (s *LedgerService) ShareBill(ctx context.Context, req *connect.Request[api.ShareBillRequest]) (*connect.Response[api.ShareBillResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ShareBill request received", "user_id", userID, "bill_id", req.Msg.BillID)

	link, err := s.ledger.ShareBill(ctx, req.Msg.BillID, userID, req.Msg.Email)
	if err != nil {
		slog.Warn("ShareBill failed", "user_id", userID, "bill_id", req.Msg.BillID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ShareBillResponse{Link: toAPIBillUser(link)}), nil
}

// UnshareBill removes a viewer from a bill.
func (s *LedgerService) UnshareBill(ctx context.Context, req *connect.Request[api.UnshareBillRequest]) (*connect.Response[api.UnshareBillResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UnshareBill request received", "user_id", userID, "bill_id", req.Msg.BillID, "target", req.Msg.UserID)

	if err := s.ledger.UnshareBill(ctx, req.Msg.BillID, userID, req.Msg.UserID); err != nil {
		slog.Warn("UnshareBill failed", "user_id", userID, "bill_id", req.Msg.BillID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.UnshareBillResponse{}), nil
}

// RecordPayment records a payment against a bill.
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordPayment request received",
		"user_id", userID,
		"bill_id", req.Msg.BillID,
		"paid_on", req.Msg.PaidOn,
	)

	payment, err := s.ledger.RecordPayment(ctx, userID, ledger.PaymentInput{
		BillID:        req.Msg.BillID,
		Amount:        req.Msg.Amount,
		PaidOn:        req.Msg.PaidOn,
		Notes:         req.Msg.Notes,
		AccountNumber: req.Msg.AccountNumber,
	})
	if err != nil {
		slog.Warn("RecordPayment failed", "user_id", userID, "bill_id", req.Msg.BillID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.RecordPaymentResponse{Payment: toAPIPayment(*payment)}), nil
}

// ListPayments lists the caller's payments, optionally for one period.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ListPayments request received", "user_id", userID, "month", req.Msg.Month, "year", req.Msg.Year)

	var period *models.Period
	if req.Msg.Month != 0 || req.Msg.Year != 0 {
		period = &models.Period{Month: req.Msg.Month, Year: req.Msg.Year}
	}

	payments, err := s.ledger.ListPayments(ctx, userID, period)
	if err != nil {
		slog.Error("ListPayments failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("ListPayments successful", "user_id", userID, "count", len(payments))
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: toAPIPayments(payments)}), nil
}

// SetMonthlyFinance records the money received in a period.
func (s *LedgerService) SetMonthlyFinance(ctx context.Context, req *connect.Request[api.SetMonthlyFinanceRequest]) (*connect.Response[api.SetMonthlyFinanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SetMonthlyFinance request received", "user_id", userID, "month", req.Msg.Month, "year", req.Msg.Year)

	period := models.Period{Month: req.Msg.Month, Year: req.Msg.Year}
	finance, err := s.ledger.SetMonthlyFinance(ctx, userID, period, req.Msg.MoneyReceived)
	if err != nil {
		slog.Warn("SetMonthlyFinance failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SetMonthlyFinanceResponse{Finance: toAPIFinance(finance)}), nil
}

// GetMonthlyFinance returns the money received in a period.
func (s *LedgerService) GetMonthlyFinance(ctx context.Context, req *connect.Request[api.GetMonthlyFinanceRequest]) (*connect.Response[api.GetMonthlyFinanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetMonthlyFinance request received", "user_id", userID, "month", req.Msg.Month, "year", req.Msg.Year)

	period := models.Period{Month: req.Msg.Month, Year: req.Msg.Year}
	finance, err := s.ledger.GetMonthlyFinance(ctx, userID, period)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetMonthlyFinanceResponse{Finance: toAPIFinance(finance)}), nil
}
