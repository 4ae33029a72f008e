package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/payledger/backend/internal/aggregate"
	"github.com/payledger/backend/internal/ledger"
	"github.com/payledger/backend/internal/mail"
	"github.com/payledger/backend/internal/middleware"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/sharing"
	"github.com/payledger/backend/pkg/api"
)

// DashboardService implements the Connect DashboardService.
type DashboardService struct {
	ledger   *ledger.Ledger
	sharing  *sharing.Service
	mail     mail.Sender
	currency string
}

var _ api.DashboardServiceHandler = (*DashboardService)(nil)

// NewDashboardService creates a DashboardService. Summaries are mailed through
// sender with amounts labelled by currency.
func NewDashboardService(l *ledger.Ledger, sh *sharing.Service, sender mail.Sender, currency string) *DashboardService {
	return &DashboardService{ledger: l, sharing: sh, mail: sender, currency: currency}
}

// GetDashboard summarizes the caller's ledger for a period, or for the latest
// period with payments when none is given.
func (s *DashboardService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetDashboard request received", "user_id", userID, "month", req.Msg.Month, "year", req.Msg.Year)

	var period *models.Period
	if req.Msg.Month != 0 || req.Msg.Year != 0 {
		period = &models.Period{Month: req.Msg.Month, Year: req.Msg.Year}
	}

	summary, err := s.ledger.Dashboard(ctx, userID, period)
	if err != nil {
		slog.Error("GetDashboard failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetDashboardResponse{Dashboard: toAPIDashboard(summary)}), nil
}

// IssueDashboardToken creates a read-only token for one period of the caller's ledger.
func (s *DashboardService) IssueDashboardToken(ctx context.Context, req *connect.Request[api.IssueDashboardTokenRequest]) (*connect.Response[api.IssueDashboardTokenResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("IssueDashboardToken request received", "user_id", userID, "month", req.Msg.Month, "year", req.Msg.Year)

	token, record, err := s.sharing.Issue(ctx, userID, models.Period{Month: req.Msg.Month, Year: req.Msg.Year})
	if err != nil {
		slog.Warn("IssueDashboardToken failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.IssueDashboardTokenResponse{
		Token:     token,
		Month:     record.Month,
		Year:      record.Year,
		ExpiresAt: formatMicros(record.ExpiresAt),
	}), nil
}

// RevokeDashboardToken disables a token the caller issued.
func (s *DashboardService) RevokeDashboardToken(ctx context.Context, req *connect.Request[api.RevokeDashboardTokenRequest]) (*connect.Response[api.RevokeDashboardTokenResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RevokeDashboardToken request received", "user_id", userID)

	if err := s.sharing.Revoke(ctx, userID, req.Msg.Token); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.RevokeDashboardTokenResponse{}), nil
}

// SendMonthlySummary mails the summary of one period.
func (s *DashboardService) SendMonthlySummary(ctx context.Context, req *connect.Request[api.SendMonthlySummaryRequest]) (*connect.Response[api.SendMonthlySummaryResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	recipient := strings.TrimSpace(req.Msg.Recipient)
	if recipient == "" {
		recipient = middleware.GetEmail(ctx)
	}
	slog.Info("SendMonthlySummary request received", "user_id", userID, "month", req.Msg.Month, "year", req.Msg.Year)

	if !strings.Contains(recipient, "@") {
		return nil, toConnectError(&ledger.ValidationError{Field: "recipient", Reason: "must be an email address"})
	}

	summary, err := s.ledger.Summary(ctx, userID, models.Period{Month: req.Msg.Month, Year: req.Msg.Year})
	if err != nil {
		return nil, toConnectError(err)
	}

	payload := aggregate.MailPayload(summary, recipient, s.currency)
	if err := s.mail.Send(ctx, aggregate.MailTemplate, payload); err != nil {
		slog.Error("SendMonthlySummary failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("failed to send summary: %w", err))
	}

	slog.Info("Monthly summary sent", "user_id", userID, "period", summary.Period.Label())
	return connect.NewResponse(&api.SendMonthlySummaryResponse{Recipient: recipient}), nil
}
