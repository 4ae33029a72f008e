package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/payledger/backend/internal/sharing"
	"github.com/payledger/backend/pkg/api"
)

// PublicDashboardService implements the Connect PublicDashboardService.
// It is mounted without RequireAuth: the token is the only credential.
type PublicDashboardService struct {
	sharing *sharing.Service
}

var _ api.PublicDashboardServiceHandler = (*PublicDashboardService)(nil)

// NewPublicDashboardService creates a PublicDashboardService.
func NewPublicDashboardService(sh *sharing.Service) *PublicDashboardService {
	return &PublicDashboardService{sharing: sh}
}

// GetSharedDashboard returns the summary a dashboard token grants. The period
// is fixed by the token.
func (s *PublicDashboardService) GetSharedDashboard(ctx context.Context, req *connect.Request[api.GetSharedDashboardRequest]) (*connect.Response[api.GetSharedDashboardResponse], error) {
	slog.Info("GetSharedDashboard request received")

	summary, err := s.sharing.View(ctx, req.Msg.Token)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.GetSharedDashboardResponse{Dashboard: toAPIDashboard(summary)}), nil
}
