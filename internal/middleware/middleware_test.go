package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/payledger/backend/internal/auth"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/pkg/api"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

// echoService reports the caller identity it sees through Dashboard.Label.
type echoService struct {
	sleep time.Duration
}

func (s echoService) GetSharedDashboard(ctx context.Context, req *connect.Request[api.GetSharedDashboardRequest]) (*connect.Response[api.GetSharedDashboardResponse], error) {
	if s.sleep > 0 {
		select {
		case <-time.After(s.sleep):
		case <-ctx.Done():
			return nil, connect.NewError(connect.CodeDeadlineExceeded, ctx.Err())
		}
	}
	return connect.NewResponse(&api.GetSharedDashboardResponse{
		Dashboard: api.Dashboard{Label: GetUserID(ctx) + "|" + GetEmail(ctx)},
	}), nil
}

type memoryUsers struct {
	users map[string]models.User
}

func (m *memoryUsers) UpsertUser(_ context.Context, u *models.User) error {
	m.users[u.ID] = *u
	return nil
}

func newClient(t *testing.T, svc echoService, interceptors ...connect.Interceptor) api.PublicDashboardServiceClient {
	t.Helper()
	path, handler := api.NewPublicDashboardServiceHandler(svc, connect.WithInterceptors(interceptors...))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return api.NewPublicDashboardServiceClient(http.DefaultClient, server.URL)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	users := &memoryUsers{users: map[string]models.User{}}
	directory := auth.NewDirectory(users, time.Minute)

	client := newClient(t, echoService{},
		RequireAuth(jwtManager, directory),
		LoggingInterceptor(),
		MetricsInterceptor(),
	)
	ctx := context.Background()

	t.Run("missing header", func(t *testing.T) {
		_, err := client.GetSharedDashboard(ctx, connect.NewRequest(&api.GetSharedDashboardRequest{}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want Unauthenticated", connect.CodeOf(err))
		}
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := connect.NewRequest(&api.GetSharedDashboardRequest{})
		req.Header().Set("Authorization", "Basic abc")
		_, err := client.GetSharedDashboard(ctx, req)
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("code = %v, want Unauthenticated", connect.CodeOf(err))
		}
	})

	t.Run("valid token sets identity and records user", func(t *testing.T) {
		token, err := jwtManager.Generate("user-1", "Alice@Example.com")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		req := connect.NewRequest(&api.GetSharedDashboardRequest{})
		req.Header().Set("Authorization", "Bearer "+token)

		resp, err := client.GetSharedDashboard(ctx, req)
		if err != nil {
			t.Fatalf("GetSharedDashboard failed: %v", err)
		}
		if got := resp.Msg.Dashboard.Label; got != "user-1|Alice@Example.com" {
			t.Errorf("identity = %q", got)
		}
		if u, ok := users.users["user-1"]; !ok || u.Email != "alice@example.com" {
			t.Errorf("user not recorded: %+v", users.users)
		}
	})
}

// logBuffer is written by server goroutines and read by the test.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLogs routes the default logger into a buffer of JSON lines.
func captureLogs(t *testing.T) *logBuffer {
	t.Helper()
	buf := &logBuffer{}
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return buf
}

func rpcLogs(t *testing.T, buf *logBuffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range bytes.Split([]byte(strings.TrimSpace(buf.String())), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal(line, &entry); err != nil {
			t.Fatalf("bad log line %s: %v", line, err)
		}
		if _, ok := entry["procedure"]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRejectedSessionsAreLoggedAndCounted(t *testing.T) {
	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	client := newClient(t, echoService{},
		LoggingInterceptor(),
		MetricsInterceptor(),
		RequireAuth(jwtManager, nil),
	)
	buf := captureLogs(t)
	ctx := context.Background()

	rejected := rpcRequests.WithLabelValues(api.PublicDashboardServiceGetSharedDashboardProcedure, connect.CodeUnauthenticated.String())
	before := counterValue(t, rejected)

	_, err := client.GetSharedDashboard(ctx, connect.NewRequest(&api.GetSharedDashboardRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("code = %v, want Unauthenticated", connect.CodeOf(err))
	}
	if got := counterValue(t, rejected) - before; got != 1 {
		t.Errorf("unauthenticated count grew by %v, want 1", got)
	}

	token, err := jwtManager.Generate("user-1", "alice@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	req := connect.NewRequest(&api.GetSharedDashboardRequest{})
	req.Header().Set("Authorization", "Bearer "+token)
	if _, err := client.GetSharedDashboard(ctx, req); err != nil {
		t.Fatalf("GetSharedDashboard failed: %v", err)
	}

	entries := rpcLogs(t, buf)
	if len(entries) != 2 {
		t.Fatalf("got %d RPC log lines, want 2: %s", len(entries), buf.String())
	}
	if entries[0]["msg"] != "RPC rejected" || entries[0]["user_id"] != "" {
		t.Errorf("rejected entry = %v", entries[0])
	}
	if entries[1]["msg"] != "RPC ok" || entries[1]["user_id"] != "user-1" {
		t.Errorf("accepted entry = %v", entries[1])
	}
}

func TestTimeoutInterceptor(t *testing.T) {
	client := newClient(t, echoService{sleep: time.Second}, TimeoutInterceptor(20*time.Millisecond))

	_, err := client.GetSharedDashboard(context.Background(), connect.NewRequest(&api.GetSharedDashboardRequest{}))
	if connect.CodeOf(err) != connect.CodeDeadlineExceeded {
		t.Errorf("code = %v, want DeadlineExceeded (err: %v)", connect.CodeOf(err), err)
	}
}

func TestClientFault(t *testing.T) {
	if !clientFault(connect.CodeNotFound) {
		t.Error("NotFound should be a client fault")
	}
	if clientFault(connect.CodeInternal) {
		t.Error("Internal should not be a client fault")
	}
	if clientFault(connect.CodeOf(errors.New("plain"))) {
		t.Error("unknown errors should not be a client fault")
	}
}
