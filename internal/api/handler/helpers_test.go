package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/api/middleware"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
	"github.com/church-member-library/admin-gateway/internal/core/service"
)

// stubClient fakes the upstream registry per test via func fields. Unset
// funcs return zero values.
type stubClient struct {
	loginFn   func(ctx context.Context, identifier, password string) (*ports.AuthResult, error)
	logoutFn  func(ctx context.Context) error
	forgotFn  func(ctx context.Context, email string) (string, error)
	resetFn   func(ctx context.Context, email, code, newPassword string) (string, error)
	listFn    func(ctx context.Context) ([]domain.Member, error)
	searchFn  func(ctx context.Context, query string) ([]domain.Member, error)
	getFn     func(ctx context.Context, id string) (*domain.Member, error)
	createFn  func(ctx context.Context, member *domain.Member) error
	updateFn  func(ctx context.Context, id string, member *domain.Member) error
	deleteFn  func(ctx context.Context, id string) error
	uploadFn  func(ctx context.Context, input ports.UploadDocumentInput) error
	docsFn    func(ctx context.Context, memberID string) ([]domain.Document, error)
	delDocFn  func(ctx context.Context, id string) error
	refreshFn func(ctx context.Context) (*ports.AuthResult, error)
}

func (s *stubClient) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	if s.loginFn == nil {
		return nil, domain.ErrInvalidCredentials
	}
	return s.loginFn(ctx, identifier, password)
}

func (s *stubClient) Logout(ctx context.Context) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubClient) RefreshSession(ctx context.Context) (*ports.AuthResult, error) {
	if s.refreshFn == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return s.refreshFn(ctx)
}

func (s *stubClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	if s.forgotFn == nil {
		return "", nil
	}
	return s.forgotFn(ctx, email)
}

func (s *stubClient) ResetPassword(ctx context.Context, email, code, newPassword string) (string, error) {
	if s.resetFn == nil {
		return "", nil
	}
	return s.resetFn(ctx, email, code, newPassword)
}

func (s *stubClient) ListMembers(ctx context.Context) ([]domain.Member, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s *stubClient) SearchMembers(ctx context.Context, query string) ([]domain.Member, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, query)
}

func (s *stubClient) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	if s.getFn == nil {
		return nil, nil
	}
	return s.getFn(ctx, id)
}

func (s *stubClient) CreateMember(ctx context.Context, member *domain.Member) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, member)
}

func (s *stubClient) UpdateMember(ctx context.Context, id string, member *domain.Member) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, id, member)
}

func (s *stubClient) DeleteMember(ctx context.Context, id string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

func (s *stubClient) UploadDocument(ctx context.Context, input ports.UploadDocumentInput) error {
	if s.uploadFn == nil {
		return nil
	}
	return s.uploadFn(ctx, input)
}

func (s *stubClient) MemberDocuments(ctx context.Context, memberID string) ([]domain.Document, error) {
	if s.docsFn == nil {
		return nil, nil
	}
	return s.docsFn(ctx, memberID)
}

func (s *stubClient) DeleteDocument(ctx context.Context, id string) error {
	if s.delDocFn == nil {
		return nil
	}
	return s.delDocFn(ctx, id)
}

// recordingSink captures enqueued audit entries synchronously.
type recordingSink struct {
	entries []domain.AuditEntry
}

func (s *recordingSink) Enqueue(entry domain.AuditEntry) {
	s.entries = append(s.entries, entry)
}

// stubStats records invalidations and serves canned dashboard stats.
type stubStats struct {
	stats         *domain.DashboardStats
	dashboardErr  error
	invalidations int
}

func (s *stubStats) Dashboard(_ context.Context, _ ports.RegistryClient) (*domain.DashboardStats, error) {
	if s.dashboardErr != nil {
		return nil, s.dashboardErr
	}
	return s.stats, nil
}

func (s *stubStats) Invalidate(context.Context) {
	s.invalidations++
}

func newSessionRegistry(client *stubClient) *service.SessionRegistry {
	factory := func(_ ports.SessionBinding) ports.RegistryClient { return client }
	return service.NewSessionRegistry("test-secret", "cml_session", time.Hour, false, factory, zerolog.Nop())
}

// newContext builds an echo.Context with a session already attached, the way
// requests arrive after the SessionLoader middleware.
func newContext(t *testing.T, method, target string, body io.Reader, contentType string, sess *service.Session) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.SessionContextKey, sess)
		c.Set(middleware.RoleContextKey, sess.Role())
	}
	return c, rec
}

// authedSession returns an authenticated admin session backed by client.
func authedSession(t *testing.T, reg *service.SessionRegistry, client *stubClient) *service.Session {
	t.Helper()
	prev := client.loginFn
	client.loginFn = func(context.Context, string, string) (*ports.AuthResult, error) {
		return &ports.AuthResult{
			AccessToken: "t1",
			Member:      &domain.Member{ID: "1", Name: "Jane", Role: domain.RoleAdmin},
		}, nil
	}
	sess := reg.Create()
	if err := sess.Login(context.Background(), "admin@example.com", "pass123"); err != nil {
		t.Fatalf("test login failed: %v", err)
	}
	client.loginFn = prev
	return sess
}
