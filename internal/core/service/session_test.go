package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// stubRegistryClient fakes the upstream registry. Unset funcs fail loudly so
// a test only exercises the calls it declares.
type stubRegistryClient struct {
	t *testing.T

	loginFn      func(ctx context.Context, identifier, password string) (*ports.AuthResult, error)
	logoutFn     func(ctx context.Context) error
	refreshFn    func(ctx context.Context) (*ports.AuthResult, error)
	refreshCalls int32
}

func (s *stubRegistryClient) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	if s.loginFn == nil {
		s.t.Fatalf("unexpected Login call")
	}
	return s.loginFn(ctx, identifier, password)
}

func (s *stubRegistryClient) Logout(ctx context.Context) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx)
}

func (s *stubRegistryClient) RefreshSession(ctx context.Context) (*ports.AuthResult, error) {
	atomic.AddInt32(&s.refreshCalls, 1)
	if s.refreshFn == nil {
		s.t.Fatalf("unexpected RefreshSession call")
	}
	return s.refreshFn(ctx)
}

func (s *stubRegistryClient) ForgotPassword(context.Context, string) (string, error) {
	return "", nil
}

func (s *stubRegistryClient) ResetPassword(context.Context, string, string, string) (string, error) {
	return "", nil
}

func (s *stubRegistryClient) ListMembers(context.Context) ([]domain.Member, error) { return nil, nil }

func (s *stubRegistryClient) SearchMembers(context.Context, string) ([]domain.Member, error) {
	return nil, nil
}

func (s *stubRegistryClient) GetMember(context.Context, string) (*domain.Member, error) {
	return nil, nil
}

func (s *stubRegistryClient) CreateMember(context.Context, *domain.Member) error { return nil }

func (s *stubRegistryClient) UpdateMember(context.Context, string, *domain.Member) error { return nil }

func (s *stubRegistryClient) DeleteMember(context.Context, string) error { return nil }

func (s *stubRegistryClient) UploadDocument(context.Context, ports.UploadDocumentInput) error {
	return nil
}

func (s *stubRegistryClient) MemberDocuments(context.Context, string) ([]domain.Document, error) {
	return nil, nil
}

func (s *stubRegistryClient) DeleteDocument(context.Context, string) error { return nil }

func newTestSession(t *testing.T, stub *stubRegistryClient) *Session {
	t.Helper()
	stub.t = t
	factory := func(_ ports.SessionBinding) ports.RegistryClient { return stub }
	return NewSession("sess-1", factory, zerolog.Nop())
}

func adminResult(token string) *ports.AuthResult {
	return &ports.AuthResult{
		AccessToken: token,
		Member:      &domain.Member{ID: "1", Name: "Jane", Role: domain.RoleAdmin},
	}
}

func TestSession_Login_Success(t *testing.T) {
	stub := &stubRegistryClient{
		loginFn: func(_ context.Context, identifier, password string) (*ports.AuthResult, error) {
			if identifier != "admin@example.com" || password != "pass123" {
				t.Fatalf("unexpected credentials: %s / %s", identifier, password)
			}
			return adminResult("t1"), nil
		},
	}
	sess := newTestSession(t, stub)

	if err := sess.Login(context.Background(), "admin@example.com", "pass123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !sess.Authenticated() {
		t.Fatalf("expected session to be authenticated")
	}
	if sess.Loading() {
		t.Fatalf("expected loading to be resolved after login")
	}
	if sess.AccessToken() != "t1" {
		t.Fatalf("expected token t1, got %q", sess.AccessToken())
	}
	if sess.Role() != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", sess.Role())
	}
}

func TestSession_Login_FailureLeavesStateUntouched(t *testing.T) {
	stub := &stubRegistryClient{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	sess := newTestSession(t, stub)

	if err := sess.Login(context.Background(), "admin@example.com", "wrong"); err == nil {
		t.Fatalf("expected login error")
	}
	if sess.State() != domain.StateUnknown {
		t.Fatalf("failed login must not change state, got %v", sess.State())
	}
	if sess.AccessToken() != "" || sess.Member() != nil {
		t.Fatalf("failed login must not set token or member")
	}
}

func TestSession_Logout_ClearsDespiteUpstreamError(t *testing.T) {
	stub := &stubRegistryClient{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return adminResult("t1"), nil
		},
		logoutFn: func(context.Context) error {
			return context.DeadlineExceeded
		},
	}
	sess := newTestSession(t, stub)
	if err := sess.Login(context.Background(), "admin@example.com", "pass123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	sess.Logout(context.Background())

	if sess.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated after logout, got %v", sess.State())
	}
	if sess.AccessToken() != "" || sess.Member() != nil {
		t.Fatalf("logout must clear token and member")
	}
}

func TestSession_Resolve_RefreshSuccess(t *testing.T) {
	stub := &stubRegistryClient{
		refreshFn: func(context.Context) (*ports.AuthResult, error) {
			return adminResult("t1"), nil
		},
	}
	sess := newTestSession(t, stub)

	sess.Resolve(context.Background())

	if !sess.Authenticated() {
		t.Fatalf("expected authenticated after silent refresh")
	}
	if sess.Member() == nil || sess.Member().Name != "Jane" {
		t.Fatalf("expected member identity from refresh")
	}
}

func TestSession_Resolve_IsOneShot(t *testing.T) {
	stub := &stubRegistryClient{
		refreshFn: func(context.Context) (*ports.AuthResult, error) {
			return nil, domain.ErrNotAuthenticated
		},
	}
	sess := newTestSession(t, stub)

	sess.Resolve(context.Background())
	if sess.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated after failed refresh, got %v", sess.State())
	}

	sess.Resolve(context.Background())
	sess.Resolve(context.Background())
	if got := atomic.LoadInt32(&stub.refreshCalls); got != 1 {
		t.Fatalf("resolve must only refresh once, got %d calls", got)
	}
}

func TestSession_RefreshFailureResolvesUnauthenticated(t *testing.T) {
	stub := &stubRegistryClient{
		refreshFn: func(context.Context) (*ports.AuthResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	sess := newTestSession(t, stub)

	sess.Refresh(context.Background())

	if sess.State() != domain.StateUnauthenticated {
		t.Fatalf("refresh failure must resolve to unauthenticated, got %v", sess.State())
	}
	if sess.AccessToken() != "" {
		t.Fatalf("refresh failure must clear the token")
	}
}

func TestSession_Reauthorize_Coalesces(t *testing.T) {
	stub := &stubRegistryClient{
		refreshFn: func(context.Context) (*ports.AuthResult, error) {
			time.Sleep(20 * time.Millisecond)
			return adminResult("t2"), nil
		},
	}
	sess := newTestSession(t, stub)
	seen := sess.TokenGeneration()

	const concurrent = 8
	var wg sync.WaitGroup
	errs := make([]error, concurrent)
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = sess.Reauthorize(context.Background(), seen)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d got error: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&stub.refreshCalls); got != 1 {
		t.Fatalf("concurrent 401s must share one refresh, got %d", got)
	}
	if sess.AccessToken() != "t2" {
		t.Fatalf("expected refreshed token t2, got %q", sess.AccessToken())
	}
}

func TestSession_Reauthorize_SkipsWhenTokenAlreadyFresh(t *testing.T) {
	stub := &stubRegistryClient{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return adminResult("t2"), nil
		},
	}
	sess := newTestSession(t, stub)

	stale := sess.TokenGeneration()
	if err := sess.Login(context.Background(), "admin@example.com", "pass123"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := sess.Reauthorize(context.Background(), stale); err != nil {
		t.Fatalf("expected no-op reauthorize, got %v", err)
	}
	if got := atomic.LoadInt32(&stub.refreshCalls); got != 0 {
		t.Fatalf("reauthorize must not refresh a fresh token, got %d calls", got)
	}
}

func TestSession_Reauthorize_FailureReturnsNotAuthenticated(t *testing.T) {
	stub := &stubRegistryClient{
		refreshFn: func(context.Context) (*ports.AuthResult, error) {
			return nil, context.DeadlineExceeded
		},
	}
	sess := newTestSession(t, stub)
	seen := sess.TokenGeneration()

	if err := sess.Reauthorize(context.Background(), seen); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if sess.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated state, got %v", sess.State())
	}

	// The generation moved when the session was cleared, so a second stale
	// caller is turned away without another upstream attempt.
	if err := sess.Reauthorize(context.Background(), seen); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated for stale caller, got %v", err)
	}
	if got := atomic.LoadInt32(&stub.refreshCalls); got != 1 {
		t.Fatalf("stale caller must not trigger another refresh, got %d calls", got)
	}
}
