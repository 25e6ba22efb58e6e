package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/church-member-library/admin-gateway/internal/api/guard"
)

func TestPageHandler_Resolve_LoadingShell(t *testing.T) {
	client := &stubClient{}
	reg := newSessionRegistry(client)
	fresh := reg.Create()
	h := NewPageHandler()

	c, rec := newContext(t, http.MethodGet, guard.PathDashboard, nil, "", fresh)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Checking session") {
		t.Fatalf("expected loading shell, got %s", rec.Body.String())
	}
}

func TestPageHandler_Resolve_RedirectsStranger(t *testing.T) {
	client := &stubClient{}
	reg := newSessionRegistry(client)
	sess := reg.Create()
	sess.Resolve(context.Background()) // stub refresh fails: unauthenticated
	h := NewPageHandler()

	c, rec := newContext(t, http.MethodGet, guard.PathDashboard, nil, "", sess)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != guard.PathLogin {
		t.Fatalf("expected redirect to login, got %q", loc)
	}
}

func TestPageHandler_Resolve_AllowsAdmin(t *testing.T) {
	client := &stubClient{}
	reg := newSessionRegistry(client)
	sess := authedSession(t, reg, client)
	h := NewPageHandler()

	c, rec := newContext(t, http.MethodGet, guard.PathDashboard, nil, "", sess)
	if err := h.Resolve(c); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `data-view="/dashboard"`) {
		t.Fatalf("expected dashboard view shell, got %s", rec.Body.String())
	}
}
