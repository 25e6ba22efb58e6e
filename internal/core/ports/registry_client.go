package ports

import (
	"context"
	"io"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
)

// AuthResult is the payload the registry returns from login and refresh.
type AuthResult struct {
	AccessToken string
	Member      *domain.Member
}

// UploadDocumentInput carries the multipart fields of a document upload.
// File is streamed through to the registry untouched.
type UploadDocumentInput struct {
	MemberID       string
	Title          string
	DocumentType   string
	DocumentNumber string
	DocumentSource string
	FileName       string
	File           io.Reader
}

// RegistryClient is the single egress point to the remote membership registry
// API. Resource calls attach the session's bearer token and transparently
// recover from one token expiry per request; auth calls never retry.
type RegistryClient interface {
	// Auth endpoints. These rely on the session's upstream cookie jar and
	// are exempt from the bearer/retry treatment.
	Login(ctx context.Context, identifier, password string) (*AuthResult, error)
	Logout(ctx context.Context) error
	RefreshSession(ctx context.Context) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) (string, error)

	// Member endpoints.
	ListMembers(ctx context.Context) ([]domain.Member, error)
	SearchMembers(ctx context.Context, query string) ([]domain.Member, error)
	GetMember(ctx context.Context, id string) (*domain.Member, error)
	CreateMember(ctx context.Context, member *domain.Member) error
	UpdateMember(ctx context.Context, id string, member *domain.Member) error
	DeleteMember(ctx context.Context, id string) error

	// Document endpoints.
	UploadDocument(ctx context.Context, input UploadDocumentInput) error
	MemberDocuments(ctx context.Context, memberID string) ([]domain.Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// SessionBinding is what a RegistryClient needs from the session that owns
// it: a synchronous token read at dispatch time and a refresh hook for the
// 401 recovery path. The generation counter lets concurrent 401s coalesce
// onto a single upstream refresh.
type SessionBinding interface {
	// AccessToken returns the current bearer token, or "" when none is held.
	// Must be callable synchronously from any goroutine.
	AccessToken() string

	// TokenGeneration returns a counter that advances every time the token
	// is replaced or cleared.
	TokenGeneration() uint64

	// Reauthorize refreshes the access token. seenGeneration is the value of
	// TokenGeneration observed when the failed request was dispatched; if the
	// token has already moved past it, the refresh is skipped and the caller
	// retries with the newer token. A non-nil error means the session is now
	// unauthenticated and the caller must propagate its original failure.
	Reauthorize(ctx context.Context, seenGeneration uint64) error
}

// ClientFactory builds a RegistryClient bound to one session. Each session
// gets its own client so upstream refresh cookies never leak across browsers.
type ClientFactory func(binding SessionBinding) RegistryClient
