package handler

import "github.com/church-member-library/admin-gateway/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type loginResponse struct {
	Member *domain.Member `json:"member"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"       validate:"required,email"`
	Code        string `json:"code"        validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Documents ---

type documentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

// --- Audit ---

type auditResponse struct {
	Entries []domain.AuditEntry `json:"entries"`
}
