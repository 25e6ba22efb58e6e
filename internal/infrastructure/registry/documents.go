package registry

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// UploadDocument forwards a document upload as multipart form data. The form
// is buffered so the 401-recovery path can replay it byte for byte.
func (c *Client) UploadDocument(ctx context.Context, input ports.UploadDocumentInput) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"memberId":       input.MemberID,
		"title":          input.Title,
		"documentType":   input.DocumentType,
		"documentNumber": input.DocumentNumber,
		"documentSource": input.DocumentSource,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("registry: build upload form: %w", err)
		}
	}

	part, err := w.CreateFormFile("file", input.FileName)
	if err != nil {
		return fmt.Errorf("registry: build upload form: %w", err)
	}
	if _, err := io.Copy(part, input.File); err != nil {
		return fmt.Errorf("registry: read upload file: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("registry: build upload form: %w", err)
	}

	return c.do(ctx, http.MethodPost, "/documents/upload", nil, buf.Bytes(), w.FormDataContentType(), nil, uploadCall)
}

// MemberDocuments lists the documents attached to one member.
func (c *Client) MemberDocuments(ctx context.Context, memberID string) ([]domain.Document, error) {
	var resp struct {
		Documents []domain.Document `json:"documents"`
	}
	if err := c.getJSON(ctx, "/documents/member/"+url.PathEscape(memberID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Documents, nil
}

// DeleteDocument removes a document from the archive.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/documents/"+url.PathEscape(id), nil, nil, "", nil, resourceCall)
}
