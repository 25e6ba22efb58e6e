package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// DocumentHandler proxies document operations to the registry's archive.
type DocumentHandler struct {
	audit ports.AuditSink
}

func NewDocumentHandler(audit ports.AuditSink) *DocumentHandler {
	return &DocumentHandler{audit: audit}
}

// Upload streams a multipart document upload through to the registry.
//
// @Summary      Upload a member document
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        memberId        formData  string  true   "Member ID"
// @Param        title           formData  string  true   "Document title"
// @Param        documentType    formData  string  false  "Document type"
// @Param        documentNumber  formData  string  false  "Document number"
// @Param        documentSource  formData  string  false  "church or member"
// @Param        file            formData  file    true   "Document file"
// @Success      201  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Upload(c echo.Context) error {
	memberID := c.FormValue("memberId")
	title := c.FormValue("title")
	if memberID == "" || title == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "memberId and title are required"})
	}

	source := c.FormValue("documentSource")
	if source == "" {
		source = domain.DocumentSourceChurch
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "file is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unreadable file"})
	}
	defer file.Close()

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	input := ports.UploadDocumentInput{
		MemberID:       memberID,
		Title:          title,
		DocumentType:   c.FormValue("documentType"),
		DocumentNumber: c.FormValue("documentNumber"),
		DocumentSource: source,
		FileName:       fileHeader.Filename,
		File:           file,
	}
	if err := sess.Client().UploadDocument(c.Request().Context(), input); err != nil {
		return err
	}

	h.recordAudit(c, domain.AuditDocumentAdded, memberID, title)

	return c.JSON(http.StatusCreated, messageResponse{Message: "document uploaded"})
}

// ListByMember returns the documents attached to one member.
//
// @Summary      List a member's documents
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  documentsResponse
// @Router       /api/members/{id}/documents [get]
func (h *DocumentHandler) ListByMember(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	docs, err := sess.Client().MemberDocuments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, documentsResponse{Documents: docs})
}

// Delete removes a document from the archive.
//
// @Summary      Delete a document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  messageResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := sess.Client().DeleteDocument(c.Request().Context(), id); err != nil {
		return err
	}

	h.recordAudit(c, domain.AuditDocumentDeleted, id, "")

	return c.JSON(http.StatusOK, messageResponse{Message: "document deleted"})
}

func (h *DocumentHandler) recordAudit(c echo.Context, action, targetID, detail string) {
	actor := ctxActor(c)
	entry := domain.AuditEntry{Action: action, TargetID: targetID, Detail: detail}
	if actor != nil {
		entry.Actor = actor.ID
		entry.ActorName = actor.Name
	}
	h.audit.Enqueue(entry)
}
