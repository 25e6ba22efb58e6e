package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
)

// MemberHandler proxies member CRUD to the registry, recording mutations in
// the audit trail and invalidating the dashboard cache.
type MemberHandler struct {
	audit ports.AuditSink
	stats ports.StatsService
}

func NewMemberHandler(audit ports.AuditSink, stats ports.StatsService) *MemberHandler {
	return &MemberHandler{audit: audit, stats: stats}
}

// List returns all members.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Success      200  {array}   domain.Member
// @Failure      401  {object}  errorResponse
// @Router       /api/members [get]
func (h *MemberHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	members, err := sess.Client().ListMembers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// Search runs a free-text member search.
//
// @Summary      Search members
// @Tags         members
// @Produce      json
// @Param        q    query     string  true  "Search text"
// @Success      200  {array}   domain.Member
// @Router       /api/members/search [get]
func (h *MemberHandler) Search(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	members, err := sess.Client().SearchMembers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, members)
}

// Get returns one member record.
//
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  domain.Member
// @Failure      404  {object}  errorResponse
// @Router       /api/members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	member, err := sess.Client().GetMember(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// Create registers a new paper-form member. Duplicate idNumber/email/username
// conflicts come back from the registry with their message intact.
//
// @Summary      Create a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        body  body      domain.Member  true  "Member record"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/members [post]
func (h *MemberHandler) Create(c echo.Context) error {
	var member domain.Member
	if err := c.Bind(&member); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if member.Name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "name is required"})
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := sess.Client().CreateMember(c.Request().Context(), &member); err != nil {
		return err
	}

	h.recordAudit(c, domain.AuditMemberCreated, member.IDNumber, member.Name)
	h.stats.Invalidate(c.Request().Context())

	return c.JSON(http.StatusCreated, messageResponse{Message: "member created"})
}

// Update replaces a member record.
//
// @Summary      Update a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Member ID"
// @Param        body  body      domain.Member  true  "Member record"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/members/{id} [put]
func (h *MemberHandler) Update(c echo.Context) error {
	var member domain.Member
	if err := c.Bind(&member); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := sess.Client().UpdateMember(c.Request().Context(), id, &member); err != nil {
		return err
	}

	h.recordAudit(c, domain.AuditMemberUpdated, id, member.Name)
	h.stats.Invalidate(c.Request().Context())

	return c.JSON(http.StatusOK, messageResponse{Message: "member updated"})
}

// Delete soft-deletes a member.
//
// @Summary      Delete a member
// @Tags         members
// @Produce      json
// @Param        id   path      string  true  "Member ID"
// @Success      200  {object}  messageResponse
// @Router       /api/members/{id} [delete]
func (h *MemberHandler) Delete(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	id := c.Param("id")
	if err := sess.Client().DeleteMember(c.Request().Context(), id); err != nil {
		return err
	}

	h.recordAudit(c, domain.AuditMemberDeleted, id, "")
	h.stats.Invalidate(c.Request().Context())

	return c.JSON(http.StatusOK, messageResponse{Message: "member deleted"})
}

func (h *MemberHandler) recordAudit(c echo.Context, action, targetID, detail string) {
	actor := ctxActor(c)
	entry := domain.AuditEntry{Action: action, TargetID: targetID, Detail: detail}
	if actor != nil {
		entry.Actor = actor.ID
		entry.ActorName = actor.Name
	}
	h.audit.Enqueue(entry)
}
