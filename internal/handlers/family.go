package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/dto"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// FamilyHandler serves families, memberships and family statistics.
type FamilyHandler struct {
	familyService     *services.FamilyService
	statisticsService *services.StatisticsService
}

// NewFamilyHandler creates a new FamilyHandler.
func NewFamilyHandler(familyService *services.FamilyService, statisticsService *services.StatisticsService) *FamilyHandler {
	return &FamilyHandler{
		familyService:     familyService,
		statisticsService: statisticsService,
	}
}

// CreateFamily creates a family with the caller as its admin.
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateFamilyRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), user, services.CreateFamilyInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, dto.ToFamilyDTO(*family), "Family created")
}

// QuickCreateFamily creates a family named after the caller.
func (h *FamilyHandler) QuickCreateFamily(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	family, err := h.familyService.QuickCreateFamily(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, dto.ToFamilyDTO(*family), "Family created")
}

// MyFamily returns the caller's family and its members.
func (h *FamilyHandler) MyFamily(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	family, members, err := h.familyService.MyFamily(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToFamilyDetailDTO(*family, members), "")
}

// GetFamily returns a family the caller belongs to.
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	family, members, err := h.familyService.GetFamily(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToFamilyDetailDTO(*family, members), "")
}

// UpdateFamily changes a family's name or description.
func (h *FamilyHandler) UpdateFamily(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "family_id")
	if !ok {
		return
	}

	type UpdateFamilyRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	family, err := h.familyService.UpdateFamily(c.Request.Context(), user, id, services.UpdateFamilyInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToFamilyDTO(*family), "Family updated")
}

// AddMember adds a user to the admin's family by user_id or phone.
func (h *FamilyHandler) AddMember(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type AddMemberRequest struct {
		FamilyID *uint64     `json:"family_id"`
		UserID   uint64      `json:"user_id"`
		Phone    string      `json:"phone"`
		Role     models.Role `json:"role"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.familyService.AddMember(c.Request.Context(), user, services.AddMemberInput{
		FamilyID: req.FamilyID,
		UserID:   req.UserID,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, dto.ToFamilyMemberDTO(*member), "Member added")
}

// RemoveMember deactivates a membership.
func (h *FamilyHandler) RemoveMember(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "member_id")
	if !ok {
		return
	}

	if err := h.familyService.RemoveMember(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Member removed")
}

// CleanupMembers hard deletes inactive memberships of test accounts.
func (h *FamilyHandler) CleanupMembers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	deleted, err := h.familyService.CleanupTestMembers(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, gin.H{"deleted": deleted}, "Inactive test members cleaned up")
}

// Statistics returns the statistics of the caller's family. System admins may
// pass family_id.
func (h *FamilyHandler) Statistics(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	familyID, ok := optionalIDQuery(c, "family_id")
	if !ok {
		return
	}

	stats, err := h.statisticsService.Statistics(c.Request.Context(), user, familyID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToStatisticsDTO(*stats), "")
}
