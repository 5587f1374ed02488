package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/dto"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// AdminHandler serves system administration endpoints. Routes guard every
// handler with RequireSystemAdmin.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// SystemStats returns global counters.
func (h *AdminHandler) SystemStats(c *gin.Context) {
	stats, err := h.adminService.SystemStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToSystemStatsDTO(*stats), "")
}

// FamilyAdmins lists family admins.
func (h *AdminHandler) FamilyAdmins(c *gin.Context) {
	admins, err := h.adminService.ListFamilyAdmins(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToUserDTOs(admins), "")
}

// AddAdmin provisions an account, family admin by default.
func (h *AdminHandler) AddAdmin(c *gin.Context) {
	type AddAdminRequest struct {
		Phone    string      `json:"phone" binding:"required"`
		Name     string      `json:"name" binding:"required"`
		Password string      `json:"password" binding:"required"`
		Role     models.Role `json:"role"`
	}

	var req AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.adminService.AddAdmin(c.Request.Context(), services.AddAdminInput{
		Phone:    req.Phone,
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, dto.ToUserDTO(*user), "Admin added")
}

// RemoveAdmin deletes a family admin with their records and memberships.
func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "admin_id")
	if !ok {
		return
	}

	if err := h.adminService.RemoveAdmin(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Admin removed")
}

// AllFamilies lists every family with summary figures.
func (h *AdminHandler) AllFamilies(c *gin.Context) {
	summaries, err := h.adminService.AllFamilies(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToFamilySummaryDTOs(summaries), "")
}

// SetUserStatus enables or disables an account.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	actor, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type SetUserStatusRequest struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}

	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.adminService.SetUserStatus(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToUserDTO(*user), "User status updated")
}

// ExportData returns a full snapshot of the ledger.
func (h *AdminHandler) ExportData(c *gin.Context) {
	export, err := h.adminService.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToDataExportDTO(*export), "")
}
