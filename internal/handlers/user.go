package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/dto"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// UserHandler serves the caller's profile and user lookups.
type UserHandler struct {
	authService   *services.AuthService
	familyService *services.FamilyService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, familyService *services.FamilyService) *UserHandler {
	return &UserHandler{
		authService:   authService,
		familyService: familyService,
	}
}

// GetProfile returns the caller's profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToUserDTO(*user), "")
}

// UpdateProfile changes the caller's name and phone.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateProfileRequest struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.authService.UpdateProfile(c.Request.Context(), user, services.UpdateProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToUserDTO(*updated), "Profile updated")
}

// GetByPhone looks a user up by phone number.
func (h *UserHandler) GetByPhone(c *gin.Context) {
	user, err := h.authService.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToUserDTO(*user), "")
}

// FamilyMembers lists the members of the caller's family.
func (h *UserHandler) FamilyMembers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	members, err := h.familyService.ListMyFamilyMembers(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToFamilyMemberDTOs(members), "")
}
