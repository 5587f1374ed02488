package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yukikurage/family-ledger-api/internal/dto"
	apierrors "github.com/yukikurage/family-ledger-api/internal/errors"
	"github.com/yukikurage/family-ledger-api/internal/middleware"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/services"
	"github.com/yukikurage/family-ledger-api/internal/utils"
)

// RecordHandler serves income and expense records.
type RecordHandler struct {
	recordService *services.RecordService
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(recordService *services.RecordService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
	}
}

// CreateRecord records a transaction in the caller's family.
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateRecordRequest struct {
		FamilyID *uint64           `json:"family_id"`
		Type     models.RecordType `json:"type" binding:"required"`
		Category string            `json:"category" binding:"required"`
		Amount   decimal.Decimal   `json:"amount"`
		Note     string            `json:"note"`
		Date     string            `json:"date"`
	}

	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	date, err := optionalDate(req.Date, false)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	record, err := h.recordService.CreateRecord(c.Request.Context(), user, services.CreateRecordInput{
		FamilyID: req.FamilyID,
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
		Date:     date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, dto.ToRecordDTO(*record), "Record created")
}

// ListRecords lists the caller's family records, newest first.
// Filters: family_id, record_type, category (repeatable), start_date, end_date, page, size.
func (h *RecordHandler) ListRecords(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	familyID, ok := optionalIDQuery(c, "family_id")
	if !ok {
		return
	}

	startDate, err := optionalDate(c.Query("start_date"), false)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	endDate, err := optionalDate(c.Query("end_date"), true)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	params := utils.GetPaginationParams(c)

	records, total, err := h.recordService.ListRecords(c.Request.Context(), user, services.ListRecordsInput{
		FamilyID:   familyID,
		Type:       optionalRecordType(c.Query("record_type")),
		Categories: c.QueryArray("category"),
		StartDate:  startDate,
		EndDate:    endDate,
		Page:       params.Page,
		PageSize:   params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.RecordListResponse{
		Records: dto.ToRecordDTOs(records),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Size:  params.Limit,
			Total: total,
		},
	}, "")
}

// GetRecord returns the record loaded by RequireRecordAccess.
func (h *RecordHandler) GetRecord(c *gin.Context) {
	record, ok := middleware.GetRecord(c)
	if !ok {
		apierrors.InternalError(c, "Record not found in context")
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToRecordDTO(*record), "")
}

// UpdateRecord modifies the record loaded by RequireRecordAccess.
func (h *RecordHandler) UpdateRecord(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	record, ok := middleware.GetRecord(c)
	if !ok {
		apierrors.InternalError(c, "Record not found in context")
		return
	}

	type UpdateRecordRequest struct {
		Type     *models.RecordType `json:"type"`
		Category *string            `json:"category"`
		Amount   *decimal.Decimal   `json:"amount"`
		Note     *string            `json:"note"`
		Date     *string            `json:"date"`
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	input := services.UpdateRecordInput{
		Type:     req.Type,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date, false)
		if err != nil {
			apierrors.BadRequest(c, err.Error())
			return
		}
		input.Date = &date
	}

	updated, err := h.recordService.UpdateRecord(c.Request.Context(), user, record, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, dto.ToRecordDTO(*updated), "Record updated")
}

// DeleteRecord removes the record loaded by RequireRecordAccess.
func (h *RecordHandler) DeleteRecord(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	record, ok := middleware.GetRecord(c)
	if !ok {
		apierrors.InternalError(c, "Record not found in context")
		return
	}

	if err := h.recordService.DeleteRecord(c.Request.Context(), user, record); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, "Record deleted")
}
