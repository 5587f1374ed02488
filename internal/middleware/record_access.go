package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/family-ledger-api/internal/constants"
	apierrors "github.com/yukikurage/family-ledger-api/internal/errors"
	"github.com/yukikurage/family-ledger-api/internal/models"
	"github.com/yukikurage/family-ledger-api/internal/services"
)

// RequireRecordAccess loads the record named by the :id parameter and checks
// the caller may see it. Whether the caller may modify it is decided by the service.
func RequireRecordAccess(recordService *services.RecordService) gin.HandlerFunc {
	return func(c *gin.Context) {
		recordID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid record ID")
			c.Abort()
			return
		}

		user, ok := GetCurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		record, err := recordService.GetRecord(c.Request.Context(), user, recordID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(constants.ContextKeyRecord, record)
		c.Next()
	}
}

// GetRecord retrieves the record loaded by RequireRecordAccess
func GetRecord(c *gin.Context) (*models.AccountRecord, bool) {
	value, exists := c.Get(constants.ContextKeyRecord)
	if !exists {
		return nil, false
	}
	record, ok := value.(*models.AccountRecord)
	return record, ok && record != nil
}
