package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmap-backend/internal/models"
	"farmmap-backend/internal/repository"
)

type ExportHandler struct {
	records repository.Records
}

func NewExportHandler(records repository.Records) *ExportHandler {
	return &ExportHandler{records: records}
}

// Export streams the current record set as a downloadable JSON or CSV
// artifact, generated entirely from the listed records.
func (h *ExportHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	records, err := h.records.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list plants",
			Message: err.Error(),
		})
		return
	}

	switch format {
	case "json":
		payload, err := repository.ExportJSON(records)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to export records",
				Message: err.Error(),
			})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="plants.json"`)
		c.Data(http.StatusOK, "application/json", []byte(payload))
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="plants.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(repository.ExportCSV(records)))
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "unsupported export format",
			Message: "format must be json or csv",
		})
	}
}
