package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farmmap-backend/internal/models"
	"farmmap-backend/internal/repository"
)

type PlantsHandler struct {
	records repository.Records
}

func NewPlantsHandler(records repository.Records) *PlantsHandler {
	return &PlantsHandler{records: records}
}

// List returns every stored record in insertion order.
func (h *PlantsHandler) List(c *gin.Context) {
	records, err := h.records.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list plants",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.PlantListResponse{
		Plants: records,
		Count:  len(records),
	})
}

// Update applies a partial update. An absent id is a silent no-op, so the
// response is 204 either way.
func (h *PlantsHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdatePlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	update := models.PlantUpdate{
		DisplayName: req.DisplayName,
		Species:     req.Species,
		Notes:       req.Notes,
	}

	if err := h.records.Update(c.Request.Context(), id, update); err != nil {
		if errors.Is(err, repository.ErrValidation) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "validation failed",
				Message: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to update plant",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes a record. Deleting an absent id succeeds; the operation is
// idempotent by contract.
func (h *PlantsHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.records.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to delete plant",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
