package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"farmmap-backend/internal/models"
)

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC(),
	})
}
