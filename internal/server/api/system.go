package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facturio/facturio/internal/build"
)

func NewSystemHandlers() *SystemHandlers {
	return &SystemHandlers{}
}

type SystemHandlers struct{}

// Health is the liveness endpoint. No authentication, no tenant.
func (h *SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": build.Version,
	})
}

// Version returns the full build information.
func (h *SystemHandlers) Version(c *gin.Context) {
	c.JSON(http.StatusOK, build.GetBuildInfo())
}
