package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/twill-app/twill-api/internal/service"
	appErrors "github.com/twill-app/twill-api/pkg/errors"
	"github.com/twill-app/twill-api/pkg/response"
)

// ExportHandler serves attendance statistics as downloadable files.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export attendance statistics
// @Description Download the stats table as CSV or PDF
// @Tags Schedule
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /stats/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	var (
		payload     []byte
		filename    string
		contentType string
		err         error
	)
	switch format {
	case "csv":
		payload, filename, err = h.service.StatsCSV(c.Request.Context(), claims.UserID)
		contentType = "text/csv"
	case "pdf":
		payload, filename, err = h.service.StatsPDF(c.Request.Context(), claims.UserID)
		contentType = "application/pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, payload)
}
