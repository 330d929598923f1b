package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/andrewsinnovations/apialize-sub000/api/v1"
	srvErrors "github.com/andrewsinnovations/apialize-sub000/pkg/errors"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.document"

// List answers query-string mode listings.
// (GET /{entity})
func (h *Handler) List(c *gin.Context) {
	req, err := query.ParseQuery(c.Request.URL.Query())
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.respond(c, c.Param("entity"), req)
}

// Search answers body mode listings.
// (POST /{entity}/search)
func (h *Handler) Search(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.renderError(c, query.NewMalformedSpecError("unreadable request body"))
		return
	}

	req, err := query.ParseBody(body)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.respond(c, c.Param("entity"), req)
}

// Export streams the listing as a spreadsheet.
// (GET /{entity}/export)
func (h *Handler) Export(c *gin.Context) {
	entity := c.Param("entity")

	req, err := query.ParseQuery(c.Request.URL.Query())
	if err != nil {
		h.renderError(c, err)
		return
	}

	file, err := h.listSrv.Export(c.Request.Context(), entity, req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entity+".xlsx"))
	c.Status(http.StatusOK)
	if err := file.Write(c.Writer); err != nil {
		zap.S().Named("listing_handler").Errorw("failed to stream export", "entity", entity, "error", err)
	}
}

func (h *Handler) respond(c *gin.Context, entity string, req *query.ListRequest) {
	result, err := h.listSrv.List(c.Request.Context(), entity, req)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.NewListResponse(result, req))
}

// renderError maps errors to the failure envelope. Validation detail
// is logged, never echoed back.
func (h *Handler) renderError(c *gin.Context, err error) {
	logger := zap.S().Named("listing_handler")
	switch {
	case srvErrors.IsUnknownEntityError(err):
		c.JSON(http.StatusNotFound, v1.NewErrorResponse("unknown entity"))
	case query.IsValidationError(err):
		logger.Debugw("rejected listing request", "error", err)
		c.JSON(http.StatusBadRequest, v1.NewErrorResponse("invalid listing request"))
	default:
		logger.Errorw("listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, v1.NewErrorResponse("internal error"))
	}
}
