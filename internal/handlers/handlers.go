package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

// ListingService is the service surface the handlers run on.
type ListingService interface {
	List(ctx context.Context, entity string, req *query.ListRequest) (*query.Result, error)
	Export(ctx context.Context, entity string, req *query.ListRequest) (*excelize.File, error)
}

type Handler struct {
	listSrv ListingService
}

func New(listSrv ListingService) *Handler {
	return &Handler{listSrv: listSrv}
}

// RegisterRoutes mounts the listing operations on the API group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/:entity", h.List)
	router.POST("/:entity/search", h.Search)
	router.GET("/:entity/export", h.Export)
}
