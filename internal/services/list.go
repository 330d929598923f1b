package services

import (
	"context"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/andrewsinnovations/apialize-sub000/internal/catalog"
	"github.com/andrewsinnovations/apialize-sub000/internal/config"
	"github.com/andrewsinnovations/apialize-sub000/internal/store"
	srvErrors "github.com/andrewsinnovations/apialize-sub000/pkg/errors"
	"github.com/andrewsinnovations/apialize-sub000/pkg/query"
)

// ListService answers listing requests for every cataloged entity:
// compile, execute, project, and optionally render to a spreadsheet.
type ListService struct {
	catalog   *catalog.Catalog
	assembler *query.Assembler
	listing   config.Listing
	logger    *zap.SugaredLogger
}

func NewListService(cat *catalog.Catalog, st *store.Store, listing config.Listing) *ListService {
	compiler := query.NewCompiler(cat, cat.Mappings())
	projector := query.NewProjector(st.Lookups(), cat.Mappings())
	return &ListService{
		catalog:   cat,
		assembler: query.NewAssembler(compiler, st.Dialect(), st.Executor(), projector),
		listing:   listing,
		logger:    zap.S().Named("list_service"),
	}
}

// List runs one listing request against the named entity.
func (s *ListService) List(ctx context.Context, entity string, req *query.ListRequest) (*query.Result, error) {
	ent, err := s.catalog.Entity(entity)
	if err != nil {
		return nil, err
	}
	return s.assembler.List(ctx, req, s.options(ent))
}

// Export runs the same listing and renders the projected rows into a
// single-sheet workbook, scalar columns only.
func (s *ListService) Export(ctx context.Context, entity string, req *query.ListRequest) (*excelize.File, error) {
	ent, err := s.catalog.Entity(entity)
	if err != nil {
		return nil, err
	}

	result, err := s.assembler.List(ctx, req, s.options(ent))
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	headers := exportHeaders(ent)

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, srvErrors.NewExportError(entity, err)
		}
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return nil, srvErrors.NewExportError(entity, err)
		}
	}

	for r, row := range result.Rows {
		for i, header := range headers {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return nil, srvErrors.NewExportError(entity, err)
			}
			if err := file.SetCellValue(sheet, cell, row[header]); err != nil {
				return nil, srvErrors.NewExportError(entity, err)
			}
		}
	}

	s.logger.Debugw("exported listing", "entity", entity, "rows", len(result.Rows))
	return file, nil
}

func (s *ListService) options(ent *catalog.Entity) query.ListOptions {
	return query.ListOptions{
		Schema:        ent.Schema,
		Includes:      ent.Includes,
		FilterPolicy:  ent.FilterPolicy,
		OrderPolicy:   ent.OrderPolicy,
		OrderDefaults: ent.OrderDefaults,
		PageDefaults: query.PageDefaults{
			DefaultSize:    s.listing.DefaultPageSize,
			MaxSize:        s.listing.MaxPageSize,
			EntityOverride: ent.PageSize,
		},
		Projection: ent.Projection,
	}
}

// exportHeaders lists the entity's scalar columns in declaration
// order, with the surrogate key shown under its public name.
func exportHeaders(ent *catalog.Entity) []string {
	headers := make([]string, 0, len(ent.Schema.Columns))
	for _, c := range ent.Schema.Columns {
		name := c.Name
		if ent.Projection != nil && name == ent.Projection.IDColumn {
			name = "id"
		}
		headers = append(headers, name)
	}
	return headers
}
