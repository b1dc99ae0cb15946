// Package export renders sorted entity listings as XLSX workbooks.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/rpattn/restql/internal/domain"
	"github.com/rpattn/restql/internal/metadata"
	"github.com/rpattn/restql/internal/repository"
)

const defaultPageSize = 1000

// Service streams entity listings into spreadsheet form, paging through the
// repository with the caller's (already translated) sort so row order matches
// the API listing.
type Service struct {
	entities repository.EntityRepository
	registry *metadata.Registry
	pageSize int
}

// Option configures the service.
type Option func(*Service)

// WithPageSize sets the repository page size used while streaming rows.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// NewService creates an export service.
func NewService(entities repository.EntityRepository, registry *metadata.Registry, opts ...Option) *Service {
	service := &Service{
		entities: entities,
		registry: registry,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// WriteXLSX writes all entities of entityType, ordered by sort, as an XLSX
// workbook. Columns are the schema's internal property names plus the fixed
// id and timestamp columns.
func (s *Service) WriteXLSX(ctx context.Context, w io.Writer, entityType string, sort *domain.Sort) error {
	schema, ok := s.registry.Get(entityType)
	if !ok {
		return fmt.Errorf("unknown entity type %q", entityType)
	}

	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)

	headers := make([]any, 0, len(schema.Fields)+3)
	headers = append(headers, "id")
	for _, field := range schema.Fields {
		headers = append(headers, field.Name)
	}
	headers = append(headers, "created_at", "updated_at")
	if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	filter := &domain.EntityFilter{EntityType: entityType}
	rowIndex := 2
	for offset := 0; ; offset += s.pageSize {
		entities, total, err := s.entities.List(ctx, filter, sort, s.pageSize, offset)
		if err != nil {
			return fmt.Errorf("failed to list entities for export: %w", err)
		}
		for _, entity := range entities {
			row := make([]any, 0, len(headers))
			row = append(row, entity.ID.String())
			for _, field := range schema.Fields {
				row = append(row, cellValue(entity.Properties[field.Name]))
			}
			row = append(row, entity.CreatedAt, entity.UpdatedAt)

			cell, err := excelize.CoordinatesToCellName(1, rowIndex)
			if err != nil {
				return fmt.Errorf("failed to compute cell name: %w", err)
			}
			if err := file.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIndex, err)
			}
			rowIndex++
		}
		if len(entities) < s.pageSize || offset+len(entities) >= total {
			break
		}
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue flattens composite property values to JSON text so nested
// sub-objects stay readable in a single cell.
func cellValue(value any) any {
	switch value.(type) {
	case nil:
		return ""
	case map[string]any, []any:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(encoded)
	default:
		return value
	}
}
