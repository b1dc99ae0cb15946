package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/restql/internal/domain"
)

// entityRepository implements EntityRepository interface
type entityRepository struct {
	pool    *pgxpool.Pool
	publish domain.EventPublisher
}

// EntityRepositoryOption configures the repository.
type EntityRepositoryOption func(*entityRepository)

// WithEventPublisher delivers repository lifecycle events to pub.
func WithEventPublisher(pub domain.EventPublisher) EntityRepositoryOption {
	return func(r *entityRepository) {
		r.publish = pub
	}
}

// NewEntityRepository creates a new entity repository
func NewEntityRepository(pool *pgxpool.Pool, opts ...EntityRepositoryOption) EntityRepository {
	repo := &entityRepository{pool: pool}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

func (r *entityRepository) emit(event any) {
	if r.publish != nil {
		r.publish(event)
	}
}

// Create creates a new entity
func (r *entityRepository) Create(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	propertiesJSON, err := json.Marshal(entity.Properties)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("failed to marshal properties: %w", err)
	}

	r.emit(domain.BeforeSaveEvent{Entity: entity})

	row := r.pool.QueryRow(ctx, `
		INSERT INTO entities (id, entity_type, properties)
		VALUES ($1, $2, $3)
		RETURNING id, entity_type, properties, created_at, updated_at`,
		entity.ID, entity.EntityType, propertiesJSON,
	)
	created, err := scanEntity(row)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("failed to create entity: %w", err)
	}

	r.emit(domain.AfterSaveEvent{Entity: created})
	return created, nil
}

// GetByID retrieves an entity by ID
func (r *entityRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Entity, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, entity_type, properties, created_at, updated_at
		FROM entities WHERE id = $1`, id,
	)
	entity, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entity{}, ErrNotFound
	}
	if err != nil {
		return domain.Entity{}, fmt.Errorf("failed to get entity: %w", err)
	}
	return entity, nil
}

// List retrieves a page of entities matching the filter, ordered by the
// translated sort.
func (r *entityRepository) List(ctx context.Context, filter *domain.EntityFilter, sort *domain.Sort, limit int, offset int) ([]domain.Entity, int, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`
		SELECT id, entity_type, properties, created_at, updated_at, COUNT(*) OVER() AS total_count
		FROM entities
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		where, buildOrderBy(sort), len(args)+1, len(args)+2,
	)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.Entity
	totalCount := 0
	for rows.Next() {
		var entity domain.Entity
		var propertiesJSON []byte
		if err := rows.Scan(&entity.ID, &entity.EntityType, &propertiesJSON, &entity.CreatedAt, &entity.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan entity: %w", err)
		}
		if err := json.Unmarshal(propertiesJSON, &entity.Properties); err != nil {
			return nil, 0, fmt.Errorf("failed to unmarshal properties: %w", err)
		}
		entities = append(entities, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read entity rows: %w", err)
	}

	return entities, totalCount, nil
}

// Update replaces an entity's type and properties
func (r *entityRepository) Update(ctx context.Context, entity domain.Entity) (domain.Entity, error) {
	propertiesJSON, err := json.Marshal(entity.Properties)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("failed to marshal properties: %w", err)
	}

	r.emit(domain.BeforeSaveEvent{Entity: entity})

	row := r.pool.QueryRow(ctx, `
		UPDATE entities
		SET entity_type = $2, properties = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, entity_type, properties, created_at, updated_at`,
		entity.ID, entity.EntityType, propertiesJSON,
	)
	updated, err := scanEntity(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Entity{}, ErrNotFound
	}
	if err != nil {
		return domain.Entity{}, fmt.Errorf("failed to update entity: %w", err)
	}

	r.emit(domain.AfterSaveEvent{Entity: updated})
	return updated, nil
}

// Delete removes an entity
func (r *entityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	r.emit(domain.AfterDeleteEvent{EntityID: id})
	return nil
}

func scanEntity(row pgx.Row) (domain.Entity, error) {
	var entity domain.Entity
	var propertiesJSON []byte
	if err := row.Scan(&entity.ID, &entity.EntityType, &propertiesJSON, &entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return domain.Entity{}, err
	}
	if err := json.Unmarshal(propertiesJSON, &entity.Properties); err != nil {
		return domain.Entity{}, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	return entity, nil
}

func buildWhere(filter *domain.EntityFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}
	var clauses []string
	var args []any
	if filter.EntityType != "" {
		args = append(args, filter.EntityType)
		clauses = append(clauses, fmt.Sprintf("entity_type = $%d", len(args)))
	}
	for _, pf := range filter.PropertyFilters {
		args = append(args, pf.Value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", propertyExpr(pf.Key), len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// buildOrderBy renders an ORDER BY clause from a translated sort. Property
// paths here are canonical internal names produced by the translator from
// registered schemas, never raw client input; they are rendered into the
// statement because JSONB path extraction cannot be parameterized. A stable
// id tiebreak keeps pagination deterministic.
func buildOrderBy(sort *domain.Sort) string {
	if sort == nil || len(sort.Orders) == 0 {
		return "ORDER BY created_at DESC, id"
	}

	expressions := make([]string, 0, len(sort.Orders)+1)
	for _, order := range sort.Orders {
		expression := propertyExpr(order.Property)
		if order.IgnoreCase {
			expression = "lower(" + expression + ")"
		}
		if order.IsDescending() {
			expression += " DESC"
		} else {
			expression += " ASC"
		}
		switch order.NullHandling {
		case domain.NullHandlingNullsFirst:
			expression += " NULLS FIRST"
		case domain.NullHandlingNullsLast:
			expression += " NULLS LAST"
		}
		expressions = append(expressions, expression)
	}
	expressions = append(expressions, "id")

	return "ORDER BY " + strings.Join(expressions, ", ")
}

// propertyExpr renders a dotted internal path as a JSONB text extraction.
func propertyExpr(path string) string {
	parts := strings.Split(path, ".")
	for i, part := range parts {
		parts[i] = strings.ReplaceAll(part, "'", "''")
	}
	return fmt.Sprintf("properties #>> '{%s}'", strings.Join(parts, ","))
}
