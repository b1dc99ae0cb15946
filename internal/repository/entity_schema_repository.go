package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rpattn/restql/internal/domain"
)

// entitySchemaRepository implements EntitySchemaRepository interface
type entitySchemaRepository struct {
	pool *pgxpool.Pool
}

// NewEntitySchemaRepository creates a new entity schema repository
func NewEntitySchemaRepository(pool *pgxpool.Pool) EntitySchemaRepository {
	return &entitySchemaRepository{pool: pool}
}

// Create persists a new schema definition
func (r *entitySchemaRepository) Create(ctx context.Context, schema domain.EntitySchema) (domain.EntitySchema, error) {
	fieldsJSON, err := json.Marshal(schema.Fields)
	if err != nil {
		return domain.EntitySchema{}, fmt.Errorf("failed to marshal schema fields: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO entity_schemas (id, name, description, fields)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, fields, created_at, updated_at`,
		schema.ID, schema.Name, schema.Description, fieldsJSON,
	)
	created, err := scanSchema(row)
	if err != nil {
		return domain.EntitySchema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return created, nil
}

// GetByName retrieves a schema by its entity type name
func (r *entitySchemaRepository) GetByName(ctx context.Context, name string) (domain.EntitySchema, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, description, fields, created_at, updated_at
		FROM entity_schemas WHERE name = $1`, name,
	)
	schema, err := scanSchema(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.EntitySchema{}, ErrNotFound
	}
	if err != nil {
		return domain.EntitySchema{}, fmt.Errorf("failed to get schema: %w", err)
	}
	return schema, nil
}

// List retrieves all schema definitions
func (r *entitySchemaRepository) List(ctx context.Context) ([]domain.EntitySchema, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, fields, created_at, updated_at
		FROM entity_schemas ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer rows.Close()

	var schemas []domain.EntitySchema
	for rows.Next() {
		schema, err := scanSchema(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schema: %w", err)
		}
		schemas = append(schemas, schema)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema rows: %w", err)
	}
	return schemas, nil
}

// Delete removes a schema definition
func (r *entitySchemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM entity_schemas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSchema(row pgx.Row) (domain.EntitySchema, error) {
	var schema domain.EntitySchema
	var fieldsJSON []byte
	if err := row.Scan(&schema.ID, &schema.Name, &schema.Description, &fieldsJSON, &schema.CreatedAt, &schema.UpdatedAt); err != nil {
		return domain.EntitySchema{}, err
	}
	if err := json.Unmarshal(fieldsJSON, &schema.Fields); err != nil {
		return domain.EntitySchema{}, fmt.Errorf("failed to unmarshal schema fields: %w", err)
	}
	return schema, nil
}
