// Package api exposes the REST listing surface: collection endpoints whose
// sort parameters are translated from serialized field names to internal
// property paths before query execution.
package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rpattn/restql/internal/domain"
	"github.com/rpattn/restql/internal/export"
	"github.com/rpattn/restql/internal/metadata"
	"github.com/rpattn/restql/internal/repository"
	"github.com/rpattn/restql/internal/translator"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Handler serves schema and collection endpoints:
//
//	GET /schemas                 registered schema definitions
//	GET /{collection}            paged entity listing, ?sort=field,desc
//	GET /{collection}/export     XLSX download of the sorted listing
type Handler struct {
	registry *metadata.Registry
	resolver *metadata.PathTypeResolver
	sorts    *translator.RequestTranslator
	entities repository.EntityRepository
	exporter *export.Service
	logger   *zap.Logger
}

// NewHandler wires the listing surface.
func NewHandler(registry *metadata.Registry, entities repository.EntityRepository, exporter *export.Service, logger *zap.Logger) *Handler {
	resolver := metadata.NewPathTypeResolver(registry)
	return &Handler{
		registry: registry,
		resolver: resolver,
		sorts:    translator.NewRequestTranslator(resolver, registry),
		entities: entities,
		exporter: exporter,
		logger:   logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch {
	case r.URL.Path == "/schemas":
		h.handleListSchemas(w, r)
	case strings.HasSuffix(r.URL.Path, "/export"):
		h.handleExport(w, r)
	default:
		h.handleList(w, r)
	}
}

func (h *Handler) handleListSchemas(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.Names()
	sort.Strings(names)

	schemas := make([]domain.EntitySchema, 0, len(names))
	for _, name := range names {
		if schema, ok := h.registry.Get(name); ok {
			schemas = append(schemas, schema)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"schemas": schemas})
}

type listResponse struct {
	Items      []domain.Entity `json:"items"`
	TotalCount int             `json:"totalCount"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entityType, ok := h.resolver.Resolve(r)
	if !ok {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	limit := queryInt(r, "limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	requested := domain.ParseSort(r.URL.Query()["sort"])
	translated := h.sorts.Translate(requested, r)

	filter := &domain.EntityFilter{EntityType: entityType}
	items, total, err := h.entities.List(r.Context(), filter, translated, limit, offset)
	if err != nil {
		h.logger.Error("failed to list entities", zap.String("entityType", entityType), zap.Error(err))
		http.Error(w, "failed to list entities", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []domain.Entity{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items:      items,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	entityType, ok := h.resolver.Resolve(r)
	if !ok {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	requested := domain.ParseSort(r.URL.Query()["sort"])
	translated := h.sorts.Translate(requested, r)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+metadata.CollectionPath(entityType)+`.xlsx"`)

	if err := h.exporter.WriteXLSX(r.Context(), w, entityType, translated); err != nil {
		h.logger.Error("failed to export entities", zap.String("entityType", entityType), zap.Error(err))
		// Headers are already written; nothing sensible left to send.
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
