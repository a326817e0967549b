// Copyright 2026 The Ledgerline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerline/ledgerline/internal/observability/logger"
	"github.com/ledgerline/ledgerline/internal/store/mongodb"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxPage bounds the page number so the skip arithmetic in Find can
	// never overflow into a negative offset.
	maxPage = 1 << 20
)

// ListEntity returns a paginated listing handler over one entity
// collection of the resolved tenant's handle.
func (h *Handler) ListEntity(collection func(*mongodb.Handle) *mongo.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := GetHandle(r.Context())
		if handle == nil {
			respondError(w, http.StatusInternalServerError, "tenant not resolved")
			return
		}

		page, perPage := pagination(r)
		col := collection(handle)

		cursor, err := col.Find(r.Context(), bson.D{},
			options.Find().
				SetSort(bson.D{{Key: "created_at", Value: -1}}).
				SetSkip((page-1)*perPage).
				SetLimit(perPage),
		)
		if err != nil {
			slog.ErrorContext(r.Context(), "entity listing failed",
				logger.TenantID(GetTenantID(r.Context())),
				logger.Operation("list_"+col.Name()),
				logger.Error(err),
			)
			respondError(w, http.StatusInternalServerError, "failed to list records")
			return
		}

		docs := []bson.M{}
		if err := cursor.All(r.Context(), &docs); err != nil {
			respondError(w, http.StatusInternalServerError, "failed to read records")
			return
		}

		respondOK(w, "", map[string]any{
			"items":   docs,
			"page":    page,
			"perPage": perPage,
		})
	}
}

// ListSettings returns every setting record of the resolved tenant.
// @Summary List settings
// @Description Returns the resolved tenant's configuration records
// @Tags Entities
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID"
// @Success 200 {object} response
// @Security BearerAuth
// @Router /api/settings [get]
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	handle := GetHandle(r.Context())
	if handle == nil {
		respondError(w, http.StatusInternalServerError, "tenant not resolved")
		return
	}

	cursor, err := handle.Settings().Find(r.Context(), bson.D{},
		options.Find().SetSort(bson.D{{Key: "key", Value: 1}}),
	)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list settings")
		return
	}

	docs := []bson.M{}
	if err := cursor.All(r.Context(), &docs); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read settings")
		return
	}

	respondOK(w, "", map[string]any{"items": docs})
}

func pagination(r *http.Request) (page, perPage int64) {
	page = 1
	perPage = defaultPageSize

	if v, err := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64); err == nil && v > 0 {
		page = min(v, maxPage)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("items"), 10, 64); err == nil && v > 0 {
		perPage = min(v, maxPageSize)
	}
	return page, perPage
}
