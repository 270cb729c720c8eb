package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/ayurcart-backend/api/responses"
	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/internal/resource"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/angelmondragon/ayurcart-backend/pkg/types"
)

// ResourceRead serves both single reads (id in path or ?id=) and paginated lists.
func ResourceRead(reg *resource.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ctx, ok := lookupResource(w, r, reg, logg)
		if !ok {
			return
		}

		if raw := idParam(r); raw != "" {
			id, err := validators.ParseID("id", raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			record, err := res.Get(ctx, id)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			responses.WriteSuccess(w, record)
			return
		}

		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		query := resource.ListQuery{
			Page:    params,
			Filters: map[string]string{},
			Search:  validators.SanitizeString(r.URL.Query().Get("search"), 120),
		}
		for _, param := range res.FilterParams() {
			if v := strings.TrimSpace(r.URL.Query().Get(param)); v != "" {
				query.Filters[param] = v
			}
		}

		list, err := res.List(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ResourceCreate(reg *resource.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ctx, ok := lookupResource(w, r, reg, logg)
		if !ok {
			return
		}

		body, err := validators.DecodeJSONMap(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := res.Create(ctx, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, record)
	}
}

// ResourceUpdate handles PUT and PATCH; both apply only the fields supplied.
func ResourceUpdate(reg *resource.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ctx, ok := lookupResource(w, r, reg, logg)
		if !ok {
			return
		}

		body, err := validators.DecodeJSONMap(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := validators.ParseID("id", idFrom(r, body))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		record, err := res.Update(ctx, id, body)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

func ResourceDelete(reg *resource.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, ctx, ok := lookupResource(w, r, reg, logg)
		if !ok {
			return
		}

		var body map[string]any
		if idParam(r) == "" {
			decoded, err := validators.DecodeJSONMap(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			body = decoded
		}
		id, err := validators.ParseID("id", idFrom(r, body))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := res.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, types.DeleteResult{ID: id, Deleted: true})
	}
}

// ResourceIndex lists the registered admin resources for the back-office menu.
func ResourceIndex(reg *resource.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type entry struct {
			Name    string   `json:"name"`
			Label   string   `json:"label"`
			Filters []string `json:"filters"`
		}
		all := reg.All()
		out := make([]entry, 0, len(all))
		for _, res := range all {
			out = append(out, entry{Name: res.Name(), Label: res.Label(), Filters: res.FilterParams()})
		}
		responses.WriteSuccess(w, out)
	}
}

func lookupResource(w http.ResponseWriter, r *http.Request, reg *resource.Registry, logg *logger.Logger) (resource.Resource, context.Context, bool) {
	ctx := r.Context()
	name := chi.URLParam(r, "resource")
	if reg == nil {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin registry unavailable"))
		return nil, ctx, false
	}
	res, ok := reg.Lookup(name)
	if !ok {
		responses.WriteError(ctx, logg, w, pkgerrors.Newf(pkgerrors.CodeNotFound, "unknown resource %q", name))
		return nil, ctx, false
	}
	if logg != nil {
		ctx = logg.WithResource(ctx, res.Name())
	}
	return res, ctx, true
}

func idParam(r *http.Request) string {
	if id := strings.TrimSpace(chi.URLParam(r, "id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get("id"))
}

// idFrom resolves the record id from path, query, then body.
func idFrom(r *http.Request, body map[string]any) string {
	if id := idParam(r); id != "" {
		return id
	}
	if raw, ok := body["id"]; ok && raw != nil {
		return strings.TrimSpace(fmt.Sprint(raw))
	}
	return ""
}
