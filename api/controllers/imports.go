package controllers

import (
	"net/http"

	"github.com/angelmondragon/ayurcart-backend/api/responses"
	"github.com/angelmondragon/ayurcart-backend/internal/imports"
	pkgerrors "github.com/angelmondragon/ayurcart-backend/pkg/errors"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
)

// ImportSpreadsheet accepts an .xlsx upload in the "file" field and upserts its rows
// into the given resource. A report with at least one valid row is a 201 even when
// other rows failed.
func ImportSpreadsheet(svc imports.Service, resourceName string, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "import service unavailable"))
			return
		}
		if logg != nil {
			ctx = logg.WithResource(ctx, resourceName)
		}

		file, _, err := formFile(w, r, "file", maxBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		defer file.Close()

		report, err := svc.Import(ctx, resourceName, file)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, report)
	}
}
