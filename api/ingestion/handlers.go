package ingestion

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"FloraCorpSaas/api"
	"FloraCorpSaas/api/constants"
	"FloraCorpSaas/internal/checksum"
)

const maxUploadBytes = 32 << 20

// UploadHandler ingests one uploaded spreadsheet under the dialect named in
// the form. The response always carries whatever report was produced, even
// for partial failures, so the caller can see how far the run got.
func UploadHandler(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}

		dialectName := r.FormValue("dialect")
		if _, ok := DialectByName(dialectName); !ok {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnknownDialect)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingFile)
			return
		}
		defer file.Close()

		// grid readers work from paths, so spool the upload to a temp file
		tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		defer os.Remove(tmp.Name())
		if _, err := io.Copy(tmp, file); err != nil {
			tmp.Close()
			api.RespondWithError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		tmp.Close()

		// optional client-side digest check before anything is parsed
		if expected := r.FormValue("sha256"); expected != "" {
			data, err := os.ReadFile(tmp.Name())
			if err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, "could not store upload")
				return
			}
			ok, err := checksum.NewMatcher(expected).Match(data)
			if err != nil || !ok {
				api.RespondWithError(w, http.StatusBadRequest, "file digest does not match sha256 form field")
				return
			}
		}

		report, err := p.Ingest(r.Context(), tmp.Name(), dialectName)
		if report != nil {
			report.SourceFile = header.Filename
		}
		if err != nil {
			status, msg := userFriendlyUploadError(err)
			api.LogError("upload %s (%s): %v", header.Filename, dialectName, err)
			w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
			w.WriteHeader(status)
			api.RespondWithPayload(w, false, msg, report)
			return
		}
		api.RespondWithPayload(w, true, "", report)
	}
}

// MarginReportHandler recomputes the store-wide margin summary on demand.
func MarginReportHandler(store *PgOrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facts, err := store.LineFacts(r.Context())
		if err != nil {
			status, msg := userFriendlyUploadError(err)
			api.RespondWithError(w, status, msg)
			return
		}
		m := ImputeMargin(facts)
		api.RespondWithPayload(w, true, "", m)
	}
}

// DialectsHandler lists the dialect names an upload may claim.
func DialectsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithPayload(w, true, "", DialectNames())
	}
}

// userFriendlyUploadError maps pipeline errors to an HTTP status and a
// message safe to show an operator.
func userFriendlyUploadError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTableNotFound):
		return http.StatusUnprocessableEntity, "No recognizable table found in the file. Check that the right dialect was selected and the sheet has its header row."
	case errors.Is(err, ErrKeyColumnNotFound):
		return http.StatusUnprocessableEntity, "The header row was found but no business key column could be identified."
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "Database unavailable; the upload was aborted. Already-written orders are safe to re-upload."
	default:
		return http.StatusInternalServerError, constants.ErrDB
	}
}
