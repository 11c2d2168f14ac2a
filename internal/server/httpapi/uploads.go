package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/useradmin/internal/common"
	"github.com/dmitrijs2005/useradmin/internal/server/attachments"
	"github.com/gorilla/mux"
)

// download serves /uploads/{kind}/{name}. No token is required; the s3
// backend answers with an expiring presigned redirect instead of the bytes.
func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	kind, err := attachments.ParseKind(vars["kind"])
	if err != nil {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	loc, err := s.storage.Locate(r.Context(), kind, vars["name"])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		s.logger.Error(r.Context(), "locate attachment failed", "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if loc.URL != "" {
		http.Redirect(w, r, loc.URL, http.StatusTemporaryRedirect)
		return
	}
	http.ServeFile(w, r, loc.Path)
}
