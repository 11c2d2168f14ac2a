package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/useradmin/internal/common"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeServiceError maps service sentinels onto statuses. It reports whether
// err was unexpected, in which case the caller should log it.
func writeServiceError(w http.ResponseWriter, err error, notFoundMsg string) bool {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "Already exists")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return true
	}
	return false
}

func validationMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, common.ErrorValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(common.ErrorValidation.Error())+2:]
	}
	return msg
}
