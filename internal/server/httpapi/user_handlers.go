package httpapi

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/useradmin/internal/server/users"
	"github.com/gorilla/mux"
)

const userNotFound = "User not found"

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := s.users.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	in, cleanup, ok := s.parseUserForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	u, err := s.users.Create(r.Context(), in)
	if err != nil {
		if writeServiceError(w, err, userNotFound) {
			s.logger.Error(r.Context(), "create user failed", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": u.ID})
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	in, cleanup, ok := s.parseUserForm(w, r)
	if !ok {
		return
	}
	defer cleanup()

	if _, err := s.users.Update(r.Context(), id, in); err != nil {
		if writeServiceError(w, err, userNotFound) {
			s.logger.Error(r.Context(), "update user failed", "id", id, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "User updated"})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}

	if err := s.users.Delete(r.Context(), id); err != nil {
		if writeServiceError(w, err, userNotFound) {
			s.logger.Error(r.Context(), "delete user failed", "id", id, "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "User deleted"})
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, userNotFound)
		return 0, false
	}
	return id, true
}

// parseUserForm reads the multipart payload under the configured size limit.
// The returned cleanup closes the file parts and removes spooled temp files.
func (s *Server) parseUserForm(w http.ResponseWriter, r *http.Request) (users.Input, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	if err := r.ParseMultipartForm(s.opts.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "Malformed multipart form")
		}
		return users.Input{}, nil, false
	}

	var files []multipart.File
	cleanup := func() {
		for _, f := range files {
			f.Close()
		}
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	in := users.Input{
		Name:        r.FormValue("name"),
		Address:     r.FormValue("address"),
		PhoneNumber: r.FormValue("phone_number"),
	}

	parts := []struct {
		field string
		dst   **users.Upload
	}{
		{"profile_pic", &in.ProfilePic},
		{"description_file", &in.DescriptionFile},
	}
	for _, p := range parts {
		f, hdr, err := r.FormFile(p.field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			cleanup()
			writeError(w, http.StatusBadRequest, "Malformed file part "+p.field)
			return users.Input{}, nil, false
		}
		files = append(files, f)
		*p.dst = &users.Upload{Filename: hdr.Filename, Body: f}
	}

	return in, cleanup, true
}
