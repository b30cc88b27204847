package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/usersapi/internal/common"
	"github.com/dmitrijs2005/usersapi/internal/query"
	"github.com/dmitrijs2005/usersapi/internal/schema"
	"github.com/dmitrijs2005/usersapi/internal/server/models"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// fail maps service errors to status codes. Unexpected errors are logged and
// hidden from the client.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, common.ErrorConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error(r.Context(), err.Error(), "request_id", RequestIDFromContext(r.Context()))
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
	}
}

func (s *HTTPServer) index(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Hello from Users API!")
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	f, err := query.FromRawQuery(r.URL.RawQuery, schema.User)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	users, err := s.users.Find(r.Context(), f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	u, err := s.users.GetByUsername(r.Context(), username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("User: %s does not exist", username))
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	created, err := s.users.Add(r.Context(), u)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			writeError(w, http.StatusConflict, "User already exists")
			return
		}
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	var p models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	updated, err := s.users.Update(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteUser answers 404 for a missing user even though deleting one is a
// no-op in the service.
func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	u, err := s.users.GetByUsername(r.Context(), username)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if u == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("User: %s does not exist", username))
		return
	}

	if err := s.users.Delete(r.Context(), username); err != nil {
		s.fail(w, r, err)
		return
	}
	writeText(w, http.StatusOK, "Successfully deleted: "+username)
}
