package handlers

import (
	"net/http"
	"time"

	"github.com/AlbertoMK/tier-app/pkg/errors"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DateOfBirth string `json:"date_of_birth"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionToken string `json:"session_token"`
}

// authenticate resolves the caller from the Authorization header, then the
// body's session_token, then the session_token query parameter.
func (h *HandlerManager) authenticate(r *http.Request, bodyToken string) (string, error) {
	token := bearerToken(r)
	if token == "" {
		token = bodyToken
	}
	if token == "" {
		token = r.URL.Query().Get("session_token")
	}
	return h.UserSvc.Authenticate(r.Context(), token)
}

// HandleGetUser returns one account when ?username= is given, else all.
func (h *HandlerManager) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	if username := r.URL.Query().Get("username"); username != "" {
		user, err := h.UserSvc.GetUser(r.Context(), username)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}

	users, err := h.UserSvc.ListUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *HandlerManager) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var dob time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			writeError(w, r, errors.New(errors.ErrCodeValidation, "Invalid date_of_birth, expected YYYY-MM-DD"))
			return
		}
		dob = parsed
	}

	if _, err := h.UserSvc.Register(r.Context(), req.Username, req.Password, dob); err != nil {
		writeError(w, r, err)
		return
	}

	writeText(w, http.StatusOK, "Successfully created a new user")
}

func (h *HandlerManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.UserSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionToken: token})
}
