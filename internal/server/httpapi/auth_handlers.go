package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/vamazon/internal/server/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type checkResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user"`
}

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.services.Users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "user_id", res.User.ID)
	s.respondJSON(w, r, http.StatusOK, res)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	res, err := s.services.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, res)
}

// loginForm accepts the OAuth2 password form: the email travels as username.
func (s *HTTPServer) loginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.respondDetail(w, r, http.StatusUnprocessableEntity, "Invalid form body")
		return
	}

	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")
	if username == "" || password == "" {
		s.respondDetail(w, r, http.StatusUnprocessableEntity, "username and password are required")
		return
	}

	res, err := s.services.Users.Login(r.Context(), username, password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, r, http.StatusOK, res)
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	u, _ := userFromContext(r.Context())
	s.respondJSON(w, r, http.StatusOK, u)
}

func (s *HTTPServer) check(w http.ResponseWriter, r *http.Request) {
	u, ok := userFromContext(r.Context())
	s.respondJSON(w, r, http.StatusOK, checkResponse{Authenticated: ok, User: u})
}
