package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/auth"
	"github.com/MDSAM05/orderflow/internal/user"
)

type UserService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (string, error)
	Profile(ctx context.Context, username string) (*user.User, error)
	Delete(ctx context.Context, username string) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func NewUserRouter(h *UserHandler, verifier *auth.Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/", h.Root)
	r.Post("/register", h.Register)
	r.Post("/token", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require(verifier))
		r.Get("/profile", h.Profile)
		r.Delete("/users/{username}", h.DeleteUser)
	})

	return r
}

func (h *UserHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "User Service is running"})
}

// Register and Login accept form-encoded credentials, matching the OAuth2
// password flow shape clients already use.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Register(r.Context(), username, password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": "User registered"})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.svc.Login(r.Context(), username, password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperr.ErrUnauthenticated)
		return
	}

	u, err := h.svc.Profile(r.Context(), principal.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if err := h.svc.Delete(r.Context(), username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"msg": fmt.Sprintf("User %q deleted", username)})
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", fmt.Errorf("%w: invalid form body", apperr.ErrInvalid)
	}
	username = r.PostFormValue("username")
	password = r.PostFormValue("password")
	if username == "" || password == "" {
		return "", "", fmt.Errorf("%w: username and password are required", apperr.ErrInvalid)
	}
	return username, password, nil
}
