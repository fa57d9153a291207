package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"condoadmin-backend/internal/domain"
	"condoadmin-backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

type UserHandler struct {
	Repo repository.UserRepository
}

func (h UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Post("/users", h.create)
	r.Put("/users/{id}", h.update)
	r.Delete("/users/{id}", h.delete)
	r.Get("/roles", h.listRoles)
}

func (h UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list users", err)
		return
	}
	resp := make([]map[string]any, 0, len(users))
	for _, u := range users {
		resp = append(resp, serializeUser(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName     string   `json:"first_name"`
		LastName      string   `json:"last_name"`
		Email         string   `json:"email"`
		Password      string   `json:"password"`
		CondominiumID *int64   `json:"condominium_id"`
		Roles         []string `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	roles, ok := parseRoles(req.Roles)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if len(roles) == 0 {
		roles = []domain.UserRole{domain.RoleUser}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to hash password", err)
		return
	}
	hashed := string(hash)

	user, err := h.Repo.Create(r.Context(), repository.CreateUserParams{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  &hashed,
		IsActive:      true,
		CondominiumID: req.CondominiumID,
		Roles:         roles,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, serializeUser(*user))
}

func (h UserHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		FirstName     *string   `json:"first_name"`
		LastName      *string   `json:"last_name"`
		Email         *string   `json:"email"`
		Password      *string   `json:"password"`
		IsActive      *bool     `json:"is_active"`
		CondominiumID *int64    `json:"condominium_id"`
		Roles         *[]string `json:"roles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	params := repository.UpdateUserParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsActive:  req.IsActive,
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to hash password", err)
			return
		}
		hashed := string(hash)
		params.PasswordHash = &hashed
	}
	if req.CondominiumID != nil {
		params.SetCondo = true
		params.CondominiumID = req.CondominiumID
	}
	if req.Roles != nil {
		roles, ok := parseRoles(*req.Roles)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid role")
			return
		}
		params.SetRoles = true
		params.Roles = roles
	}

	if err := h.Repo.Update(r.Context(), id, params); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		case repository.IsDuplicate(err):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			writeErrorWithErr(w, http.StatusInternalServerError, "failed to update user", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "user updated"})
}

func (h UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "user deleted"})
}

func (h UserHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Repo.ListRoles(r.Context())
	if err != nil {
		writeErrorWithErr(w, http.StatusInternalServerError, "failed to list roles", err)
		return
	}
	resp := make([]map[string]any, 0, len(roles))
	for _, role := range roles {
		resp = append(resp, map[string]any{"id": role.ID, "name": string(role.Name)})
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseRoles(names []string) ([]domain.UserRole, bool) {
	roles := make([]domain.UserRole, 0, len(names))
	for _, name := range names {
		role := domain.UserRole(name)
		switch role {
		case domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleUser:
			roles = append(roles, role)
		default:
			return nil, false
		}
	}
	return roles, true
}

// serializeUser never exposes the password hash.
func serializeUser(u domain.User) map[string]any {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	return map[string]any{
		"id":             u.ID,
		"first_name":     u.FirstName,
		"last_name":      u.LastName,
		"email":          u.Email,
		"is_active":      u.IsActive,
		"condominium_id": u.CondominiumID,
		"roles":          roles,
		"created_at":     u.CreatedAt.Format(time.RFC3339),
	}
}
