package repository

import (
	"context"

	"condoadmin-backend/internal/domain"
)

// SeedStatuses inserts the shared status vocabulary with fixed ids. The
// state machine references these ids directly, so they must never be
// re-seeded under different identifiers.
func (r ExpenseRepository) SeedStatuses(ctx context.Context) error {
	statuses := []struct {
		id          domain.ExpenseStatusID
		name        string
		description string
	}{
		{domain.StatusPending, "Pendiente", "A la espera de pago"},
		{domain.StatusPaid, "Pagado", "Pago realizado"},
		{domain.StatusVoided, "Anulado", "Registro anulado"},
	}
	for _, s := range statuses {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO expense_statuses (id, name, description, is_active)
			VALUES ($1,$2,$3,true)
			ON CONFLICT (id) DO NOTHING
		`, int64(s.id), s.name, s.description)
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedCategories inserts default expense categories; id 1 is the
// fallback for auto-generated maintenance expenses.
func (r ExpenseRepository) SeedCategories(ctx context.Context) error {
	categories := []struct {
		id   int64
		name string
	}{
		{1, "General"},
		{2, "Mantención"},
		{3, "Servicios Básicos"},
		{4, "Seguridad"},
		{5, "Aseo y Jardines"},
	}
	for _, c := range categories {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO expense_categories (id, name, is_active)
			VALUES ($1,$2,true)
			ON CONFLICT (id) DO NOTHING
		`, c.id, c.name)
		if err != nil {
			return err
		}
	}
	return nil
}

// SeedRoles inserts the role vocabulary.
func (r UserRepository) SeedRoles(ctx context.Context) error {
	for _, name := range []domain.UserRole{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleUser} {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, string(name))
		if err != nil {
			return err
		}
	}
	return nil
}
