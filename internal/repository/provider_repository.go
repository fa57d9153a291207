package repository

import (
	"context"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
)

type ProviderRepository struct {
	DB *db.Postgres
}

type CreateProviderInput struct {
	Name        string
	ServiceType string
	RUT         string
	Email       string
	Phone       string
	Address     string
	IsActive    bool
}

func (r ProviderRepository) Create(ctx context.Context, in CreateProviderInput) (*domain.Provider, error) {
	var p domain.Provider
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO providers (name, service_type, rut, email, phone, address, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7, now())
		RETURNING id, name, service_type, rut, email, phone, address, is_active, created_at
	`, in.Name, in.ServiceType, in.RUT, in.Email, in.Phone, in.Address, in.IsActive).Scan(
		&p.ID, &p.Name, &p.ServiceType, &p.RUT, &p.Email, &p.Phone, &p.Address, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r ProviderRepository) List(ctx context.Context) ([]domain.Provider, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, service_type, rut, email, phone, address, is_active, created_at
		FROM providers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Provider
	for rows.Next() {
		var p domain.Provider
		if err := rows.Scan(&p.ID, &p.Name, &p.ServiceType, &p.RUT, &p.Email, &p.Phone, &p.Address, &p.IsActive, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type UpdateProviderInput struct {
	Name        *string
	ServiceType *string
	RUT         *string
	Email       *string
	Phone       *string
	Address     *string
	IsActive    *bool
}

func (r ProviderRepository) Update(ctx context.Context, id int64, in UpdateProviderInput) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE providers SET
			name = COALESCE($2, name),
			service_type = COALESCE($3, service_type),
			rut = COALESCE($4, rut),
			email = COALESCE($5, email),
			phone = COALESCE($6, phone),
			address = COALESCE($7, address),
			is_active = COALESCE($8, is_active)
		WHERE id=$1
	`, id, in.Name, in.ServiceType, in.RUT, in.Email, in.Phone, in.Address, in.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r ProviderRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM providers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
