package repository

import (
	"context"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
)

type CommonAreaRepository struct {
	DB *db.Postgres
}

type CreateCommonAreaInput struct {
	CondominiumID int64
	Name          string
	Description   string
	Price         domain.Amount
}

func (r CommonAreaRepository) Create(ctx context.Context, in CreateCommonAreaInput) (*domain.CommonArea, error) {
	var a domain.CommonArea
	var price int64
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO common_areas (condominium_id, name, description, price, is_active, created_at)
		VALUES ($1,$2,$3,$4,true, now())
		RETURNING id, condominium_id, name, description, price, is_active, created_at
	`, in.CondominiumID, in.Name, in.Description, int64(in.Price)).Scan(
		&a.ID, &a.CondominiumID, &a.Name, &a.Description, &price, &a.IsActive, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Price = domain.Amount(price)
	return &a, nil
}

func (r CommonAreaRepository) ListByCondominium(ctx context.Context, condominiumID int64) ([]domain.CommonArea, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, condominium_id, name, description, price, is_active, created_at
		FROM common_areas
		WHERE condominium_id=$1
		ORDER BY name ASC
	`, condominiumID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CommonArea
	for rows.Next() {
		var a domain.CommonArea
		var price int64
		if err := rows.Scan(&a.ID, &a.CondominiumID, &a.Name, &a.Description, &price, &a.IsActive, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Price = domain.Amount(price)
		out = append(out, a)
	}
	return out, rows.Err()
}

type UpdateCommonAreaInput struct {
	Name        *string
	Description *string
	Price       *domain.Amount
	IsActive    *bool
}

func (r CommonAreaRepository) Update(ctx context.Context, id int64, in UpdateCommonAreaInput) error {
	var price *int64
	if in.Price != nil {
		v := int64(*in.Price)
		price = &v
	}
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE common_areas SET
			name = COALESCE($2, name),
			description = COALESCE($3, description),
			price = COALESCE($4, price),
			is_active = COALESCE($5, is_active)
		WHERE id=$1
	`, id, in.Name, in.Description, price, in.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r CommonAreaRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM common_areas WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
