package repository

import (
	"context"
	"errors"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type CondominiumRepository struct {
	DB *db.Postgres
}

type CreateCondominiumInput struct {
	AdministratorID int64
	Name            string
	Commune         string
	Address         string
	State           domain.CondominiumState
	TotalUnits      int
	ContactEmail    string
	ContactPhone    string
}

func (r CondominiumRepository) Create(ctx context.Context, in CreateCondominiumInput) (*domain.Condominium, error) {
	var c domain.Condominium
	var state string
	err := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO condominiums (administrator_id, name, commune, address, state, total_units, contact_email, contact_phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now(), now())
		RETURNING id, administrator_id, name, commune, address, state, total_units, contact_email, contact_phone, created_at, updated_at
	`, in.AdministratorID, in.Name, in.Commune, in.Address, string(in.State), in.TotalUnits, in.ContactEmail, in.ContactPhone).Scan(
		&c.ID, &c.AdministratorID, &c.Name, &c.Commune, &c.Address, &state, &c.TotalUnits, &c.ContactEmail, &c.ContactPhone, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.State = domain.CondominiumState(state)
	return &c, nil
}

// CondominiumRow carries the administrator's display name alongside the
// condominium for listing.
type CondominiumRow struct {
	domain.Condominium
	AdministratorName string
}

func (r CondominiumRepository) List(ctx context.Context) ([]CondominiumRow, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT c.id, c.administrator_id, c.name, c.commune, c.address, c.state, c.total_units,
		       c.contact_email, c.contact_phone, c.created_at, c.updated_at,
		       u.first_name, u.last_name
		FROM condominiums c
		LEFT JOIN users u ON u.id = c.administrator_id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CondominiumRow
	for rows.Next() {
		var row CondominiumRow
		var state string
		var firstName, lastName pgtype.Text
		if err := rows.Scan(
			&row.ID, &row.AdministratorID, &row.Name, &row.Commune, &row.Address, &state, &row.TotalUnits,
			&row.ContactEmail, &row.ContactPhone, &row.CreatedAt, &row.UpdatedAt,
			&firstName, &lastName,
		); err != nil {
			return nil, err
		}
		row.State = domain.CondominiumState(state)
		if firstName.Valid {
			row.AdministratorName = firstName.String + " " + lastName.String
		} else {
			row.AdministratorName = "Sin asignar"
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

type UpdateCondominiumInput struct {
	Name            *string
	Commune         *string
	Address         *string
	State           *string
	TotalUnits      *int
	ContactEmail    *string
	ContactPhone    *string
	AdministratorID *int64
}

func (r CondominiumRepository) Update(ctx context.Context, id int64, in UpdateCondominiumInput) error {
	tag, err := r.DB.Pool.Exec(ctx, `
		UPDATE condominiums SET
			name = COALESCE($2, name),
			commune = COALESCE($3, commune),
			address = COALESCE($4, address),
			state = COALESCE($5, state),
			total_units = COALESCE($6, total_units),
			contact_email = COALESCE($7, contact_email),
			contact_phone = COALESCE($8, contact_phone),
			administrator_id = COALESCE($9, administrator_id),
			updated_at = now()
		WHERE id=$1
	`, id, in.Name, in.Commune, in.Address, in.State, in.TotalUnits, in.ContactEmail, in.ContactPhone, in.AdministratorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r CondominiumRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM condominiums WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r CondominiumRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var found int
	err := r.DB.Pool.QueryRow(ctx, `SELECT 1 FROM condominiums WHERE id=$1`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
