package repository

import (
	"context"
	"errors"

	"condoadmin-backend/internal/db"
	"condoadmin-backend/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB *db.Postgres
}

type CreateUserParams struct {
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  *string
	IsActive      bool
	CondominiumID *int64
	Roles         []domain.UserRole
}

func (r UserRepository) Create(ctx context.Context, p CreateUserParams) (*domain.User, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var u domain.User
	err = tx.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, is_active, condominium_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6, now())
		RETURNING id, first_name, last_name, email, password_hash, is_active, condominium_id, created_at
	`, p.FirstName, p.LastName, p.Email, p.PasswordHash, p.IsActive, p.CondominiumID).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CondominiumID, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := r.assignRoles(ctx, tx, u.ID, p.Roles); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	u.Roles = p.Roles
	return &u, nil
}

type UpdateUserParams struct {
	FirstName     *string
	LastName      *string
	Email         *string
	PasswordHash  *string
	IsActive      *bool
	CondominiumID *int64
	SetCondo      bool
	Roles         []domain.UserRole
	SetRoles      bool
}

func (r UserRepository) Update(ctx context.Context, id int64, p UpdateUserParams) error {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			password_hash = COALESCE($5, password_hash),
			is_active = COALESCE($6, is_active),
			condominium_id = CASE WHEN $7 THEN $8 ELSE condominium_id END
		WHERE id=$1
	`, id, p.FirstName, p.LastName, p.Email, p.PasswordHash, p.IsActive, p.SetCondo, p.CondominiumID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if p.SetRoles {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, id); err != nil {
			return err
		}
		if err := r.assignRoles(ctx, tx, id, p.Roles); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r UserRepository) assignRoles(ctx context.Context, tx pgx.Tx, userID int64, roles []domain.UserRole) error {
	for _, role := range roles {
		_, err := tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name=$2
			ON CONFLICT DO NOTHING
		`, userID, string(role))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash, is_active, condominium_id, created_at
		FROM users
		WHERE email=$1
	`, email)
	return r.scanWithRoles(ctx, row)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, password_hash, is_active, condominium_id, created_at
		FROM users
		WHERE id=$1
	`, id)
	return r.scanWithRoles(ctx, row)
}

func (r UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, first_name, last_name, email, password_hash, is_active, condominium_id, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CondominiumID, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range users {
		roles, err := r.rolesOf(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}
	return users, nil
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.DB.Pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r UserRepository) ListRoles(ctx context.Context) ([]domain.Role, error) {
	rows, err := r.DB.Pool.Query(ctx, `SELECT id, name FROM roles ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		var name string
		if err := rows.Scan(&role.ID, &name); err != nil {
			return nil, err
		}
		role.Name = domain.UserRole(name)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r UserRepository) rolesOf(ctx context.Context, userID int64) ([]domain.UserRole, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT r.name FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id=$1
		ORDER BY r.name ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.UserRole
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, domain.UserRole(name))
	}
	return roles, rows.Err()
}

func (r UserRepository) scanWithRoles(ctx context.Context, row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.IsActive, &u.CondominiumID, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	roles, err := r.rolesOf(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return &u, nil
}

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// IsDuplicate detects unique constraint violation.
func IsDuplicate(err error) bool {
	return db.IsUniqueViolation(err)
}
