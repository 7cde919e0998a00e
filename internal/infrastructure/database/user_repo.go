package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"eventledger/internal/domain"
	"eventledger/internal/domain/entities"
	"eventledger/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

const userColumns = `id, name, email, password_hash, role, department, created_at`

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	var (
		id        int64
		createdAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, department)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Department,
	).Scan(&id, &createdAt)
	if pgErrorCode(err) == uniqueViolation {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = uint(id)
	user.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByEmail compares case-insensitively, matching the users_email_key index.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// Delete removes the account. Its events lose their owner and its
// registrations become anonymous (ON DELETE SET NULL); nothing else is deleted.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var (
		u         entities.User
		id        int64
		createdAt pgtype.Timestamptz
	)
	err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Department, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	u.ID = uint(id)
	u.CreatedAt = pgtypeTimestamptzToTime(createdAt)
	return &u, nil
}
