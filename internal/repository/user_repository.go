package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mouradf/it-asset-tracker/internal/database"
	"github.com/mouradf/it-asset-tracker/internal/utils"
)

// User mirrors the 'users' table. PasswordHash never leaves this package in
// an API response; handlers copy the public fields into their own DTOs.
type User struct {
	ID           uint64
	FullName     string
	Email        string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    string
	LastLogin    *string
}

type UserRepo struct{ db *database.DB }

func NewUserRepo(db *database.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes the password and inserts the user, populating ID and Role.
// Unique collisions are mapped to ErrEmailExists / ErrUsernameExists by
// inspecting which constraint the driver reports.
func (r *UserRepo) Create(ctx context.Context, u *User, password string, cost int) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	if u.Role == "" {
		u.Role = "User"
	}
	const q = "INSERT INTO users (full_name, email, username, password_hash, role) VALUES (?,?,?,?,?) RETURNING id"
	err = r.db.QueryRowContext(ctx, r.db.Rebind(q),
		u.FullName, u.Email, u.Username, hash, u.Role).Scan(&u.ID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			if strings.Contains(err.Error(), "email") {
				return ErrEmailExists
			}
			return ErrUsernameExists
		}
		return err
	}
	u.PasswordHash = hash
	return nil
}

// GetByIdentifier fetches a user whose email or username matches the given
// identifier. Email comparison is case-insensitive, username is exact.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (User, error) {
	ident := strings.TrimSpace(identifier)
	const q = `SELECT id, full_name, email, username, password_hash, role, created_at, last_login
		FROM users WHERE email = ? OR username = ? LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, r.db.Rebind(q), strings.ToLower(ident), ident))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	const q = `SELECT id, full_name, email, username, password_hash, role, created_at, last_login
		FROM users WHERE id = ? LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, r.db.Rebind(q), id))
}

// TouchLastLogin stamps last_login after a successful authentication.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	const q = "UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?"
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), id)
	return err
}

func (r *UserRepo) scanUser(row *sql.Row) (User, error) {
	var u User
	var created, lastLogin sql.NullString
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &created, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.CreatedAt = created.String
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.String
	}
	return u, nil
}
