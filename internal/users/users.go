package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamehub/internal/content"
	"gamehub/internal/models"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

type Store struct {
	db content.DBTX
}

func NewStore(db content.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleVisitor
	}
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users(email,username,password_hash,role,created_at) VALUES(?,?,?,?,?)`,
		u.Email, u.Username, u.PasswordHash, u.Role, now)
	if content.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", u.Email, ErrExists)
	}
	if err != nil {
		return err
	}
	u.ID, _ = res.LastInsertId()
	u.CreatedAt = now
	return nil
}

func (s *Store) scanOne(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) ByID(ctx context.Context, id int64) (models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id,email,username,password_hash,role,created_at FROM users WHERE id = ?`, id))
}

func (s *Store) ByEmail(ctx context.Context, email string) (models.User, error) {
	return s.scanOne(s.db.QueryRowContext(ctx,
		`SELECT id,email,username,password_hash,role,created_at FROM users WHERE email = ?`, email))
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,email,username,password_hash,role,created_at FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Promote raises a user to admin. Promoting an admin again is refused so the
// caller can report it distinctly.
func (s *Store) Promote(ctx context.Context, id int64) (models.User, error) {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if u.IsAdmin() {
		return models.User{}, fmt.Errorf("user %d is already an admin: %w", id, content.ErrInvalidState)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, models.RoleAdmin, id); err != nil {
		return models.User{}, err
	}
	u.Role = models.RoleAdmin
	return u, nil
}

// AdminExists reports whether any admin account is present, guarding the
// first-admin bootstrap.
func (s *Store) AdminExists(ctx context.Context) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE role = ? LIMIT 1`, models.RoleAdmin).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func (s *Store) UpdateProfile(ctx context.Context, id int64, username, passwordHash string) error {
	u, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}
	if username == "" {
		username = u.Username
	}
	if passwordHash == "" {
		passwordHash = u.PasswordHash
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET username = ?, password_hash = ? WHERE id = ?`,
		username, passwordHash, id)
	if content.IsUniqueViolation(err) {
		return fmt.Errorf("username %q: %w", username, ErrExists)
	}
	return err
}

// DeleteRow removes the bare user record. Dependent data is the cascade
// coordinator's job; this is its final step.
func (s *Store) DeleteRow(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return err
}
