package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const userColumns = `id, name, email, password_digest, role, student_ref, staff_ref, supervisor_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var (
		u            User
		studentRef   *string
		staffRef     *string
		supervisorID *uuid.UUID
	)

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordDigest,
		&u.Role,
		&studentRef,
		&staffRef,
		&supervisorID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	switch u.Role {
	case RoleStudent:
		p := StudentProfile{}
		if studentRef != nil {
			p.StudentRef = *studentRef
		}
		if supervisorID != nil {
			p.SupervisorID = *supervisorID
		}
		u.Student = &p
	case RoleSupervisor, RoleSeniorTutor:
		p := StaffProfile{}
		if staffRef != nil {
			p.StaffRef = *staffRef
		}
		u.Staff = &p
	}

	return &u, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)
	return scanUser(row)
}

func (r *PgRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, NormalizeEmail(email))
	return scanUser(row)
}

func (r *PgRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)
	`, id).Scan(&exists)
	return exists, err
}

func (r *PgRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
	`, NormalizeEmail(email)).Scan(&exists)
	return exists, err
}

func (r *PgRepository) StudentRefExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE student_ref = $1)
	`, NormalizeRef(ref)).Scan(&exists)
	return exists, err
}

func (r *PgRepository) StaffRefExists(ctx context.Context, ref string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE staff_ref = $1)
	`, NormalizeRef(ref)).Scan(&exists)
	return exists, err
}

func (r *PgRepository) Create(ctx context.Context, u *User) error {
	var (
		studentRef   *string
		staffRef     *string
		supervisorID *uuid.UUID
	)
	if u.Student != nil {
		studentRef = &u.Student.StudentRef
		supervisorID = &u.Student.SupervisorID
	}
	if u.Staff != nil {
		staffRef = &u.Staff.StaffRef
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_digest, role, student_ref, staff_ref, supervisor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.PasswordDigest, u.Role, studentRef, staffRef, supervisorID)

	return row.Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *PgRepository) ListSupervisors(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1
		ORDER BY name
	`, RoleSupervisor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *PgRepository) ListStudentsOf(ctx context.Context, supervisorID uuid.UUID) ([]User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE role = $1 AND supervisor_id = $2
		ORDER BY name
	`, RoleStudent, supervisorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *PgRepository) CountStudents(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM users WHERE role = $1
	`, RoleStudent).Scan(&n)
	return n, err
}

func collectUsers(rows pgx.Rows) ([]User, error) {
	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
