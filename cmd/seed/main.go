package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscare/student-engagement/internal/db"
	"github.com/campuscare/student-engagement/internal/identity"
)

const (
	supervisorCount = 10
	tutorCount      = 2
	studentCount    = 200
	slotsPerDay     = 4
	slotDays        = 14
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	// One shared digest keeps seeding fast; every account logs in with
	// the same development password.
	digest, err := identity.NewBcryptHasher().Hash("changeme-dev")
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	supervisors, err := seedStaff(context.Background(), pool, digest, identity.RoleSupervisor, "PS", supervisorCount)
	if err != nil {
		log.Fatalf("seed supervisors: %v", err)
	}
	if _, err := seedStaff(context.Background(), pool, digest, identity.RoleSeniorTutor, "ST", tutorCount); err != nil {
		log.Fatalf("seed tutors: %v", err)
	}
	if err := seedStudents(context.Background(), pool, digest, supervisors, studentCount); err != nil {
		log.Fatalf("seed students: %v", err)
	}
	if err := seedSlots(context.Background(), pool, supervisors); err != nil {
		log.Fatalf("seed slots: %v", err)
	}

	log.Println("seed complete")
}

func seedStaff(ctx context.Context, pool *pgxpool.Pool, digest string, role identity.Role, refPrefix string, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d %s accounts", count, role)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, email, password_digest, role, staff_ref, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		`, id, gofakeit.Name(), gofakeit.Email(), digest, role, fmt.Sprintf("%s%04d", refPrefix, i+1))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedStudents(ctx context.Context, pool *pgxpool.Pool, digest string, supervisors []uuid.UUID, count int) error {
	log.Printf("seeding %d students", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		supervisor := supervisors[gofakeit.Number(0, len(supervisors)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, name, email, password_digest, role, student_ref, supervisor_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		`, uuid.New(), gofakeit.Name(), gofakeit.Email(), digest, identity.RoleStudent,
			fmt.Sprintf("SE%06d", i+1), supervisor)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("students seeded")
	return nil
}

func seedSlots(ctx context.Context, pool *pgxpool.Pool, supervisors []uuid.UUID) error {
	log.Printf("seeding %d days of slots for %d supervisors", slotDays, len(supervisors))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	base := time.Now().Truncate(time.Hour).Add(24 * time.Hour)
	for _, supervisor := range supervisors {
		for day := 0; day < slotDays; day++ {
			for n := 0; n < slotsPerDay; n++ {
				start := base.AddDate(0, 0, day).Add(time.Duration(9+n) * time.Hour)

				_, err := tx.Exec(ctx, `
					INSERT INTO availability_slots (id, supervisor_id, start_time, end_time, booked, created_at, updated_at)
					VALUES ($1, $2, $3, $4, false, now(), now())
				`, uuid.New(), supervisor, start, start.Add(time.Hour))
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("slots seeded")
	return nil
}
