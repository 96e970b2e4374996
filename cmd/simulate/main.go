// simulate hammers the booking endpoint with concurrent workers racing
// for a shared set of slots, then reports the outcome split. With N
// workers per slot the expected result is exactly one success and N-1
// conflicts per slot; anything else indicates a double booking.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuscare/student-engagement/internal/db"
)

type simConfig struct {
	APIBaseURL  string
	Workers     int
	PostgresDSN string
}

type counters struct {
	success  int64
	conflict int64
	errors   int64
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := simConfig{
		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:8080"),
		Workers:     getEnvInt("SIM_WORKERS", 20),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	students, err := loadIDs(ctx, pool, `SELECT id FROM users WHERE role = 'student' LIMIT 100`)
	if err != nil {
		log.Fatalf("load students: %v", err)
	}
	slots, err := loadSlotPairs(ctx, pool)
	if err != nil {
		log.Fatalf("load slots: %v", err)
	}
	if len(students) == 0 || len(slots) == 0 {
		log.Fatal("no seed data found, run cmd/seed first")
	}

	log.Printf("racing %d workers over %d slots", cfg.Workers, len(slots))

	client := &http.Client{Timeout: 10 * time.Second}
	var c counters

	for _, slot := range slots {
		var wg sync.WaitGroup
		for w := 0; w < cfg.Workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				student := students[rand.Intn(len(students))]
				book(client, cfg.APIBaseURL, slot, student, &c)
			}()
		}
		wg.Wait()
	}

	total := c.success + c.conflict + c.errors
	log.Printf("done: total=%d success=%d conflict=%d errors=%d", total, c.success, c.conflict, c.errors)

	if int(c.success) > len(slots) {
		log.Fatalf("DOUBLE BOOKING: %d successes over %d slots", c.success, len(slots))
	}
	log.Printf("no slot was booked twice (%d slots, %d successes)", len(slots), c.success)
}

type slotPair struct {
	id         uuid.UUID
	supervisor uuid.UUID
}

func book(client *http.Client, base string, slot slotPair, student uuid.UUID, c *counters) {
	payload, _ := json.Marshal(map[string]string{
		"slot_id":     slot.id.String(),
		"booked_by":   student.String(),
		"booked_with": slot.supervisor.String(),
		"title":       "Simulated catch-up",
	})

	resp, err := client.Post(base+"/meetings", "application/json", bytes.NewReader(payload))
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		atomic.AddInt64(&c.success, 1)
	case http.StatusConflict:
		atomic.AddInt64(&c.conflict, 1)
	default:
		atomic.AddInt64(&c.errors, 1)
	}
}

func loadIDs(ctx context.Context, pool *pgxpool.Pool, query string) ([]uuid.UUID, error) {
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func loadSlotPairs(ctx context.Context, pool *pgxpool.Pool) ([]slotPair, error) {
	rows, err := pool.Query(ctx, `
		SELECT id, supervisor_id
		FROM availability_slots
		WHERE booked = false AND start_time > now()
		LIMIT 50
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []slotPair
	for rows.Next() {
		var s slotPair
		if err := rows.Scan(&s.id, &s.supervisor); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
