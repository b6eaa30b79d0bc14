//go:build integration_pg
// +build integration_pg

package pg

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mapped, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	stop = func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
	return dsn, stop
}

func TestVerdictUpsert_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	WithTestDB(t, dsn, func(pc *pgxpool.Config) {
		pc.MinConns = 1
	}, func(p *PG) {
		// Keep TEMP tables on a single session
		conn := AcquireConn(t, p, ctx)

		if _, err := conn.Exec(ctx, `
			create temporary table run_verdicts (
				run_id     text not null,
				company_id text not null,
				tier       text not null,
				confidence int  not null,
				primary key (run_id, company_id)
			)`); err != nil {
			t.Fatalf("create temp table failed: %v", err)
		}
		defer func() { _, _ = conn.Exec(ctx, `drop table if exists run_verdicts`) }()

		const ins = `
			insert into run_verdicts (run_id, company_id, tier, confidence)
			values ($1, $2, $3, $4)
			on conflict (run_id, company_id) do nothing`

		ct, err := conn.Exec(ctx, ins, "run-1", "c-100", "exact", 100)
		if err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		if ct.RowsAffected() != 1 {
			t.Fatalf("first insert should write one row, got %d", ct.RowsAffected())
		}

		// Re-running the same run must not duplicate or overwrite verdicts
		ct, err = conn.Exec(ctx, ins, "run-1", "c-100", "fuzzy", 91)
		if err != nil {
			t.Fatalf("replay insert failed: %v", err)
		}
		if ct.RowsAffected() != 0 {
			t.Fatalf("replay insert should be a no-op, got %d rows", ct.RowsAffected())
		}

		var tier string
		var conf int
		if err := conn.QueryRow(ctx,
			`select tier, confidence from run_verdicts where run_id=$1 and company_id=$2`,
			"run-1", "c-100").Scan(&tier, &conf); err != nil {
			t.Fatalf("read back: %v", err)
		}
		if tier != "exact" || conf != 100 {
			t.Fatalf("original verdict should survive replay: got %s/%d", tier, conf)
		}
	})
}
