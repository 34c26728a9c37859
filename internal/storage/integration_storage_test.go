package storage

import (
	"context"
	"log"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mindgames-dev/mindgames/internal/config"
	"github.com/mindgames-dev/mindgames/internal/domain"
)

var storage *Storage

const (
	dbName     = "mindgames"
	dbUser     = "user"
	dbPassword = "password"
)

// Integration tests run against MySQL, or PostgreSQL when TEST_DIALECT=postgres.
func TestMain(m *testing.M) {
	ctx := context.Background()
	var container testcontainers.Container
	storage, container = mustSetup(ctx, os.Getenv("TEST_DIALECT"))

	exitCode := m.Run()
	teardown(ctx, storage, container)
	os.Exit(exitCode)
}

func mustSetup(ctx context.Context, dialect string) (*Storage, testcontainers.Container) {
	var (
		container testcontainers.Container
		natPort   nat.Port
		err       error
	)
	if dialect == "postgres" {
		container, err = postgres.Run(ctx,
			"postgres:15.3-alpine",
			postgres.WithDatabase(dbName),
			postgres.WithUsername(dbUser),
			postgres.WithPassword(dbPassword),
			testcontainers.WithWaitStrategy(
				// The container restarts once after the first startup.
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		natPort = "5432/tcp"
	} else {
		dialect = "mysql"
		container, err = mysql.Run(ctx,
			"mysql:8.0.36",
			mysql.WithDatabase(dbName),
			mysql.WithUsername(dbUser),
			mysql.WithPassword(dbPassword),
		)
		natPort = "3306/tcp"
	}
	if err != nil {
		log.Fatalf("failed to start container: %s", err)
	}

	containerPort, err := container.MappedPort(ctx, natPort)
	if err != nil {
		log.Fatalf("failed to obtain container port: %s", err)
	}
	port, err := strconv.Atoi(containerPort.Port())
	if err != nil {
		log.Fatalf("failed to obtain int container port: %s", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("failed to obtain container host: %s", err)
	}

	cfg := &config.Config{
		Public: config.Public{Database: config.Database{
			Dialect: dialect, Host: host, Port: port, Name: dbName,
			MaxOpenConns: 10, MaxIdleConns: 5, ConnMaxLifetime: time.Minute,
		}},
		Private: config.Private{Database: config.DatabaseCredentials{User: dbUser, Password: dbPassword}},
	}
	storage, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to %s container: %s", dialect, err)
	}
	if _, err := storage.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %s", err)
	}
	return storage, container
}

func teardown(ctx context.Context, storage *Storage, container testcontainers.Container) {
	if err := storage.Cleanup(); err != nil {
		log.Printf("failed to close storage connection: %s", err)
	}
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
}

// =========================================================================
// Fixtures
// =========================================================================

func suffix() string {
	return uuid.NewString()[:8]
}

func createTestUser(t *testing.T, role domain.Role) domain.User {
	t.Helper()
	s := suffix()
	user := domain.User{
		Email:    "User" + s + "@example.com",
		Username: "user_" + s,
		PassHash: "hash",
		Role:     role,
		Language: "de",
	}
	id, err := storage.CreateUser(user)
	require.NoError(t, err)
	created, err := storage.User(id)
	require.NoError(t, err)
	return created
}

func createTestTherapist(t *testing.T) domain.Therapist {
	t.Helper()
	s := suffix()
	id, err := storage.CreateTherapist(
		domain.User{Email: "therapist" + s + "@example.com", Username: "therapist_" + s, PassHash: "hash", Role: domain.RoleTherapist, Status: domain.UserInactive},
		domain.Therapist{Firstname: "Theo", Lastname: "Rapist" + s, Institution: "Clinic " + s},
	)
	require.NoError(t, err)
	therapist, err := storage.Therapist(id)
	require.NoError(t, err)
	return therapist
}

func createTestPatient(t *testing.T, therapistId domain.UserId) domain.Patient {
	t.Helper()
	s := suffix()
	birthdate := time.Date(2010, 5, 17, 0, 0, 0, 0, time.UTC)
	id, err := storage.CreatePatient(
		domain.User{Email: "patient" + s + "@example.com", Username: "patient_" + s, PassHash: "hash", Role: domain.RolePatient},
		domain.Patient{TherapistId: therapistId, Firstname: "Pat", Lastname: "Ient" + s, Birthdate: &birthdate, Info: "notes"},
	)
	require.NoError(t, err)
	patient, err := storage.Patient(id)
	require.NoError(t, err)
	return patient
}
