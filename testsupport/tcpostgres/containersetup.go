package tcpostgres

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage  = "postgres:16"
	postgresPort  = nat.Port("5432/tcp")
	readyLogEntry = "database system is ready to accept connections"
)

// LeaderboardDB is a postgres container holding the leaderboard test database.
type LeaderboardDB struct {
	testcontainers.Container
	user     string
	password string
	dbName   string
}

type ContainerOption func(req *testcontainers.ContainerRequest, db *LeaderboardDB)

func WithImage(image string) ContainerOption {
	return func(req *testcontainers.ContainerRequest, _ *LeaderboardDB) {
		req.Image = image
	}
}

func WithName(containerName string) ContainerOption {
	return func(req *testcontainers.ContainerRequest, _ *LeaderboardDB) {
		req.Name = containerName
	}
}

func WithStartupTimeout(timeout time.Duration) ContainerOption {
	return func(req *testcontainers.ContainerRequest, _ *LeaderboardDB) {
		req.WaitingFor = readyStrategy(timeout)
	}
}

func WithCredentials(user, password, dbName string) ContainerOption {
	return func(req *testcontainers.ContainerRequest, db *LeaderboardDB) {
		db.user, db.password, db.dbName = user, password, dbName
	}
}

// postgres logs the ready message twice: once for the init run and once for
// the real server.
func readyStrategy(timeout time.Duration) wait.Strategy {
	return wait.ForLog(readyLogEntry).
		WithOccurrence(2).
		WithStartupTimeout(timeout)
}

// StartLeaderboardDB starts (or reuses) the container. fsync is disabled to
// keep the tests fast.
func StartLeaderboardDB(ctx context.Context, opts ...ContainerOption) (
	*LeaderboardDB, error,
) {
	db := &LeaderboardDB{user: "postgres", password: "password", dbName: "postgres"}
	req := testcontainers.ContainerRequest{
		Image:        defaultImage,
		ExposedPorts: []string{string(postgresPort)},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
		WaitingFor:   readyStrategy(30 * time.Second),
	}
	for _, opt := range opts {
		opt(&req, db)
	}
	req.Env = map[string]string{
		"POSTGRES_USER":     db.user,
		"POSTGRES_PASSWORD": db.password,
		"POSTGRES_DB":       db.dbName,
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
			Reuse:            req.Name != "",
		})
	if err != nil {
		return nil, err
	}
	db.Container = container
	return db, nil
}

// DatabaseURL returns the url of the database as seen from the host.
func (db *LeaderboardDB) DatabaseURL(ctx context.Context) (string, error) {
	host, err := db.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := db.MappedPort(ctx, postgresPort)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		db.user, db.password, host, port.Port(), db.dbName), nil
}
