package tcnats

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage = "nats:2.10"
	clientPort   = nat.Port("4222/tcp")
)

// NatsServer is a JetStream enabled nats container.
type NatsServer struct {
	testcontainers.Container
}

type ContainerOption func(req *testcontainers.ContainerRequest)

func WithImage(image string) ContainerOption {
	return func(req *testcontainers.ContainerRequest) {
		req.Image = image
	}
}

func WithName(containerName string) ContainerOption {
	return func(req *testcontainers.ContainerRequest) {
		req.Name = containerName
	}
}

// StartNatsServer starts (or reuses) the container with JetStream enabled.
func StartNatsServer(ctx context.Context, opts ...ContainerOption) (*NatsServer, error) {
	req := testcontainers.ContainerRequest{
		Image:        defaultImage,
		ExposedPorts: []string{string(clientPort)},
		Cmd:          []string{"-js"},
		WaitingFor: wait.ForLog("Server is ready").
			WithStartupTimeout(30 * time.Second),
	}
	for _, opt := range opts {
		opt(&req)
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
	return &NatsServer{Container: container}, nil
}

// URL returns the client url as seen from the host.
func (n *NatsServer) URL(ctx context.Context) (string, error) {
	host, err := n.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := n.MappedPort(ctx, clientPort)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("nats://%s:%s", host, port.Port()), nil
}

// InitTestNats returns a connection to the shared test server.
// TESTNATS_URL selects an external server instead of a container.
func InitTestNats() *nats.Conn {
	url := os.Getenv("TESTNATS_URL")
	if url == "" {
		ctx := context.Background()
		server, err := StartNatsServer(ctx, WithName("bikechallenge-test-nats"))
		if err != nil {
			log.Fatal(err)
		}
		if url, err = server.URL(ctx); err != nil {
			log.Fatal(err)
		}
	}
	nc, err := nats.Connect(url)
	if err != nil {
		log.Fatal(err)
	}
	return nc
}
