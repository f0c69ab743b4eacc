package testutils

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupRedisForIntegration starts a redis container, or connects to
// TEST_REDIS_ADDR when set.
func SetupRedisForIntegration() (*redis.Client, func()) {
	ctx := context.Background()

	if addr := os.Getenv("TEST_REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatal(fmt.Errorf("redis ping failed: %w", err))
		}
		return client, func() { _ = client.Close() }
	}

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatal(err)
	}
	host, err := rc.Host(ctx)
	if err != nil {
		log.Fatal(err)
	}
	port, err := rc.MappedPort(ctx, "6379")
	if err != nil {
		log.Fatal(err)
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal(fmt.Errorf("redis ping failed: %w", err))
	}

	return client, func() {
		_ = client.Close()
		_ = rc.Terminate(ctx)
	}
}
