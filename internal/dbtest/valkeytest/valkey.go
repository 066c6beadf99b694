// Package valkeytest runs a throwaway Valkey container for tests.
package valkeytest

import (
	"context"
	"net"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/valkey-io/valkey-go"

	valkeycontainer "github.com/testcontainers/testcontainers-go/modules/valkey"
)

const Image = "valkey/valkey:8-alpine"

// Start runs a Valkey container and returns a connected client and the
// mapped port. Both are released when the test finishes.
func Start(t testing.TB) (valkey.Client, nat.Port) {
	t.Helper()

	ctx := t.Context()
	valkeyContainer, err := valkeycontainer.Run(ctx, Image)
	if err != nil {
		t.Fatalf("starting ValKey container: %v", err)
	}
	t.Cleanup(func() {
		if err := valkeyContainer.Terminate(context.Background()); err != nil {
			t.Logf("terminating ValKey container: %v", err)
		}
	})

	port, err := valkeyContainer.MappedPort(ctx, nat.Port("6379"))
	if err != nil {
		t.Fatalf("mapping ValKey port: %v", err)
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{net.JoinHostPort("localhost", port.Port())},
	})
	if err != nil {
		t.Fatalf("creating ValKey client: %v", err)
	}
	t.Cleanup(client.Close)

	return client, port
}
