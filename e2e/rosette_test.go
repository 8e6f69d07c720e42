//go:build e2e

package e2e

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rosette-api/rosette-sdk-go/pkg/apierror"
	"github.com/rosette-api/rosette-sdk-go/pkg/config"
	"github.com/rosette-api/rosette-sdk-go/pkg/sdk"
)

func serviceURL() string {
	if u := os.Getenv("ROSETTE_SERVICE_URL"); u != "" {
		return u
	}
	return config.DefaultServiceURL
}

func TestPingLive(t *testing.T) {
	key := os.Getenv("ROSETTE_USER_KEY")
	if key == "" {
		t.Skip("ROSETTE_USER_KEY not set")
	}
	c, err := sdk.New(&config.Config{ServiceURL: serviceURL(), UserKey: key})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := c.Ping(ctx)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if result["message"] == nil {
		t.Fatalf("unexpected ping reply %v", result)
	}
}

func TestLanguageLive(t *testing.T) {
	key := os.Getenv("ROSETTE_USER_KEY")
	if key == "" {
		t.Skip("ROSETTE_USER_KEY not set")
	}
	c, err := sdk.New(&config.Config{ServiceURL: serviceURL(), UserKey: key})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	result, err := c.Language(ctx, "Por favor, ¿dónde está el baño?")
	if err != nil {
		t.Fatalf("Language: %v", err)
	}
	if result["languageDetections"] == nil {
		t.Fatalf("unexpected language reply %v", result)
	}
}

// TestBogusKeyLive verifies that the public service rejects an invalid key.
func TestBogusKeyLive(t *testing.T) {
	if os.Getenv("ROSETTE_E2E_NETWORK") == "" {
		t.Skip("ROSETTE_E2E_NETWORK not set")
	}
	c, err := sdk.New(&config.Config{UserKey: "bogus_key", Retries: 1})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = c.Language(ctx, "This is a test")
	var e *apierror.Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if e.HTTPStatus != 401 && e.HTTPStatus != 403 {
		t.Fatalf("HTTPStatus = %d (%v)", e.HTTPStatus, e)
	}
}
