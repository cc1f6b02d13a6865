package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/halalcheck/halalcheck/pkg/storage"
)

// Azurite's published development account. Nothing in these tests
// contacts it.
const devConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func newSystem(t *testing.T) storage.System {
	t.Helper()
	sys, err := storage.New(
		&storage.Config{ContainerName: "reports", ConnectionString: devConnString},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return sys
}

func TestNew(t *testing.T) {
	newSystem(t)

	_, err := storage.New(
		&storage.Config{ContainerName: "reports", ConnectionString: "not-a-connection-string"},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	if err == nil {
		t.Fatal("New() accepted a malformed connection string")
	}
}

func TestRejectedKeys(t *testing.T) {
	sys := newSystem(t)
	ctx := context.Background()

	tests := []struct {
		key  string
		want error
	}{
		{"", storage.ErrEmptyKey},
		{"/reports/a.json", storage.ErrInvalidKey},
		{"reports/../secrets", storage.ErrInvalidKey},
		{"reports//a.json", storage.ErrInvalidKey},
		{"reports/./a.json", storage.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(strings.ReplaceAll(tt.key, "/", "_"), func(t *testing.T) {
			if err := sys.Put(ctx, tt.key, []byte("{}"), "application/json"); !errors.Is(err, tt.want) {
				t.Errorf("Put() error = %v, want %v", err, tt.want)
			}
			if _, err := sys.Open(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Open() error = %v, want %v", err, tt.want)
			}
			if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.want) {
				t.Errorf("Delete() error = %v, want %v", err, tt.want)
			}
		})
	}
}
