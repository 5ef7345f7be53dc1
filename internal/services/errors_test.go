package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cdripper/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "rip", "encode", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"rip", "encode", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"not found", services.Wrap(services.ErrNotFound, "lookup", "", "no match", nil), "--manual"},
		{"config", services.Wrap(services.ErrConfiguration, "workflow", "preflight", "missing flac", nil), "cdrip doctor"},
		{"transient", services.Wrap(services.ErrTimeout, "musicbrainz", "", "slow", nil), "try again"},
		{"plain", errors.New("boom"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.Hint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Fatalf("expected no hint, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Fatalf("expected hint containing %q, got %q", tt.want, got)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := services.WithJobID(context.Background(), "job-1")
	ctx = services.WithDevice(ctx, "/dev/sr0")
	ctx = services.WithStage(ctx, "rip")
	if id, ok := services.JobIDFromContext(ctx); !ok || id != "job-1" {
		t.Fatalf("unexpected job id %q", id)
	}
	if dev, ok := services.DeviceFromContext(ctx); !ok || dev != "/dev/sr0" {
		t.Fatalf("unexpected device %q", dev)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "rip" {
		t.Fatalf("unexpected stage %q", stage)
	}
	if _, ok := services.JobIDFromContext(services.WithJobID(context.Background(), "")); ok {
		t.Fatal("expected empty job id to be ignored")
	}
}
