package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cdripper/internal/config"
	"cdripper/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.Publish(context.Background(), notifications.EventRipCompleted, notifications.Payload{"album": "Example"}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).Publish(context.Background(), notifications.EventTest, nil); err != nil {
		t.Fatalf("expected nil config to yield noop, got %v", err)
	}
}

func TestNtfyServiceFormatsPayloads(t *testing.T) {
	tests := []struct {
		name           string
		event          notifications.Event
		payload        notifications.Payload
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:  "rip started",
			event: notifications.EventRipStarted,
			payload: notifications.Payload{
				"artist": "Portishead",
				"album":  "Dummy",
				"tracks": 11,
			},
			expectTitle:   "cdrip - Rip Started",
			expectMessage: "Started ripping: Portishead - Dummy (11 tracks)",
			expectTags:    "cdrip,rip,started",
		},
		{
			name:  "rip completed",
			event: notifications.EventRipCompleted,
			payload: notifications.Payload{
				"artist":    "Portishead",
				"album":     "Dummy",
				"tracks":    11,
				"duration":  9*time.Minute + 400*time.Millisecond,
				"outputDir": "/music/Portishead/Dummy",
			},
			expectTitle:   "cdrip - Rip Complete",
			expectMessage: "💿 Rip complete: Portishead - Dummy\n11 tracks in 9m0s\n/music/Portishead/Dummy",
			expectTags:    "cdrip,rip,completed",
		},
		{
			name:  "rip failed",
			event: notifications.EventRipFailed,
			payload: notifications.Payload{
				"album":     "Dummy",
				"tracks":    11,
				"succeeded": 2,
				"error":     errors.New("encode failed on track 3"),
			},
			expectTitle:    "cdrip - Rip Failed",
			expectMessage:  "❌ Rip failed: Dummy (2/11 tracks ripped)\nencode failed on track 3",
			expectTags:     "cdrip,rip,failed",
			expectPriority: "high",
		},
		{
			name:  "error",
			event: notifications.EventError,
			payload: notifications.Payload{
				"context": "lookup",
				"error":   "network unreachable",
			},
			expectTitle:    "cdrip - Error",
			expectMessage:  "❌ Error with lookup: network unreachable",
			expectTags:     "cdrip,error,alert",
			expectPriority: "high",
		},
		{
			name:           "test",
			event:          notifications.EventTest,
			expectTitle:    "cdrip - Test",
			expectMessage:  "🧪 Notification system test",
			expectTags:     "cdrip,test",
			expectPriority: "low",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, _ := io.ReadAll(r.Body)
				captured.body = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := svc.Publish(context.Background(), tc.event, tc.payload); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceHonorsToggles(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.Rip = false
	cfg.Notifications.Errors = true

	svc := notifications.NewService(&cfg)
	ctx := context.Background()
	for _, event := range []notifications.Event{notifications.EventRipStarted, notifications.EventRipCompleted, notifications.Event("unknown")} {
		if err := svc.Publish(ctx, event, notifications.Payload{"album": "x"}); err != nil {
			t.Fatalf("expected suppressed event %s to return nil, got %v", event, err)
		}
	}
	if calls != 0 {
		t.Fatalf("expected no calls for suppressed events, got %d", calls)
	}
	if err := svc.Publish(ctx, notifications.EventRipFailed, notifications.Payload{"album": "x"}); err != nil {
		t.Fatalf("publish failure: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected failure notification to be sent, got %d calls", calls)
	}
}

func TestNtfyServiceReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "topic forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	err := notifications.NewService(&cfg).Publish(context.Background(), notifications.EventTest, nil)
	if err == nil || !strings.Contains(err.Error(), "ntfy returned 403: topic forbidden") {
		t.Fatalf("expected status error, got %v", err)
	}
}
