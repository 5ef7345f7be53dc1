package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cdripper/internal/config"
)

const userAgent = "cdrip/0.3.0"

// Event identifies a notification type.
type Event string

const (
	EventRipStarted   Event = "rip_started"
	EventRipCompleted Event = "rip_completed"
	EventRipFailed    Event = "rip_failed"
	EventNoMatch      Event = "lookup_no_match"
	EventError        Event = "error"
	EventTest         Event = "test"
)

// Payload carries event values keyed by name.
type Payload map[string]any

// Service publishes job events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		rip:      cfg.Notifications.Rip,
		errors:   cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	rip      bool
	errors   bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if n == nil || !n.enabled(event) {
		return nil
	}
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func (n *ntfyService) enabled(event Event) bool {
	switch event {
	case EventRipStarted, EventRipCompleted, EventNoMatch:
		return n.rip
	case EventRipFailed, EventError:
		return n.errors
	case EventTest:
		return true
	default:
		return false
	}
}

func format(event Event, payload Payload) (message, bool) {
	album := albumLabel(payload)
	switch event {
	case EventRipStarted:
		return message{
			title: "cdrip - Rip Started",
			body:  fmt.Sprintf("Started ripping: %s (%d tracks)", album, payload.number("tracks")),
			tags:  []string{"cdrip", "rip", "started"},
		}, true
	case EventRipCompleted:
		body := fmt.Sprintf("💿 Rip complete: %s", album)
		if tracks := payload.number("tracks"); tracks > 0 {
			body = fmt.Sprintf("%s\n%d tracks", body, tracks)
			if d, ok := payload["duration"].(time.Duration); ok && d > 0 {
				body = fmt.Sprintf("%s in %s", body, d.Round(time.Second))
			}
		}
		if dir := payload.text("outputDir"); dir != "" {
			body = fmt.Sprintf("%s\n%s", body, dir)
		}
		return message{
			title: "cdrip - Rip Complete",
			body:  body,
			tags:  []string{"cdrip", "rip", "completed"},
		}, true
	case EventRipFailed:
		body := fmt.Sprintf("❌ Rip failed: %s", album)
		if total := payload.number("tracks"); total > 0 {
			body = fmt.Sprintf("%s (%d/%d tracks ripped)", body, payload.number("succeeded"), total)
		}
		if detail := payload.text("error"); detail != "" {
			body = fmt.Sprintf("%s\n%s", body, detail)
		}
		return message{
			title:    "cdrip - Rip Failed",
			body:     body,
			tags:     []string{"cdrip", "rip", "failed"},
			priority: "high",
		}, true
	case EventNoMatch:
		return message{
			title: "cdrip - Unknown Disc",
			body:  fmt.Sprintf("No MusicBrainz match for %s\nManual entry required", payload.text("fingerprint")),
			tags:  []string{"cdrip", "lookup", "review"},
		}, true
	case EventError:
		var b strings.Builder
		b.WriteString("❌ Error")
		if label := payload.text("context"); label != "" {
			b.WriteString(" with ")
			b.WriteString(label)
		}
		b.WriteString(": ")
		if detail := payload.text("error"); detail != "" {
			b.WriteString(detail)
		} else {
			b.WriteString("unknown")
		}
		return message{
			title:    "cdrip - Error",
			body:     b.String(),
			tags:     []string{"cdrip", "error", "alert"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "cdrip - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"cdrip", "test"},
			priority: "low",
		}, true
	}
	return message{}, false
}

func albumLabel(payload Payload) string {
	artist := payload.text("artist")
	album := payload.text("album")
	switch {
	case artist != "" && album != "":
		return artist + " - " + album
	case album != "":
		return album
	case artist != "":
		return artist
	default:
		return "unknown album"
	}
}

func (p Payload) text(key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case error:
		return strings.TrimSpace(v.Error())
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

func (p Payload) number(key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
