// Package notifications delivers job events via ntfy.
//
// The default implementation publishes to the topic URL configured in
// config.toml and degrades to a no-op when no topic is set. Rip and error
// events can be toggled independently so a quiet setup can still report
// failures.
package notifications
