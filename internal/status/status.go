// Package status decouples operator-facing narration from any particular
// transport. Credential discovery and the background watchers publish
// progress here; the server forwards it to connected browsers.
package status

import "log"

// Sink receives narration and structured events from the core.
type Sink interface {
	// Publish emits a human-readable status line. kind is a coarse
	// category such as "info", "success", "warning" or "error".
	Publish(kind, message string)
	// PublishData emits a named event with a JSON-marshalable payload,
	// e.g. the roster discovered by the analyze watcher.
	PublishData(event string, payload any)
}

// LogSink writes narration to the process log. It is the fallback sink when
// no browser is connected and the sink used by the CLI entrypoint.
type LogSink struct{}

func (LogSink) Publish(kind, message string) {
	log.Printf("[%s] %s", kind, message)
}

func (LogSink) PublishData(event string, payload any) {
	log.Printf("[event] %s: %+v", event, payload)
}

// Tee fans narration out to several sinks.
type Tee []Sink

func (t Tee) Publish(kind, message string) {
	for _, s := range t {
		s.Publish(kind, message)
	}
}

func (t Tee) PublishData(event string, payload any) {
	for _, s := range t {
		s.PublishData(event, payload)
	}
}
