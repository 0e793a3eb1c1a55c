package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName prefixes every tracer created by this module
const InstrumentationName = "thoughtgraph"

// Tracer returns a named tracer from the global provider. Without a configured
// provider the otel no-op tracer is returned.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(InstrumentationName + "." + component)
}

// GraphAttributes describes the shape of a snapshot on a span
func GraphAttributes(sessions, ideas, parentLinks, tagLinks, skipped int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int("graph.sessions", sessions),
		attribute.Int("graph.ideas", ideas),
		attribute.Int("graph.parent_links", parentLinks),
		attribute.Int("graph.tag_links", tagLinks),
		attribute.Int("graph.skipped", skipped),
	}
}
