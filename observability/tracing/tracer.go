package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/illenko/location-pay"

// T and M delegate to the global providers, so they pick up whatever
// observability.Setup installs even when obtained before it runs.
var T trace.Tracer = otel.Tracer(instrumentationName)

var M metric.Meter = otel.Meter(instrumentationName)
