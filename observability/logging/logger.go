package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	slogotel "github.com/remychantenay/slog-otel"
)

type ctxKey int

const (
	paymentIDKey ctxKey = iota
	locationKey
)

// WithPayment stores the payment uuid and location id so that every record
// logged with ctx carries them.
func WithPayment(ctx context.Context, paymentID, locationID string) context.Context {
	ctx = context.WithValue(ctx, paymentIDKey, paymentID)
	return context.WithValue(ctx, locationKey, locationID)
}

func HandlerWithPaymentContext(handler slog.Handler) *PaymentContextHandler {
	return &PaymentContextHandler{Handler: handler}
}

type PaymentContextHandler struct {
	slog.Handler
}

func (h *PaymentContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := ctx.Value(paymentIDKey).(string); ok && id != "" {
		record.AddAttrs(slog.String("paymentId", id))
	}
	if loc, ok := ctx.Value(locationKey).(string); ok && loc != "" {
		record.AddAttrs(slog.String("location", loc))
	}
	return h.Handler.Handle(ctx, record)
}

func (h *PaymentContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &PaymentContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *PaymentContextHandler) WithGroup(name string) slog.Handler {
	return &PaymentContextHandler{Handler: h.Handler.WithGroup(name)}
}

// New builds the JSON logger used across the service: payment attributes
// first, then trace correlation from slog-otel.
func New(w io.Writer, level string) *slog.Logger {
	json := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(HandlerWithPaymentContext(slogotel.OtelHandler{Next: json}))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
