package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/illenko/location-pay/model"
	"github.com/illenko/location-pay/observability/logging"
	"github.com/illenko/location-pay/observability/tracing"
)

const paymentPath = "/payment"

// NewRestyClient returns a client bound to the payment API. It never retries
// and has no timeout: a sent request runs to completion or failure.
func NewRestyClient(baseURL string) *resty.Client {
	return resty.NewWithClient(&http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}).
		SetBaseURL(baseURL).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetRetryCount(0)
}

type PaymentService struct {
	restyClient *resty.Client
	newID       func() string
	outcomes    metric.Int64Counter
}

func NewPaymentService(restyClient *resty.Client) *PaymentService {
	return newPaymentService(restyClient, tracing.M)
}

func newPaymentService(restyClient *resty.Client, meter metric.Meter) *PaymentService {
	outcomes, err := meter.Int64Counter("payment.submissions",
		metric.WithDescription("Payment submissions by outcome."))
	if err != nil {
		slog.Error("Failed to create payment outcome counter", slog.Any("error", err))
	}
	return &PaymentService{
		restyClient: restyClient,
		newID:       func() string { return uuid.New().String() },
		outcomes:    outcomes,
	}
}

// SubmitPayment sends one payment for loc and maps the response to a
// user-facing Result. It issues at most one HTTP request and never retries.
func (s *PaymentService) SubmitPayment(ctx context.Context, loc model.Location, amount float64) (res Result) {
	defer func() { s.record(ctx, res) }()

	if loc.ID == "" {
		return Result{Message: MsgUnknownPlace, Err: fmt.Errorf("%w: empty location", ErrValidation)}
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return Result{Message: MsgInvalidAmount, Err: fmt.Errorf("%w: amount %v", ErrValidation, amount)}
	}

	payReq := model.PaymentRequest{
		UUID:     s.newID(),
		Location: loc.ID,
		Amount:   amount,
	}

	ctx = logging.WithPayment(ctx, payReq.UUID, payReq.Location)
	ctx, span := tracing.T.Start(ctx, "paymentSubmit")
	defer span.End()
	span.SetAttributes(
		attribute.String("payment.uuid", payReq.UUID),
		attribute.String("payment.location", payReq.Location),
		attribute.Float64("payment.amount", payReq.Amount),
	)

	defer func() {
		if r := recover(); r != nil {
			res = Result{Message: MsgFailed, Err: fmt.Errorf("%w: %v", ErrTransport, r)}
		}
		if res.Err != nil {
			span.SetStatus(codes.Error, res.Err.Error())
			slog.WarnContext(ctx, "Payment failed", slog.String("message", res.Message), slog.Any("error", res.Err))
			return
		}
		slog.InfoContext(ctx, "Payment succeeded")
	}()

	slog.InfoContext(ctx, "Payment service call started", slog.Float64("amount", payReq.Amount))
	resp, err := s.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payReq).
		Post(paymentPath)
	if err != nil {
		return transportResult(err)
	}
	slog.InfoContext(ctx, "Payment service call completed", slog.Int("status", resp.StatusCode()))
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))

	return statusResult(resp.StatusCode(), resp.Body())
}

func statusResult(status int, body []byte) Result {
	switch {
	case status >= 200 && status < 300:
		return Result{Message: MsgSuccess}
	case status == http.StatusConflict:
		return Result{Message: MsgConflict, Err: ErrConflict}
	case status == http.StatusBadRequest:
		return Result{Message: MsgBadRequest, Err: ErrBadRequest}
	}

	msg := MsgFailed
	var errResp model.ErrorResponse
	if len(body) > 0 && json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		msg = errResp.Error
	}
	return Result{Message: msg, Err: fmt.Errorf("%w: status %d", ErrServer, status)}
}

// transportResult covers requests that produced no response at all.
func transportResult(err error) Result {
	wrapped := fmt.Errorf("%w: %w", ErrTransport, err)
	if isNetworkError(err) {
		return Result{Message: MsgNetwork, Err: wrapped}
	}
	return Result{Message: "Payment failed: " + err.Error(), Err: wrapped}
}

// isNetworkError reports whether the connection itself failed: dial, DNS,
// reset or a dropped connection. Errors raised before anything reached the
// wire, such as an unsupported scheme or a cancelled context, are not.
func isNetworkError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED), errors.Is(err, syscall.EPIPE):
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	}
	return false
}

func (s *PaymentService) record(ctx context.Context, res Result) {
	if s.outcomes == nil {
		return
	}
	s.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(res.Err))))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrServer):
		return "server_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	default:
		return "validation_error"
	}
}
