package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/illenko/location-pay/config"
	"github.com/illenko/location-pay/model"
	"github.com/illenko/location-pay/service"
)

var cafe = model.Location{ID: "cafe", Name: "Corner Cafe", Price: 4.5}

type submitCall struct {
	loc    model.Location
	amount float64
}

// fakeSubmitter records calls and optionally blocks until released.
type fakeSubmitter struct {
	mu      sync.Mutex
	once    sync.Once
	calls   []submitCall
	result  service.Result
	started chan struct{}
	release chan struct{}
	panics  bool
}

func (f *fakeSubmitter) SubmitPayment(ctx context.Context, loc model.Location, amount float64) service.Result {
	f.mu.Lock()
	f.calls = append(f.calls, submitCall{loc: loc, amount: amount})
	f.mu.Unlock()

	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("boom")
	}
	return f.result
}

func (f *fakeSubmitter) Calls() []submitCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]submitCall(nil), f.calls...)
}

func TestPayFixedAmount(t *testing.T) {
	sub := &fakeSubmitter{result: service.Result{Message: service.MsgSuccess}}
	page := NewPage(cafe, config.AmountFixed, sub)

	if !page.Pay(context.Background(), "999") {
		t.Fatal("Pay() = false on idle page")
	}

	calls := sub.Calls()
	if len(calls) != 1 {
		t.Fatalf("submitter called %d times, want 1", len(calls))
	}
	if calls[0].loc.ID != "cafe" || calls[0].amount != 4.5 {
		t.Errorf("call = %+v, want fixed price 4.5 for cafe", calls[0])
	}

	state := page.State()
	if state.Loading {
		t.Error("Loading = true after completion")
	}
	if !strings.Contains(state.Message, "successful") {
		t.Errorf("Message = %q", state.Message)
	}
	if !page.Result().Success() {
		t.Errorf("Result() = %+v, want success", page.Result())
	}
}

func TestPayEnteredAmount(t *testing.T) {
	tests := []struct {
		input      string
		wantAmount float64
		wantCall   bool
	}{
		{input: "12", wantAmount: 12, wantCall: true},
		{input: " 4.50 ", wantAmount: 4.5, wantCall: true},
		{input: "0.01", wantAmount: 0.01, wantCall: true},
		{input: ""},
		{input: "abc"},
		{input: "0"},
		{input: "-5"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			sub := &fakeSubmitter{result: service.Result{Message: service.MsgSuccess}}
			page := NewPage(cafe, config.AmountEntered, sub)

			page.Pay(context.Background(), tt.input)

			calls := sub.Calls()
			if !tt.wantCall {
				if len(calls) != 0 {
					t.Fatalf("submitter called for invalid amount %q", tt.input)
				}
				if got := page.State(); got.Loading || got.Message != service.MsgInvalidAmount {
					t.Errorf("State() = %+v, want invalid amount message", got)
				}
				if !errors.Is(page.Result().Err, service.ErrValidation) {
					t.Errorf("Result().Err = %v, want ErrValidation", page.Result().Err)
				}
				return
			}
			if len(calls) != 1 || calls[0].amount != tt.wantAmount {
				t.Fatalf("calls = %+v, want one call with amount %v", calls, tt.wantAmount)
			}
		})
	}
}

func TestPayFailureOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		result service.Result
	}{
		{name: "conflict", result: service.Result{Message: service.MsgConflict, Err: service.ErrConflict}},
		{name: "bad request", result: service.Result{Message: service.MsgBadRequest, Err: service.ErrBadRequest}},
		{name: "network", result: service.Result{Message: service.MsgNetwork, Err: service.ErrTransport}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(cafe, config.AmountFixed, &fakeSubmitter{result: tt.result})
			page.Pay(context.Background(), "")

			state := page.State()
			if state.Loading {
				t.Error("Loading = true after failure")
			}
			if state.Message != tt.result.Message {
				t.Errorf("Message = %q, want %q", state.Message, tt.result.Message)
			}
		})
	}
}

func TestPayIgnoredWhileLoading(t *testing.T) {
	sub := &fakeSubmitter{
		result:  service.Result{Message: service.MsgSuccess},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	page := NewPage(cafe, config.AmountFixed, sub)

	done := make(chan bool)
	go func() { done <- page.Pay(context.Background(), "") }()

	select {
	case <-sub.started:
	case <-time.After(5 * time.Second):
		t.Fatal("submission did not start")
	}

	state := page.State()
	if !state.Loading {
		t.Error("Loading = false while submission in flight")
	}
	if state.Message != "" {
		t.Errorf("Message = %q, want cleared while loading", state.Message)
	}
	if page.Pay(context.Background(), "") {
		t.Error("second Pay() while loading = true, want no-op")
	}

	close(sub.release)
	if !<-done {
		t.Error("first Pay() = false")
	}

	if n := len(sub.Calls()); n != 1 {
		t.Errorf("submitter called %d times, want 1", n)
	}
	if page.State().Loading {
		t.Error("Loading = true after completion")
	}
	if !page.Pay(context.Background(), "") {
		t.Error("Pay() after completion = false, want control re-enabled")
	}
}

func TestPayClearsLoadingOnPanic(t *testing.T) {
	page := NewPage(cafe, config.AmountFixed, &fakeSubmitter{panics: true})

	func() {
		defer func() { _ = recover() }()
		page.Pay(context.Background(), "")
	}()

	state := page.State()
	if state.Loading {
		t.Error("Loading = true after panic")
	}
	if state.Message != service.MsgFailed {
		t.Errorf("Message = %q, want %q", state.Message, service.MsgFailed)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[float64]string{
		4.5:    "4.50",
		12:     "12.00",
		0.1:    "0.10",
		19.999: "20.00",
	}
	for in, want := range tests {
		if got := FormatAmount(in); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
