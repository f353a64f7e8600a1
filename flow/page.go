// Package flow holds the per-page payment state machine:
// Idle -> Submitting -> (Success | Failure). The message persists until the
// next attempt replaces it.
package flow

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/illenko/location-pay/config"
	"github.com/illenko/location-pay/model"
	"github.com/illenko/location-pay/service"
)

type Submitter interface {
	SubmitPayment(ctx context.Context, loc model.Location, amount float64) service.Result
}

type State struct {
	Loading bool
	Message string
}

// Page owns the UI state of one rendered payment page.
type Page struct {
	location  model.Location
	mode      config.AmountMode
	submitter Submitter

	mu    sync.Mutex
	state State
	last  service.Result
}

func NewPage(loc model.Location, mode config.AmountMode, submitter Submitter) *Page {
	return &Page{location: loc, mode: mode, submitter: submitter}
}

func (p *Page) Location() model.Location {
	return p.location
}

func (p *Page) Mode() config.AmountMode {
	return p.mode
}

func (p *Page) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Result returns the outcome of the most recent attempt.
func (p *Page) Result() service.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Pay runs one submission attempt. amountInput is ignored in fixed mode.
// It returns false without doing anything while a previous attempt is still
// loading; this mirrors the disabled pay button and is not a lock across pages.
func (p *Page) Pay(ctx context.Context, amountInput string) bool {
	p.mu.Lock()
	if p.state.Loading {
		p.mu.Unlock()
		return false
	}

	amount, err := p.amount(amountInput)
	if err != nil {
		p.last = service.Result{Message: service.MsgInvalidAmount, Err: err}
		p.state = State{Message: service.MsgInvalidAmount}
		p.mu.Unlock()
		return true
	}

	p.state = State{Loading: true}
	p.mu.Unlock()

	res := service.Result{Message: service.MsgFailed, Err: fmt.Errorf("%w: submission aborted", service.ErrTransport)}
	defer func() {
		p.mu.Lock()
		p.last = res
		p.state = State{Loading: false, Message: res.Message}
		p.mu.Unlock()
	}()

	res = p.submitter.SubmitPayment(ctx, p.location, amount)
	return true
}

func (p *Page) amount(input string) (float64, error) {
	if p.mode != config.AmountEntered {
		return p.location.Price, nil
	}
	return ParseAmount(input)
}

// ParseAmount accepts a positive decimal such as "12" or "4.50".
func ParseAmount(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: amount is required", service.ErrValidation)
	}
	d, err := decimal.NewFromString(input)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", service.ErrValidation, input)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: amount %s is not positive", service.ErrValidation, d)
	}
	return d.InexactFloat64(), nil
}

// FormatAmount renders an amount with two decimals, e.g. 4.5 -> "4.50".
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
