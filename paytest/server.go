// Package paytest runs a fake payment API for tests and local development.
package paytest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/illenko/location-pay/model"
)

// Responder decides the status and optional JSON body for a received payment.
// A nil body writes no content.
type Responder func(req model.PaymentRequest) (status int, body any)

// Server is a fake payment API that records every POST /payment it receives.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	requests  []model.PaymentRequest
	responder Responder
	hold      chan struct{}
}

func Status(status int, body any) Responder {
	return func(model.PaymentRequest) (int, any) { return status, body }
}

// New returns an unstarted fake; mount Router() to serve it.
func New(responder Responder) *Server {
	return &Server{responder: responder}
}

// NewServer starts the fake on a local httptest listener.
func NewServer(responder Responder) *Server {
	gin.SetMode(gin.TestMode)
	s := New(responder)
	s.Server = httptest.NewServer(s.Router())
	return s
}

// Router exposes the fake API routes so it can also be mounted by a dev server.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.POST("/payment", s.paymentHandler)
	return router
}

func (s *Server) paymentHandler(c *gin.Context) {
	var paymentReq model.PaymentRequest
	if err := c.ShouldBindJSON(&paymentReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, paymentReq)
	responder, hold := s.responder, s.hold
	s.mu.Unlock()

	if hold != nil {
		<-hold
	}

	status, body := http.StatusOK, any(gin.H{"status": "success"})
	if responder != nil {
		status, body = responder(paymentReq)
	}
	if body == nil {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

// Hold makes subsequent requests block until the returned release func is
// called, which lets tests observe a submission while it is in flight.
func (s *Server) Hold() (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.hold = nil
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Server) SetResponder(responder Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responder = responder
}

func (s *Server) Requests() []model.PaymentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PaymentRequest, len(s.requests))
	copy(out, s.requests)
	return out
}
