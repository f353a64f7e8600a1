package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/illenko/location-pay/config"
	"github.com/illenko/location-pay/flow"
	"github.com/illenko/location-pay/location"
	"github.com/illenko/location-pay/model"
	"github.com/illenko/location-pay/service"
)

type PaymentHandler struct {
	locations *location.Resolver
	submitter flow.Submitter
	mode      config.AmountMode
}

func NewPaymentHandler(locations *location.Resolver, submitter flow.Submitter, mode config.AmountMode) *PaymentHandler {
	return &PaymentHandler{locations: locations, submitter: submitter, mode: mode}
}

func (h *PaymentHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Title":     "Payments",
		"Year":      time.Now().Year(),
		"Locations": h.locations.All(),
	})
}

// PayPage renders the payment form in its idle state.
func (h *PaymentHandler) PayPage(c *gin.Context) {
	loc, ok := h.resolvePage(c)
	if !ok {
		return
	}
	page := flow.NewPage(loc, h.mode, h.submitter)
	c.HTML(http.StatusOK, "pay.html", h.pageData(page, ""))
}

// Pay is the form-post fallback used when the page script is unavailable.
func (h *PaymentHandler) Pay(c *gin.Context) {
	loc, ok := h.resolvePage(c)
	if !ok {
		return
	}

	var req model.PayRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.WarnContext(c.Request.Context(), "Invalid payment form", slog.Any("error", err))
	}

	page := flow.NewPage(loc, h.mode, h.submitter)
	page.Pay(c.Request.Context(), req.Amount)
	c.HTML(http.StatusOK, "pay.html", h.pageData(page, req.Amount))
}

func (h *PaymentHandler) Location(c *gin.Context) {
	loc, err := h.locations.Resolve(c.Param("locationId"))
	if err != nil {
		WriteErrorResponse(c, http.StatusNotFound, "Location not found", err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// Payment is the JSON endpoint called by the page script.
func (h *PaymentHandler) Payment(c *gin.Context) {
	ctx := c.Request.Context()

	loc, err := h.locations.Resolve(c.Param("locationId"))
	if err != nil {
		WriteErrorResponse(c, http.StatusNotFound, service.MsgUnknownPlace, err)
		return
	}

	var req model.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteErrorResponse(c, http.StatusBadRequest, service.MsgBadRequest, err)
		return
	}
	slog.InfoContext(ctx, "Payment request", slog.String("location", loc.ID), slog.String("amount", req.Amount))

	page := flow.NewPage(loc, h.mode, h.submitter)
	page.Pay(ctx, req.Amount)

	res := page.Result()
	if !res.Success() {
		WriteErrorResponse(c, statusFor(res.Err), res.Message, res.Err)
		return
	}
	WriteSuccessResponse(c, model.PayResponse{Success: true, Message: res.Message})
}

func (h *PaymentHandler) resolvePage(c *gin.Context) (model.Location, bool) {
	id := c.Param("locationId")
	loc, err := h.locations.Resolve(id)
	if err != nil {
		c.HTML(http.StatusNotFound, "not_found.html", gin.H{
			"Title":      "Location not found",
			"Year":       time.Now().Year(),
			"LocationID": id,
		})
		return model.Location{}, false
	}
	return loc, true
}

func (h *PaymentHandler) pageData(page *flow.Page, amount string) gin.H {
	loc := page.Location()
	label := "Pay"
	if page.Mode() == config.AmountFixed {
		label = "Pay $" + flow.FormatAmount(loc.Price)
	}
	return gin.H{
		"Title":    loc.Name + " Payments",
		"Year":     time.Now().Year(),
		"Location": loc,
		"Entered":  page.Mode() == config.AmountEntered,
		"Amount":   amount,
		"PayLabel": label,
		"State":    page.State(),
		"Success":  page.Result().Success(),

		"FailedMessage":  service.MsgFailed,
		"NetworkMessage": service.MsgNetwork,
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}

func WriteErrorResponse(c *gin.Context, status int, message string, err error) {
	slog.ErrorContext(c.Request.Context(), message, slog.Any("error", err))
	c.JSON(status, model.PayResponse{Success: false, Message: message})
}

func WriteSuccessResponse(c *gin.Context, res model.PayResponse) {
	c.JSON(http.StatusOK, res)
}
