package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"movie-booking/internal/dto/request"
	"movie-booking/internal/dto/response"
	"movie-booking/internal/usecase"
	"movie-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SignInPath is where an unauthenticated submission is sent.
const SignInPath = "/api/login"

type CheckoutHandler struct {
	service usecase.CheckoutService
	log     *zap.Logger
}

func NewCheckoutHandler(service usecase.CheckoutService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		log:     log.With(zap.String("handler", "checkout")),
	}
}

// authUser reads the optional session set by middleware.OptionalAuth.
func authUser(r *http.Request) *usecase.AuthUser {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	email, _ := utils.GetEmailFromContext(r.Context())
	return &usecase.AuthUser{ID: userID, Email: email}
}

// decodeBody writes the 400 itself and reports false on a bad body.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

// Open handles POST /api/checkouts
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req request.OpenCheckoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	checkout, err := h.service.Open(r.Context(), &req, authUser(r))
	if err != nil {
		h.handleServiceError(w, err, nil, "open checkout")
		return
	}

	utils.ResponseCreated(w, "success", checkout)
}

// Get handles GET /api/checkouts/{id}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, checkout, err, "get checkout")
}

// Showtimes handles GET /api/checkouts/{id}/showtimes
func (h *CheckoutHandler) Showtimes(w http.ResponseWriter, r *http.Request) {
	showtimes, err := h.service.Showtimes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, nil, "get checkout showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}

// SelectDate handles PUT /api/checkouts/{id}/date
func (h *CheckoutHandler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req request.SelectDateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	checkout, err := h.service.SelectDate(r.Context(), chi.URLParam(r, "id"), &req)
	h.respond(w, checkout, err, "select date")
}

// PickShowtime handles PUT /api/checkouts/{id}/showtime
func (h *CheckoutHandler) PickShowtime(w http.ResponseWriter, r *http.Request) {
	var req request.PickShowtimeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	checkout, err := h.service.PickShowtime(r.Context(), chi.URLParam(r, "id"), &req)
	h.respond(w, checkout, err, "pick showtime")
}

// SetSeats handles PUT /api/checkouts/{id}/seats
func (h *CheckoutHandler) SetSeats(w http.ResponseWriter, r *http.Request) {
	var req request.SetSeatsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	checkout, err := h.service.SetSeats(r.Context(), chi.URLParam(r, "id"), &req)
	h.respond(w, checkout, err, "set seats")
}

// OpenSeatMap handles POST /api/checkouts/{id}/seat-map
func (h *CheckoutHandler) OpenSeatMap(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.service.OpenSeatMap(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, checkout, err, "open seat map")
}

// ToggleSeat handles POST /api/checkouts/{id}/seat-map/toggle
func (h *CheckoutHandler) ToggleSeat(w http.ResponseWriter, r *http.Request) {
	var req request.ToggleSeatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	checkout, err := h.service.ToggleSeat(r.Context(), chi.URLParam(r, "id"), &req)
	h.respond(w, checkout, err, "toggle seat")
}

// ConfirmSeats handles POST /api/checkouts/{id}/seat-map/confirm
func (h *CheckoutHandler) ConfirmSeats(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.service.ConfirmSeats(r.Context(), chi.URLParam(r, "id"), authUser(r))
	h.respond(w, checkout, err, "confirm seats")
}

// ChoosePaymentMethod handles PUT /api/checkouts/{id}/payment-method
func (h *CheckoutHandler) ChoosePaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentMethodRequest
	if !decodeBody(w, r, &req) {
		return
	}

	checkout, err := h.service.ChoosePaymentMethod(r.Context(), chi.URLParam(r, "id"), &req)
	h.respond(w, checkout, err, "choose payment method")
}

// Pay handles POST /api/checkouts/{id}/pay
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.service.Pay(r.Context(), chi.URLParam(r, "id"), authUser(r))
	h.respond(w, checkout, err, "pay")
}

// Back handles POST /api/checkouts/{id}/back
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.service.Back(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, checkout, err, "go back")
}

// Done handles POST /api/checkouts/{id}/done
func (h *CheckoutHandler) Done(w http.ResponseWriter, r *http.Request) {
	checkout, err := h.service.Done(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, checkout, err, "finish checkout")
}

// Close handles DELETE /api/checkouts/{id}
func (h *CheckoutHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Close(r.Context(), chi.URLParam(r, "id"), authUser(r)); err != nil {
		h.handleServiceError(w, err, nil, "close checkout")
		return
	}

	utils.ResponseSuccess(w, "Checkout closed", nil)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, checkout *response.CheckoutResponse, err error, operation string) {
	if err != nil {
		h.handleServiceError(w, err, checkout, operation)
		return
	}
	utils.ResponseSuccess(w, "success", checkout)
}

// handleServiceError maps checkout errors to status codes. A failed
// submission answers 422 with the reverted checkout as data.
func (h *CheckoutHandler) handleServiceError(w http.ResponseWriter, err error, checkout *response.CheckoutResponse, operation string) {
	errMsg := err.Error()

	var lifecycleErr *usecase.LifecycleError

	switch {
	case errors.Is(err, usecase.ErrAuthenticationRequired):
		h.log.Info(operation+" needs sign in", zap.String("operation", operation))
		utils.ResponseSignInRequired(w, errMsg, SignInPath)

	case errors.As(err, &lifecycleErr):
		h.log.Warn(operation+" failed - booking lifecycle",
			zap.Error(err),
			zap.String("op", lifecycleErr.Op))
		utils.ResponseUnprocessable(w, errMsg, checkout)

	case errors.Is(err, usecase.ErrCheckoutForbidden):
		h.log.Warn(operation+" failed - not the owner", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	case errors.Is(err, usecase.ErrCheckoutNotFound),
		strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case errors.Is(err, usecase.ErrInvalidTransition),
		errors.Is(err, usecase.ErrCheckoutBusy),
		errors.Is(err, usecase.ErrHousefull),
		errors.Is(err, usecase.ErrShowtimeUnavailable),
		errors.Is(err, usecase.ErrPaymentMethodRequired),
		errors.Is(err, usecase.ErrSeatSelectionIncomplete):
		h.log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseConflict(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"),
		strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation, zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
