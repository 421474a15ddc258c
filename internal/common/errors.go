package common

import (
	"errors"
	"net/http"

	"foodtruck/internal/models"

	"github.com/labstack/echo/v4"
)

// Order placement failures surfaced to the caller verbatim.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrMissingPickupTime   = errors.New("pickup date and time are required for pickup orders")
	ErrDifferentRestaurant = models.ErrDifferentFoodTruck
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrClosedForPickupTime = errors.New("food truck is closed at the requested pickup time")
	ErrOrderCreationFailed = errors.New("order could not be created")
	ErrAmountMismatch      = errors.New("order amount does not match the cart total")
	ErrInvalidCard         = errors.New("card details are invalid")
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidTransition  = errors.New("order status change not allowed")
	ErrFeedbackExists     = errors.New("feedback already submitted for this order")
	ErrFeedbackNotAllowed = errors.New("feedback can only be left on fulfilled orders")
	ErrItemNotFound       = errors.New("item not found")
	ErrTruckNotFound      = errors.New("food truck not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidSchedule    = errors.New("invalid schedule")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrSlugTaken          = errors.New("slug is already in use")
	ErrCategoryExists     = errors.New("category already exists")
	ErrItemInUse          = errors.New("item is referenced by existing orders")
	ErrForbidden          = errors.New("not allowed")
)

// ValidationError names the offending request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

type errorMapping struct {
	err    error
	status int
	code   string
}

var domainErrors = []errorMapping{
	{ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
	{ErrMissingPickupTime, http.StatusBadRequest, "MISSING_PICKUP_TIME"},
	{ErrAmountMismatch, http.StatusBadRequest, "AMOUNT_MISMATCH"},
	{ErrInvalidCard, http.StatusBadRequest, "INVALID_CARD"},
	{ErrInvalidSchedule, http.StatusBadRequest, "INVALID_SCHEDULE"},
	{ErrInvalidAmount, http.StatusBadRequest, "INVALID_AMOUNT"},
	{ErrDifferentRestaurant, http.StatusConflict, "DIFFERENT_RESTAURANT"},
	{ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
	{ErrFeedbackExists, http.StatusConflict, "FEEDBACK_EXISTS"},
	{ErrFeedbackNotAllowed, http.StatusConflict, "FEEDBACK_NOT_ALLOWED"},
	{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
	{ErrSlugTaken, http.StatusConflict, "SLUG_TAKEN"},
	{ErrCategoryExists, http.StatusConflict, "CATEGORY_EXISTS"},
	{ErrItemInUse, http.StatusConflict, "ITEM_IN_USE"},
	{ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
	{ErrClosedForPickupTime, http.StatusUnprocessableEntity, "CLOSED_FOR_PICKUP_TIME"},
	{ErrWalletNotFound, http.StatusNotFound, "WALLET_NOT_FOUND"},
	{ErrCustomerNotFound, http.StatusNotFound, "CUSTOMER_NOT_FOUND"},
	{ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
	{ErrItemNotFound, http.StatusNotFound, "ITEM_NOT_FOUND"},
	{ErrTruckNotFound, http.StatusNotFound, "FOOD_TRUCK_NOT_FOUND"},
	{ErrCategoryNotFound, http.StatusNotFound, "CATEGORY_NOT_FOUND"},
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrOrderCreationFailed, http.StatusInternalServerError, "ORDER_CREATION_FAILED"},
}

// StatusForError returns the HTTP status and error code a service error maps to.
func StatusForError(err error) (int, string) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, "VALIDATION_ERROR"
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, "SERVER_ERROR"
}

// SendDomainError renders a service error. Unknown errors become a generic 500.
func SendDomainError(c echo.Context, err error) error {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return SendValidationError(c, vErr.Field, vErr.Message)
	}

	status, code := StatusForError(err)
	if status == http.StatusInternalServerError {
		message := "Internal server error"
		if errors.Is(err, ErrOrderCreationFailed) {
			message = ErrOrderCreationFailed.Error()
		}
		return c.JSON(status, CreateErrorResponse(code, message, nil))
	}
	return c.JSON(status, CreateErrorResponse(code, rootMessage(err), nil))
}

// rootMessage prefers the sentinel text over wrapped internal context.
func rootMessage(err error) string {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.err.Error()
		}
	}
	return err.Error()
}

// IsDomainError reports whether err is one of the known service errors,
// as opposed to an infrastructure failure.
func IsDomainError(err error) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return true
	}
	status, _ := StatusForError(err)
	return status != http.StatusInternalServerError
}
