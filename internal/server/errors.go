package server

import (
	"errors"
	"net/http"

	appdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/application/domain"
	authdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/auth/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/authorization"
	billingdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/billing/domain"
	documentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/document/domain"
	taskdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/fieldtask/domain"
	"github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/observability/logger"
	operationsdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/operations/domain"
	paymentdomain "github.com/Mr-strangerX11/Nepal-Electricity-Authority/internal/payment/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrRateLimited        = errors.New("rate_limited")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrInternal           = errors.New("internal_error")
)

// ValidationError is raised by handlers for malformed input on a single field.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Code
}

func newValidationError(field string, code string, message string) error {
	return &ValidationError{Field: field, Code: code, Message: message}
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

var (
	unauthorizedErrors = []error{
		ErrUnauthorized,
		authdomain.ErrMissingCredential,
		authdomain.ErrInvalidCredential,
		authdomain.ErrExpiredCredential,
		authdomain.ErrInvalidRole,
	}
	forbiddenErrors = []error{
		ErrForbidden,
		authorization.ErrForbidden,
		authorization.ErrInvalidActor,
		taskdomain.ErrNotAssignee,
	}
	notFoundErrors = []error{
		ErrNotFound,
		appdomain.ErrNotFound,
		taskdomain.ErrNotFound,
		taskdomain.ErrStaffNotFound,
		billingdomain.ErrNotFound,
		documentdomain.ErrNotFound,
		paymentdomain.ErrAttemptNotFound,
		paymentdomain.ErrProviderNotFound,
	}
	conflictErrors = []error{
		appdomain.ErrConcurrentUpdate,
		taskdomain.ErrStaffClaimConflict,
		taskdomain.ErrNoStaffAvailable,
		taskdomain.ErrActiveTaskExists,
		taskdomain.ErrNotAssignable,
	}
	unavailableErrors = []error{
		ErrServiceUnavailable,
		documentdomain.ErrVerifierUnavailable,
		paymentdomain.ErrGatewayFailure,
		paymentdomain.ErrInvalidConfig,
	}
)

func isApplicationValidationError(err error) bool {
	return isOneOf(err,
		appdomain.ErrInvalidConnectionType,
		appdomain.ErrInvalidConnectionLoad,
		appdomain.ErrInvalidServiceAddress,
		appdomain.ErrInvalidCity,
		appdomain.ErrInvalidStatus,
		appdomain.ErrInvalidPriority,
		appdomain.ErrInvalidMeterNumber,
		appdomain.ErrInvalidDateRange,
		appdomain.ErrInvalidTransition,
	)
}

func isTaskValidationError(err error) bool {
	return isOneOf(err,
		taskdomain.ErrInvalidStaff,
		taskdomain.ErrInvalidStaffName,
		taskdomain.ErrInvalidApplication,
		taskdomain.ErrInvalidStatus,
		taskdomain.ErrInvalidTransition,
		taskdomain.ErrInvalidDuration,
		taskdomain.ErrInvalidCoordinates,
		taskdomain.ErrInvalidDays,
		taskdomain.ErrProofRequired,
	)
}

func isBillingValidationError(err error) bool {
	return isOneOf(err,
		billingdomain.ErrInvalidApplication,
		billingdomain.ErrInvalidBillingPeriod,
		billingdomain.ErrInvalidUsageUnits,
		billingdomain.ErrInvalidRate,
		billingdomain.ErrInvalidTax,
		billingdomain.ErrInvalidTaxPercentage,
		billingdomain.ErrInvalidPercentage,
		billingdomain.ErrInvalidMaxFee,
		billingdomain.ErrInvalidDateRange,
		billingdomain.ErrBillAlreadyPaid,
	)
}

func isPaymentValidationError(err error) bool {
	return isOneOf(err,
		paymentdomain.ErrInvalidProvider,
		paymentdomain.ErrInvalidReference,
		paymentdomain.ErrInvalidAmount,
	)
}

func isDocumentValidationError(err error) bool {
	return isOneOf(err,
		documentdomain.ErrInvalidDocumentType,
		documentdomain.ErrInvalidFileURL,
	)
}

func isOperationsValidationError(err error) bool {
	return isOneOf(err,
		operationsdomain.ErrUnknownReportKind,
		operationsdomain.ErrInvalidDateRange,
	)
}

func isOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps an error onto its HTTP status code.
func statusFor(err error) int {
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case isOneOf(err, unauthorizedErrors...):
		return http.StatusUnauthorized
	case isOneOf(err, forbiddenErrors...):
		return http.StatusForbidden
	case isOneOf(err, notFoundErrors...):
		return http.StatusNotFound
	case isOneOf(err, conflictErrors...):
		return http.StatusConflict
	case isOneOf(err, unavailableErrors...):
		return http.StatusServiceUnavailable
	case isApplicationValidationError(err),
		isTaskValidationError(err),
		isBillingValidationError(err),
		isPaymentValidationError(err),
		isDocumentValidationError(err),
		isOperationsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the failure envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		err = ErrInternal
	}
	status := statusFor(err)

	body := gin.H{"success": false}
	var validation *ValidationError
	switch {
	case errors.As(err, &validation):
		body["message"] = validation.Code
		body["field"] = validation.Field
		if validation.Message != "" {
			body["detail"] = validation.Message
		}
	case status == http.StatusInternalServerError:
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		body["message"] = ErrInternal.Error()
	case status == http.StatusServiceUnavailable:
		body["message"] = rootMessage(err)
	default:
		body["message"] = err.Error()
	}

	c.AbortWithStatusJSON(status, body)
}

// rootMessage hides wrapped transport details from unavailable collaborators.
func rootMessage(err error) string {
	for _, target := range unavailableErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}
