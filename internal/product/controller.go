package product

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
)

const maxSearchSKUs = 100

type Controller struct {
	useCase SearchUseCase
	logger  *zap.Logger
}

func NewController(useCase SearchUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleSearchProducts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	w.Header().Set("X-Trace-Id", traceID)

	var req SearchProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, apperrors.NewValidationError(apperrors.CodeInvalidFormat, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}))
		return
	}

	if err := c.validateSearchRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve)
		return
	}

	resp, err := c.useCase.SearchProducts(r.Context(), req)
	if err != nil {
		logger.Error("search products failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			TraceID:   traceID,
			Status:    http.StatusInternalServerError,
			Error:     "INTERNAL_ERROR",
			Code:      string(apperrors.CodeInternal),
			Message:   "an unexpected error occurred",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) validateSearchRequest(req SearchProductsRequest) error {
	if len(req.SKUs) == 0 {
		return apperrors.NewValidationError(apperrors.CodeInvalidItems, "skus is required", apperrors.ValidationDetail{
			Field:   "skus",
			Message: "skus must not be empty",
		})
	}

	if len(req.SKUs) > maxSearchSKUs {
		msg := "skus exceeds maximum of " + strconv.Itoa(maxSearchSKUs)
		return apperrors.NewValidationError(apperrors.CodeInvalidItems, msg, apperrors.ValidationDetail{
			Field:   "skus",
			Message: msg,
		})
	}

	var details []apperrors.ValidationDetail
	for idx, sku := range req.SKUs {
		sku = strings.TrimSpace(sku)
		if sku == "" || utf8.RuneCountInString(sku) > domain.MaxSKULength {
			details = append(details, apperrors.ValidationDetail{
				Field:   "skus[" + strconv.Itoa(idx) + "]",
				Message: "each sku must be 1 to " + strconv.Itoa(domain.MaxSKULength) + " characters",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError(apperrors.CodeInvalidItems, "validation failed", details...)
	}

	return nil
}

func (c *Controller) writeValidationError(w http.ResponseWriter, traceID string, ve *apperrors.ValidationError) {
	c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Error:     "VALIDATION_ERROR",
		Code:      string(ve.Code),
		Message:   ve.Message,
		Details:   ve.Details,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
