package controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	apperrors "orderdesk/internal/errors"
)

const maxBodyBytes = 1 << 20

type IntakeUseCase interface {
	CreateOrder(ctx context.Context, payload any) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ConfirmOrder(ctx context.Context, id string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id string) (*domain.Order, error)
}

type OrderController struct {
	useCase IntakeUseCase
	logger  *zap.Logger
}

func NewOrderController(useCase IntakeUseCase, logger *zap.Logger) *OrderController {
	return &OrderController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	var payload any
	if err := decodeBody(w, r, &payload); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.handleError(w, traceID, apperrors.NewValidationError(apperrors.CodeInvalidFormat, "invalid order format", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		}), logger)
		return
	}

	order, err := c.useCase.CreateOrder(r.Context(), payload)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	logger.Info("order accepted", zap.String("orderId", order.ID), zap.Int64("total", order.Total))
	c.writeJSON(w, http.StatusCreated, dto.CreateOrderResponse{
		OrderID:  order.ID,
		Total:    order.Total,
		Currency: order.Currency,
		Status:   string(order.State),
	})
}

// decodeBody reads exactly one JSON value; anything after it is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func (c *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	traceID, logger := c.trace(w)

	order, err := c.useCase.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	items := make([]dto.OrderItemDTO, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.OrderItemDTO{
			SKU:   item.SKU,
			Name:  item.Name,
			Price: item.UnitPrice,
			Qty:   item.Quantity,
		}
	}

	c.writeJSON(w, http.StatusOK, dto.GetOrderResponse{
		OrderID:  order.ID,
		Items:    items,
		Total:    order.Total,
		Currency: order.Currency,
		TS:       order.ClientTS,
		Source:   order.Source,
		Status:   string(order.State),
	})
}

func (c *OrderController) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.useCase.ConfirmOrder)
}

func (c *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	c.changeStatus(w, r, c.useCase.CancelOrder)
}

func (c *OrderController) changeStatus(w http.ResponseWriter, r *http.Request, change func(context.Context, string) (*domain.Order, error)) {
	traceID, logger := c.trace(w)

	order, err := change(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.OrderStatusResponse{
		OrderID: order.ID,
		Status:  string(order.State),
	})
}

func (c *OrderController) trace(w http.ResponseWriter) (string, *zap.Logger) {
	traceID := uuid.New().String()
	w.Header().Set("X-Trace-Id", traceID)
	return traceID, c.logger.With(zap.String("traceId", traceID))
}

func (c *OrderController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		logger.Info("order request rejected", zap.String("code", string(ve.Code)), zap.String("reason", ve.Message))
		c.writeErrorResponse(w, traceID, http.StatusBadRequest, "VALIDATION_ERROR", ve.Code, ve.Message, ve.Details)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", apperrors.CodeNotFound, nfe.Message, nil)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", ce.Code, ce.Message, nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", apperrors.CodeOf(err), "an unexpected error occurred", nil)
}

func (c *OrderController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, errorName string, code apperrors.Code, message string, details []apperrors.ValidationDetail) {
	c.writeJSON(w, statusCode, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Error:     errorName,
		Code:      string(code),
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
