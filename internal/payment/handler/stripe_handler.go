package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ms-eventhub/internal/logger"
	"ms-eventhub/internal/models"
	"ms-eventhub/internal/payment/services"
	"ms-eventhub/internal/payment/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// OrderReader looks up the order a payment is being opened for.
type OrderReader interface {
	GetOrderByID(id string) (*models.Order, error)
}

// Notifier forwards a provider outcome to the order lifecycle. The gateway
// never mutates orders itself; the ticketing API owns the state machine.
type Notifier interface {
	Notify(n models.PaymentNotification) error
}

type StripeHandler struct {
	stripeService *services.StripeService
	paymentStore  storage.Store
	orders        OrderReader
	notifier      Notifier
	webhookSecret string
	logger        *logger.Logger
}

func NewStripeHandler(stripeService *services.StripeService, paymentStore storage.Store, orders OrderReader, notifier Notifier, webhookSecret string, log *logger.Logger) *StripeHandler {
	return &StripeHandler{
		stripeService: stripeService,
		paymentStore:  paymentStore,
		orders:        orders,
		notifier:      notifier,
		webhookSecret: webhookSecret,
		logger:        log,
	}
}

// CreateIntent handles POST /api/payment/intent. The amount always comes from
// the order row, never from the client.
func (h *StripeHandler) CreateIntent(c *gin.Context) {
	var req models.PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
		return
	}

	order, err := h.orders.GetOrderByID(req.OrderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if order.Status != models.StatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("order is %s, expected pending", order.Status)})
		return
	}

	pi, err := h.stripeService.CreateIntent(order.OrderID, order.Total, "usd")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment intent creation failed"})
		return
	}

	payment, err := h.paymentStore.GetPaymentByOrderID(order.OrderID)
	if err != nil {
		payment = &models.Payment{
			ID:        uuid.NewString(),
			OrderID:   order.OrderID,
			Amount:    order.Total,
			Status:    models.PaymentStatusPending,
			IntentID:  pi.ID,
			CreatedAt: time.Now(),
		}
		if err := h.paymentStore.CreatePayment(*payment); err != nil {
			h.logger.Error("PAYMENT", fmt.Sprintf("Failed to store payment for order %s: %v", order.OrderID, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store payment"})
			return
		}
	} else {
		payment.Amount = order.Total
		payment.Status = models.PaymentStatusPending
		payment.IntentID = pi.ID
		payment.UpdatedAt = time.Now()
		if err := h.paymentStore.UpdatePayment(*payment); err != nil {
			h.logger.Error("PAYMENT", fmt.Sprintf("Failed to update payment for order %s: %v", order.OrderID, err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store payment"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_id":    payment.ID,
		"order_id":      order.OrderID,
		"intent_id":     pi.ID,
		"client_secret": pi.ClientSecret,
		"amount":        order.Total,
	})
}

// Webhook handles POST /api/payment/stripe/webhook. Outcomes are translated
// to the provider-neutral notification shape and forwarded to the ticketing
// API, which applies its own state guards.
func (h *StripeHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		h.logger.Warn("STRIPE", fmt.Sprintf("Webhook signature verification failed: %v", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	var status string
	switch event.Type {
	case "payment_intent.succeeded":
		status = "settlement"
	case "payment_intent.canceled":
		status = "cancel"
	case "payment_intent.payment_failed":
		status = "deny"
	default:
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}
	orderID := pi.Metadata["order_id"]
	if orderID == "" {
		h.logger.Warn("STRIPE", fmt.Sprintf("Intent %s carries no order_id metadata", pi.ID))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	h.updatePaymentStatus(orderID, status)

	if err := h.notifier.Notify(models.PaymentNotification{OrderID: orderID, TransactionStatus: status}); err != nil {
		h.logger.Error("STRIPE", fmt.Sprintf("Failed to notify order service for order %s: %v", orderID, err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "notification delivery failed"})
		return
	}

	h.logger.LogWebhook("stripe", orderID, status)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *StripeHandler) updatePaymentStatus(orderID, transactionStatus string) {
	payment, err := h.paymentStore.GetPaymentByOrderID(orderID)
	if err != nil {
		h.logger.Warn("PAYMENT", fmt.Sprintf("No payment row for order %s", orderID))
		return
	}

	switch transactionStatus {
	case "settlement":
		payment.Status = models.PaymentStatusSucceeded
	default:
		payment.Status = models.PaymentStatusFailed
	}
	payment.UpdatedAt = time.Now()

	if err := h.paymentStore.UpdatePayment(*payment); err != nil {
		h.logger.Error("PAYMENT", fmt.Sprintf("Failed to update payment for order %s: %v", orderID, err))
	}
}
