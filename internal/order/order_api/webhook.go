package order_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ms-eventhub/internal/models"
	"ms-eventhub/internal/order"
	"ms-eventhub/internal/utils"
)

// Notification handles POST /api/orders/notification, the payment provider's
// asynchronous callback. Unknown orders get 404 so the provider stops
// retrying a payload we can never process; guarded refusals (replay of a
// terminal transition) are acknowledged with 200 because the provider already
// got its answer and a retry changes nothing.
func (h *Handler) Notification(w http.ResponseWriter, r *http.Request) {
	var n models.PaymentNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		utils.ValidationError(w, "body", "invalid JSON payload", "Validation failed")
		return
	}
	if n.OrderID == "" || n.TransactionStatus == "" {
		utils.ValidationError(w, "order_id", "order_id and transaction_status are required", "Validation failed")
		return
	}

	_, err := h.Service.HandlePaymentNotification(n, h.Dedup)
	switch {
	case err == nil:
		utils.Success(w, map[string]string{"message": "Notification processed"}, "Notification processed")
	case errors.Is(err, order.ErrOrderNotFound):
		utils.NotFound(w, "Order not found")
	case order.IsStateConflict(err):
		h.Logger.Warn("WEBHOOK", fmt.Sprintf("Refused transition for order %s (%s): %v", n.OrderID, n.TransactionStatus, err))
		utils.Success(w, map[string]string{"message": "Notification processed"}, "Notification processed")
	default:
		h.Logger.Error("WEBHOOK", fmt.Sprintf("Notification for order %s failed: %v", n.OrderID, err))
		utils.Error(w, err, "Internal server error")
	}
}
