package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/4PPL8/wahabstore/internal/auth"
	"github.com/4PPL8/wahabstore/internal/cart"
	"github.com/4PPL8/wahabstore/internal/checkout"
	"github.com/4PPL8/wahabstore/internal/repository"
	"github.com/google/uuid"
)

type CheckoutHandler struct {
	cart      *cart.Service
	auth      *auth.Service
	links     *checkout.LinkBuilder
	publisher *checkout.Publisher // nil when no brokers are configured
	timeout   time.Duration
}

func NewCheckoutHandler(cartService *cart.Service, authService *auth.Service, links *checkout.LinkBuilder, publisher *checkout.Publisher, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		cart:      cartService,
		auth:      authService,
		links:     links,
		publisher: publisher,
		timeout:   timeout,
	}
}

type CheckoutRequestDTO struct {
	Method  string `json:"method"` // "email" | "whatsapp"
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Note    string `json:"note"`
}

type CheckoutResponse struct {
	OrderID string `json:"order_id"`
	Link    string `json:"link"`
	Message string `json:"message"`
}

func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionIDFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	user, err := h.auth.CurrentUser(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "Please login to place an order")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load user")
		return
	}

	c, err := h.cart.GetCart(ctx, sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	if len(c.Items) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "Your cart is empty")
		return
	}

	if strings.TrimSpace(req.Address) == "" {
		respondError(w, http.StatusBadRequest, "invalid_address", "Please enter your delivery address")
		return
	}

	form := checkout.OrderForm{
		Address: strings.TrimSpace(req.Address),
		Phone:   strings.TrimSpace(req.Phone),
		Note:    strings.TrimSpace(req.Note),
	}

	var link, message string
	switch req.Method {
	case "email":
		link = h.links.MailtoLink(user, c, form)
		message = "Redirecting to email client..."
	case "whatsapp":
		if form.Phone == "" {
			respondError(w, http.StatusBadRequest, "invalid_phone", "Please enter your phone number")
			return
		}
		link = h.links.WhatsAppLink(user, c, form)
		message = "Redirecting to WhatsApp..."
	default:
		respondError(w, http.StatusBadRequest, "invalid_method", "method must be email or whatsapp")
		return
	}

	event := checkout.OrderPlacedEvent{
		OrderID:     uuid.NewString(),
		SessionID:   sessionID,
		Email:       user.Email,
		Method:      req.Method,
		Items:       c.Items,
		TotalAmount: c.TotalPrice(),
		PlacedAt:    time.Now(),
	}

	// Fire and forget: a broker outage must not block the order hand-off.
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pubCancel()
		if errPub := h.publisher.Publish(pubCtx, event); errPub != nil {
			log.Printf("order event publish error: %v \n", errPub)
		}
	}()

	respondJSON(w, http.StatusOK, CheckoutResponse{
		OrderID: event.OrderID,
		Link:    link,
		Message: message,
	})
}
