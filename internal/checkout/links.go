// Package checkout turns a cart into an order hand-off. There is no payment
// or fulfillment pipeline: placing an order builds a mailto: or wa.me link
// from the cart contents and the delivery form, and the shopper's own mail
// or WhatsApp client carries it from there.
package checkout

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/4PPL8/wahabstore/internal/domain"
)

// OrderForm holds the delivery fields entered at checkout.
type OrderForm struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Note    string `json:"note"`
}

// LinkBuilder formats order links for the store's contact points.
type LinkBuilder struct {
	OrderEmail     string
	WhatsAppNumber string
}

func NewLinkBuilder(orderEmail, whatsAppNumber string) *LinkBuilder {
	return &LinkBuilder{
		OrderEmail:     orderEmail,
		WhatsAppNumber: whatsAppNumber,
	}
}

// MailtoLink builds the email-order URI.
func (b *LinkBuilder) MailtoLink(user *domain.User, cart *domain.Cart, form OrderForm) string {
	subject := "New Order from PakGrocery"

	var body strings.Builder
	fmt.Fprintf(&body, "New order from: %s\n\n", user.Email)
	fmt.Fprintf(&body, "Delivery Address: %s\n\n", form.Address)
	body.WriteString("Order Items:\n")

	for _, item := range cart.Items {
		fmt.Fprintf(&body, "- %s (%d x PKR %s) = PKR %s\n",
			item.Name, item.Quantity, formatAmount(item.Price), formatAmount(item.Price*float64(item.Quantity)))
	}

	fmt.Fprintf(&body, "\nTotal Amount: PKR %s\n", formatAmount(cart.TotalPrice()))

	if form.Note != "" {
		fmt.Fprintf(&body, "\nCustomer Note: %s\n", form.Note)
	}

	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		b.OrderEmail, escape(subject), escape(body.String()))
}

// WhatsAppLink builds the wa.me order URI with the source's starred markup.
func (b *LinkBuilder) WhatsAppLink(user *domain.User, cart *domain.Cart, form OrderForm) string {
	var msg strings.Builder
	msg.WriteString("*New Order from PakGrocery*\n\n")
	fmt.Fprintf(&msg, "*Customer:* %s\n", user.Email)
	fmt.Fprintf(&msg, "*Phone:* %s\n", form.Phone)
	fmt.Fprintf(&msg, "*Delivery Address:* %s\n\n", form.Address)
	msg.WriteString("*Order Items:*\n")

	for _, item := range cart.Items {
		fmt.Fprintf(&msg, "- %s (%d x PKR %s) = PKR %s\n",
			item.Name, item.Quantity, formatAmount(item.Price), formatAmount(item.Price*float64(item.Quantity)))
	}

	fmt.Fprintf(&msg, "\n*Total Amount:* PKR %s\n", formatAmount(cart.TotalPrice()))

	if form.Note != "" {
		fmt.Fprintf(&msg, "\n*Customer Note:* %s\n", form.Note)
	}

	return fmt.Sprintf("https://wa.me/%s?text=%s", b.WhatsAppNumber, escape(msg.String()))
}

// escape percent-encodes like encodeURIComponent: spaces become %20, not +.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
