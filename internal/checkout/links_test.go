package checkout

import (
	"net/url"
	"strings"
	"testing"

	"github.com/4PPL8/wahabstore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{Email: "ana@test.com", Name: "Ana", IsVerified: true}
}

func testCart() *domain.Cart {
	return &domain.Cart{
		SessionID: "sess1",
		Items: []domain.LineItem{
			{ProductID: "p-002", Name: "Biryani Masala 50g", Price: 150, Quantity: 2},
			{ProductID: "p-012", Name: "UHT Milk 1L", Price: 290, Quantity: 1},
		},
	}
}

func TestMailtoLink_Format(t *testing.T) {
	b := NewLinkBuilder("orders@pakgrocery.com", "923001234567")

	link := b.MailtoLink(testUser(), testCart(), OrderForm{Address: "House 12, Street 4"})

	assert.True(t, strings.HasPrefix(link, "mailto:orders@pakgrocery.com?subject="), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "New Order from PakGrocery", q.Get("subject"))

	body := q.Get("body")
	assert.Contains(t, body, "New order from: ana@test.com")
	assert.Contains(t, body, "Delivery Address: House 12, Street 4")
	assert.Contains(t, body, "- Biryani Masala 50g (2 x PKR 150) = PKR 300")
	assert.Contains(t, body, "- UHT Milk 1L (1 x PKR 290) = PKR 290")
	assert.Contains(t, body, "Total Amount: PKR 590")
	assert.NotContains(t, body, "Customer Note")
}

func TestMailtoLink_IncludesNote(t *testing.T) {
	b := NewLinkBuilder("orders@pakgrocery.com", "923001234567")

	link := b.MailtoLink(testUser(), testCart(), OrderForm{Address: "addr", Note: "ring the bell"})

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Contains(t, u.Query().Get("body"), "Customer Note: ring the bell")
}

func TestWhatsAppLink_Format(t *testing.T) {
	b := NewLinkBuilder("orders@pakgrocery.com", "923001234567")

	link := b.WhatsAppLink(testUser(), testCart(), OrderForm{
		Address: "House 12",
		Phone:   "03001112223",
	})

	assert.True(t, strings.HasPrefix(link, "https://wa.me/923001234567?text="), link)

	u, err := url.Parse(link)
	require.NoError(t, err)
	text := u.Query().Get("text")
	assert.Contains(t, text, "*New Order from PakGrocery*")
	assert.Contains(t, text, "*Customer:* ana@test.com")
	assert.Contains(t, text, "*Phone:* 03001112223")
	assert.Contains(t, text, "*Delivery Address:* House 12")
	assert.Contains(t, text, "*Total Amount:* PKR 590")
}

// Spaces must encode as %20, not +, so mail and WhatsApp clients render the
// text correctly.
func TestEscape_SpacesAsPercent20(t *testing.T) {
	assert.Equal(t, "a%20b%0Ac", escape("a b\nc"))
	assert.NotContains(t, escape("a b"), "+")
}

func TestFormatAmount_TrimsTrailingZeros(t *testing.T) {
	assert.Equal(t, "150", formatAmount(150))
	assert.Equal(t, "99.5", formatAmount(99.5))
}
