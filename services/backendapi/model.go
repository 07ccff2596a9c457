package backendapi

import (
	"github.com/shopspring/decimal"
)

type Role int

const (
	RoleUnknown  Role = 0
	RoleAdmin    Role = 1
	RoleVendor   Role = 2
	RoleCustomer Role = 3
)

type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type CartItem struct {
	ID         int                 `json:"id"`
	Product    Product             `json:"product"`
	Quantity   int                 `json:"quantity"`
	TotalPrice decimal.NullDecimal `json:"total_price"`
}

func (ci CartItem) UnitPrice() decimal.Decimal {
	return ci.Product.Price
}

// LineTotal prefers the total computed by the backend.
func (ci CartItem) LineTotal() decimal.Decimal {
	if ci.TotalPrice.Valid {
		return ci.TotalPrice.Decimal
	}
	return ci.Product.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

type cartPage struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []CartItem `json:"results"`
}

// Cart holds all lines of the remote cart, across pages.
type Cart struct {
	Items []CartItem
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PhoneNumber     string `json:"phone_number"`
}

type Order struct {
	ID            int             `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type CreateRazorpayOrderRequest struct {
	OrderID int `json:"order_id"`
}

// RazorpayOrder is the payment session for one order. Amount is in the smallest currency unit.
type RazorpayOrder struct {
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	RazorpayOrderID string `json:"razorpay_order_id"`
}

type VerifyPaymentRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type VerifyPaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ToMinor converts an amount in rupees to paise.
func ToMinor(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func FormatMinor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
