package checkout

import (
	"time"

	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
)

type Step int

const (
	StepCart    Step = 1
	StepAddress Step = 2
	StepPayment Step = 3
	StepDone    Step = 4
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "cart"
	case StepAddress:
		return "address"
	case StepPayment:
		return "payment"
	case StepDone:
		return "done"
	default:
		return "unknown"
	}
}

type SnapshotLine struct {
	ItemID         int
	ProductName    string
	Quantity       int
	LineTotalMinor int64
}

// CartSnapshot is the cart as confirmed in step 1. Amounts are in minor units.
type CartSnapshot struct {
	Lines      []SnapshotLine
	TotalMinor int64
}

func (cs CartSnapshot) IsEmpty() bool {
	return len(cs.Lines) == 0
}

type ShippingAddress struct {
	Address     string
	PhoneNumber string
}

func (a ShippingAddress) IsComplete() bool {
	return a.Address != "" && a.PhoneNumber != ""
}

// PendingOrder is an order created on the backend for this checkout. OrderID 0 means none.
type PendingOrder struct {
	OrderID       int
	OrderNumber   string
	PaymentMethod checkoutevents.PaymentMethod
}

// PendingPayment is the gateway session of the pending order.
type PendingPayment struct {
	RazorpayOrderID string
	Amount          int64
	Currency        string
}

type CheckoutState struct {
	SessionUID       string
	Step             Step
	AddressConfirmed bool
	Cart             CartSnapshot
	PendingOrder     PendingOrder
	PendingPayment   PendingPayment
	Notice           string `datastore:",noindex"`
	LastModified     time.Time
}

func newCheckoutState(sessionUID string) CheckoutState {
	return CheckoutState{
		SessionUID: sessionUID,
		Step:       StepCart,
		Cart:       CartSnapshot{Lines: []SnapshotLine{}},
	}
}

func (s CheckoutState) HasPendingOrder() bool {
	return s.PendingOrder.OrderID != 0
}

func (s CheckoutState) HasPendingPayment() bool {
	return s.PendingPayment.RazorpayOrderID != ""
}

// GatewayOptions is everything the payment gateway script needs to take a payment.
type GatewayOptions struct {
	SessionUID      string
	KeyID           string
	OrderID         int
	OrderNumber     string
	RazorpayOrderID string
	Amount          int64
	Currency        string
	CustomerEmail   string
	CallbackURL     string
	DismissURL      string
}

// PaymentProof is what the gateway hands back after a completed payment.
type PaymentProof struct {
	RazorpayPaymentID string `form:"razorpay_payment_id"`
	RazorpayOrderID   string `form:"razorpay_order_id"`
	RazorpaySignature string `form:"razorpay_signature"`
}

func (p PaymentProof) IsComplete() bool {
	return p.RazorpayPaymentID != "" && p.RazorpayOrderID != "" && p.RazorpaySignature != ""
}

type OutcomeKind string

const (
	OutcomeCompleted       OutcomeKind = "completed"
	OutcomeAwaitingPayment OutcomeKind = "awaitingPayment"
	OutcomeIndeterminate   OutcomeKind = "indeterminate"
)

type Outcome struct {
	Kind        OutcomeKind
	OrderID     int
	OrderNumber string
	Message     string
}

// WizardPage is what the checkout page renders.
type WizardPage struct {
	State   CheckoutState
	Address ShippingAddress
	Gateway *GatewayOptions
	Notice  string
}
