package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myevents"
)

const (
	TopicName                     = "checkout"
	orderCreatedName              = TopicName + ".orderCreated"
	orderPlacedName               = TopicName + ".orderPlaced"
	paymentSessionCreatedName     = TopicName + ".paymentSessionCreated"
	paymentVerifiedName           = TopicName + ".paymentVerified"
	paymentVerificationFailedName = TopicName + ".paymentVerificationFailed"
	paymentDismissedName          = TopicName + ".paymentDismissed"
	orderStatusCheckedName        = TopicName + ".orderStatusChecked"
)

// CheckoutEventService is implemented by services that react on checkout progress.
type CheckoutEventService interface {
	Subscribe(c context.Context) error
	OnOrderCreated(c context.Context, topic string, event OrderCreated) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CheckoutEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case orderCreatedName:
		{
			event := OrderCreated{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderCreated(c, envelope.Topic, event)
		}
	case orderPlacedName, paymentSessionCreatedName, paymentVerifiedName, paymentVerificationFailedName, paymentDismissedName, orderStatusCheckedName:
		// published for the audit trail only
		return nil
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodGateway PaymentMethod = "razorpay"
)

// OrderCreated means the backend converted the visitor's cart into an order.
type OrderCreated struct {
	SessionUID    string
	OrderID       int
	OrderNumber   string
	PaymentMethod PaymentMethod
	TotalMinor    int64
}

func (e OrderCreated) GetEventTypeName() string {
	return orderCreatedName
}

func (e OrderCreated) GetAggregateName() string {
	return e.SessionUID
}

// OrderPlaced marks a cash-on-delivery order as confirmed.
type OrderPlaced struct {
	SessionUID  string
	OrderID     int
	OrderNumber string
}

func (e OrderPlaced) GetEventTypeName() string {
	return orderPlacedName
}

func (e OrderPlaced) GetAggregateName() string {
	return e.SessionUID
}

type PaymentSessionCreated struct {
	SessionUID      string
	OrderID         int
	RazorpayOrderID string
	Amount          int64
	Currency        string
}

func (e PaymentSessionCreated) GetEventTypeName() string {
	return paymentSessionCreatedName
}

func (e PaymentSessionCreated) GetAggregateName() string {
	return e.SessionUID
}

type PaymentVerified struct {
	SessionUID        string
	OrderID           int
	OrderNumber       string
	RazorpayOrderID   string
	RazorpayPaymentID string
}

func (e PaymentVerified) GetEventTypeName() string {
	return paymentVerifiedName
}

func (e PaymentVerified) GetAggregateName() string {
	return e.SessionUID
}

type PaymentVerificationFailed struct {
	SessionUID        string
	OrderID           int
	RazorpayOrderID   string
	RazorpayPaymentID string
	Reason            string
}

func (e PaymentVerificationFailed) GetEventTypeName() string {
	return paymentVerificationFailedName
}

func (e PaymentVerificationFailed) GetAggregateName() string {
	return e.SessionUID
}

type PaymentDismissed struct {
	SessionUID      string
	OrderID         int
	RazorpayOrderID string
}

func (e PaymentDismissed) GetEventTypeName() string {
	return paymentDismissedName
}

func (e PaymentDismissed) GetAggregateName() string {
	return e.SessionUID
}

type OrderStatusChecked struct {
	SessionUID    string
	OrderID       int
	OrderNumber   string
	Status        string
	PaymentStatus string
}

func (e OrderStatusChecked) GetEventTypeName() string {
	return orderStatusCheckedName
}

func (e OrderStatusChecked) GetAggregateName() string {
	return e.SessionUID
}
