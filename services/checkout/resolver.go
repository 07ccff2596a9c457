package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
	"github.com/MarcGrol/equipmentshop/services/session"
)

const (
	verificationFailedMessage = "Payment verification failed, check order status in My Orders"
	dismissedMessage          = "Payment was not completed. Check the status of your order in My Orders"
	emptyCartMessage          = "Your cart is empty"
	missingAddressMessage     = "Please enter a shipping address and phone number"
	submitInFlightMessage     = "Your order is already being placed"
	paymentOpenMessage        = "A payment is still open for this order, use Pay now to finish it"
)

func submitLockKey(sessionUID string) string {
	return "checkout/" + sessionUID
}

// PlaceOrder converts the confirmed cart into an order. Cash on delivery completes
// immediately. A gateway payment ends with the gateway opened for the new order.
func (s *service) PlaceOrder(c context.Context, sess session.Session, method checkoutevents.PaymentMethod) (Outcome, error) {
	if method != checkoutevents.PaymentMethodCOD && method != checkoutevents.PaymentMethodGateway {
		return Outcome{}, myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("unsupported payment method %q", method), "Please select a payment method")
	}

	err := requireAuthenticated(sess)
	if err != nil {
		return Outcome{}, err
	}

	state, err := s.getState(c, sess.UID)
	if err != nil {
		return Outcome{}, err
	}
	if state.Step != StepPayment {
		return Outcome{}, invalidTransition("place order", state.Step)
	}
	if state.HasPendingPayment() {
		return Outcome{}, myerrors.WithUserMessage(
			myerrors.NewConflictError(fmt.Errorf("order %s of %s awaits payment", state.PendingOrder.OrderNumber, sess.UID)), paymentOpenMessage)
	}
	if state.Cart.IsEmpty() || state.Cart.TotalMinor <= 0 {
		return Outcome{}, myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("cart of %s is empty", sess.UID), emptyCartMessage)
	}

	address, err := s.addressCache.Get(c, sess.UID)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(err)
	}
	if !address.IsComplete() {
		return Outcome{}, myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("address of %s is incomplete", sess.UID), missingAddressMessage)
	}

	acquired, err := s.locker.Acquire(c, submitLockKey(sess.UID), submitLockTTL)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(fmt.Errorf("error acquiring submit lock: %s", err))
	}
	if !acquired {
		return Outcome{}, myerrors.WithUserMessage(
			myerrors.NewConflictError(fmt.Errorf("order submit of %s already in flight", sess.UID)), submitInFlightMessage)
	}
	defer func() {
		err := s.locker.Release(c, submitLockKey(sess.UID))
		if err != nil {
			s.logger.Log(c, sess.UID, mylog.SeverityError, "Error releasing submit lock: %s", err)
		}
	}()

	order, err := s.backend.CreateOrderFromCart(c, sess.Token, backendapi.CreateOrderRequest{
		ShippingAddress: address.Address,
		PhoneNumber:     address.PhoneNumber,
	})
	if err != nil {
		return Outcome{}, err
	}
	s.logger.Log(c, sess.UID, mylog.SeverityInfo, "Order %s created (%s)", order.OrderNumber, method)

	err = s.publish(c, checkoutevents.OrderCreated{
		SessionUID:    sess.UID,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		PaymentMethod: method,
		TotalMinor:    state.Cart.TotalMinor,
	})
	if err != nil {
		return Outcome{}, err
	}

	if method == checkoutevents.PaymentMethodCOD {
		return s.placeCashOnDelivery(c, sess, order)
	}
	return s.openPayment(c, sess, order)
}

func (s *service) placeCashOnDelivery(c context.Context, sess session.Session, order backendapi.Order) (Outcome, error) {
	err := s.addressCache.Clear(c, sess.UID)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(err)
	}

	_, err = s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		state.PendingOrder = PendingOrder{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			PaymentMethod: checkoutevents.PaymentMethodCOD,
		}
		return Complete(state)
	})
	if err != nil {
		return Outcome{}, err
	}

	err = s.publish(c, checkoutevents.OrderPlaced{
		SessionUID:  sess.UID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Kind:        OutcomeCompleted,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Message:     fmt.Sprintf("Order %s placed successfully", order.OrderNumber),
	}, nil
}

// openPayment asks the backend for a payment session. When that fails the order
// stays on the backend unpaid and the error is returned as is.
func (s *service) openPayment(c context.Context, sess session.Session, order backendapi.Order) (Outcome, error) {
	payment, err := s.backend.CreateRazorpayOrder(c, sess.Token, backendapi.CreateRazorpayOrderRequest{
		OrderID: order.ID,
	})
	if err != nil {
		return Outcome{}, err
	}

	state, err := s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		state.PendingOrder = PendingOrder{
			OrderID:       order.ID,
			OrderNumber:   order.OrderNumber,
			PaymentMethod: checkoutevents.PaymentMethodGateway,
		}
		state.PendingPayment = PendingPayment{
			RazorpayOrderID: payment.RazorpayOrderID,
			Amount:          payment.Amount,
			Currency:        payment.Currency,
		}
		return state, nil
	})
	if err != nil {
		return Outcome{}, err
	}

	err = s.publish(c, checkoutevents.PaymentSessionCreated{
		SessionUID:      sess.UID,
		OrderID:         order.ID,
		RazorpayOrderID: payment.RazorpayOrderID,
		Amount:          payment.Amount,
		Currency:        payment.Currency,
	})
	if err != nil {
		return Outcome{}, err
	}

	err = s.gateway.Open(c, sess.UID, s.gatewayOptions(sess, state))
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(err)
	}

	return Outcome{
		Kind:        OutcomeAwaitingPayment,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}, nil
}

// CompletePayment forwards the gateway's proof to the backend. The checkout only
// completes once the backend confirmed it.
func (s *service) CompletePayment(c context.Context, sess session.Session, proof PaymentProof) (Outcome, error) {
	err := requireAuthenticated(sess)
	if err != nil {
		return Outcome{}, err
	}

	if !proof.IsComplete() {
		return Outcome{}, myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("incomplete payment proof"), verificationFailedMessage)
	}

	state, err := s.getState(c, sess.UID)
	if err != nil {
		return Outcome{}, err
	}
	if state.Step != StepPayment || !state.HasPendingOrder() {
		return Outcome{}, invalidTransition("complete payment", state.Step)
	}

	_, err = s.backend.VerifyPayment(c, sess.Token, backendapi.VerifyPaymentRequest{
		RazorpayPaymentID: proof.RazorpayPaymentID,
		RazorpayOrderID:   proof.RazorpayOrderID,
		RazorpaySignature: proof.RazorpaySignature,
	})
	if err != nil {
		if errors.Is(err, backendapi.ErrVerificationFailed) {
			pubErr := s.publish(c, checkoutevents.PaymentVerificationFailed{
				SessionUID:        sess.UID,
				OrderID:           state.PendingOrder.OrderID,
				RazorpayOrderID:   proof.RazorpayOrderID,
				RazorpayPaymentID: proof.RazorpayPaymentID,
				Reason:            err.Error(),
			})
			if pubErr != nil {
				s.logger.Log(c, sess.UID, mylog.SeverityError, "Error publishing verification failure: %s", pubErr)
			}
			return Outcome{}, myerrors.WithUserMessage(err, verificationFailedMessage)
		}
		return Outcome{}, err
	}

	err = s.addressCache.Clear(c, sess.UID)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(err)
	}

	_, err = s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		return Complete(state)
	})
	if err != nil {
		return Outcome{}, err
	}

	err = s.gateway.Close(c, sess.UID)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(err)
	}

	err = s.publish(c, checkoutevents.PaymentVerified{
		SessionUID:        sess.UID,
		OrderID:           state.PendingOrder.OrderID,
		OrderNumber:       state.PendingOrder.OrderNumber,
		RazorpayOrderID:   proof.RazorpayOrderID,
		RazorpayPaymentID: proof.RazorpayPaymentID,
	})
	if err != nil {
		return Outcome{}, err
	}

	return Outcome{
		Kind:        OutcomeCompleted,
		OrderID:     state.PendingOrder.OrderID,
		OrderNumber: state.PendingOrder.OrderNumber,
		Message:     fmt.Sprintf("Payment received, order %s placed successfully", state.PendingOrder.OrderNumber),
	}, nil
}

func statusCheckTask(sessionUID string, orderID int) myqueue.Task {
	return myqueue.Task{
		UID:            fmt.Sprintf("statuscheck-%s-%d", sessionUID, orderID),
		WebhookURLPath: fmt.Sprintf("/api/checkout/statuscheck/%s/%d", sessionUID, orderID),
		Delay:          statusCheckDelay,
	}
}

// DismissPayment handles a gateway that was closed without a result. Whether the
// payment went through is unknown, so the order is kept and checked later.
func (s *service) DismissPayment(c context.Context, sess session.Session) (Outcome, error) {
	err := requireAuthenticated(sess)
	if err != nil {
		return Outcome{}, err
	}

	state, err := s.getState(c, sess.UID)
	if err != nil {
		return Outcome{}, err
	}
	if state.Step != StepPayment || !state.HasPendingPayment() {
		return Outcome{}, invalidTransition("dismiss payment", state.Step)
	}

	err = s.gateway.Close(c, sess.UID)
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(err)
	}

	err = s.publish(c, checkoutevents.PaymentDismissed{
		SessionUID:      sess.UID,
		OrderID:         state.PendingOrder.OrderID,
		RazorpayOrderID: state.PendingPayment.RazorpayOrderID,
	})
	if err != nil {
		return Outcome{}, err
	}

	err = s.queue.Enqueue(c, statusCheckTask(sess.UID, state.PendingOrder.OrderID))
	if err != nil {
		return Outcome{}, myerrors.NewInternalError(fmt.Errorf("error scheduling status check: %s", err))
	}

	return Outcome{
		Kind:        OutcomeIndeterminate,
		OrderID:     state.PendingOrder.OrderID,
		OrderNumber: state.PendingOrder.OrderNumber,
		Message:     dismissedMessage,
	}, nil
}

// CheckOrderStatus fetches the order once and tells the visitor what the backend knows.
// It never submits anything.
func (s *service) CheckOrderStatus(c context.Context, sessionUID string, orderID int) error {
	sess, err := s.sessions.LoadByUID(c, sessionUID)
	if err != nil {
		return err
	}
	if !sess.Authenticated() {
		s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Session gone, skipping status check of order %d", orderID)
		return nil
	}

	order, err := s.backend.GetOrder(c, sess.Token, orderID)
	if err != nil {
		return err
	}

	err = s.publish(c, checkoutevents.OrderStatusChecked{
		SessionUID:    sessionUID,
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
	})
	if err != nil {
		return err
	}

	s.setNotice(c, sessionUID, fmt.Sprintf("Order %s: status %s, payment %s", order.OrderNumber, order.Status, order.PaymentStatus))

	return nil
}
