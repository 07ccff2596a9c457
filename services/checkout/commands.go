package checkout

import (
	"context"
	"fmt"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/session"
)

func snapshotFromCart(remote backendapi.Cart) CartSnapshot {
	snapshot := CartSnapshot{Lines: []SnapshotLine{}}
	for _, item := range remote.Items {
		line := SnapshotLine{
			ItemID:         item.ID,
			ProductName:    item.Product.Name,
			Quantity:       item.Quantity,
			LineTotalMinor: backendapi.ToMinor(item.LineTotal()),
		}
		snapshot.Lines = append(snapshot.Lines, line)
		snapshot.TotalMinor += line.LineTotalMinor
	}
	return snapshot
}

// LoadWizard returns everything needed to render the current step. The stored
// address is read back so a reload keeps progress.
func (s *service) LoadWizard(c context.Context, sess session.Session) (WizardPage, error) {
	err := requireAuthenticated(sess)
	if err != nil {
		return WizardPage{}, err
	}

	notice := ""
	state, err := s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		notice = state.Notice
		state.Notice = ""
		return state, nil
	})
	if err != nil {
		return WizardPage{}, err
	}

	address, err := s.addressCache.Get(c, sess.UID)
	if err != nil {
		return WizardPage{}, myerrors.NewInternalError(err)
	}

	page := WizardPage{
		State:   state,
		Address: address,
		Notice:  notice,
	}

	if state.Step == StepPayment {
		opts, opened, err := s.gateway.Opened(c, sess.UID)
		if err != nil {
			return WizardPage{}, myerrors.NewInternalError(err)
		}
		if opened {
			page.Gateway = &opts
		}
	}

	return page, nil
}

// ConfirmCart snapshots the remote cart and moves on to the address step. Coming
// from a later step rewinds first; a finished checkout starts over.
func (s *service) ConfirmCart(c context.Context, sess session.Session) (CheckoutState, error) {
	err := requireAuthenticated(sess)
	if err != nil {
		return CheckoutState{}, err
	}

	remote, err := s.backend.GetCart(c, sess.Token)
	if err != nil {
		return CheckoutState{}, err
	}
	snapshot := snapshotFromCart(remote)

	hadPayment := false
	state, err := s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		hadPayment = state.HasPendingPayment()
		if state.Step == StepDone {
			state = newCheckoutState(sess.UID)
		}
		for state.Step == StepAddress || state.Step == StepPayment {
			state, err = Back(state)
			if err != nil {
				return state, err
			}
		}

		state, err := ConfirmCart(state, snapshot)
		if err != nil {
			return state, err
		}

		s.logger.Log(c, sess.UID, mylog.SeverityInfo, "Cart confirmed with %d lines, total %s", len(snapshot.Lines), backendapi.FormatMinor(snapshot.TotalMinor))

		return state, nil
	})
	if err != nil {
		return state, err
	}

	if hadPayment {
		err = s.gateway.Close(c, sess.UID)
		if err != nil {
			return state, myerrors.NewInternalError(err)
		}
	}

	return state, nil
}

func (s *service) ConfirmAddress(c context.Context, sess session.Session, address string, phoneNumber string) (CheckoutState, error) {
	err := requireAuthenticated(sess)
	if err != nil {
		return CheckoutState{}, err
	}

	return s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		state, confirmed, err := ConfirmAddress(state, address, phoneNumber)
		if err != nil {
			return state, err
		}

		err = s.addressCache.Put(c, sess.UID, confirmed)
		if err != nil {
			return state, myerrors.NewInternalError(err)
		}

		return state, nil
	})
}

func (s *service) GoBack(c context.Context, sess session.Session) (CheckoutState, error) {
	err := requireAuthenticated(sess)
	if err != nil {
		return CheckoutState{}, err
	}

	return s.update(c, sess.UID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		return Back(state)
	})
}

// ReopenPayment shows the gateway again for an order that is still waiting for payment.
func (s *service) ReopenPayment(c context.Context, sess session.Session) error {
	err := requireAuthenticated(sess)
	if err != nil {
		return err
	}

	state, err := s.getState(c, sess.UID)
	if err != nil {
		return err
	}
	if state.Step != StepPayment || !state.HasPendingPayment() {
		return myerrors.NewInvalidInputError(fmt.Errorf("no payment pending for %s", sess.UID))
	}

	err = s.gateway.Open(c, sess.UID, s.gatewayOptions(sess, state))
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	return nil
}

func (s *service) gatewayOptions(sess session.Session, state CheckoutState) GatewayOptions {
	return GatewayOptions{
		SessionUID:      sess.UID,
		KeyID:           s.config.RazorpayKeyID,
		OrderID:         state.PendingOrder.OrderID,
		OrderNumber:     state.PendingOrder.OrderNumber,
		RazorpayOrderID: state.PendingPayment.RazorpayOrderID,
		Amount:          state.PendingPayment.Amount,
		Currency:        state.PendingPayment.Currency,
		CustomerEmail:   sess.Email,
		CallbackURL:     s.config.BaseURL + "/checkout/payment/callback",
		DismissURL:      s.config.BaseURL + "/checkout/payment/dismissed",
	}
}
