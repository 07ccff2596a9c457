package checkout

import (
	"strings"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
)

// The step controller. Every transition is a pure function on the state and
// refuses to run from a step it does not start from.

// ConfirmCart drops any order placed for a previous snapshot.
func ConfirmCart(state CheckoutState, snapshot CartSnapshot) (CheckoutState, error) {
	if state.Step != StepCart {
		return state, invalidTransition("confirm cart", state.Step)
	}
	state.Cart = snapshot
	state.PendingOrder = PendingOrder{}
	state.PendingPayment = PendingPayment{}
	state.Step = StepAddress
	return state, nil
}

// ConfirmAddress also returns the trimmed address, to be remembered by the caller.
func ConfirmAddress(state CheckoutState, address string, phoneNumber string) (CheckoutState, ShippingAddress, error) {
	if state.Step != StepAddress {
		return state, ShippingAddress{}, invalidTransition("confirm address", state.Step)
	}

	confirmed := ShippingAddress{
		Address:     strings.TrimSpace(address),
		PhoneNumber: strings.TrimSpace(phoneNumber),
	}
	if confirmed.Address == "" {
		return state, ShippingAddress{}, myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("missing shipping address"), "Please enter a shipping address")
	}
	if confirmed.PhoneNumber == "" {
		return state, ShippingAddress{}, myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("missing phone number"), "Please enter a phone number")
	}

	state.AddressConfirmed = true
	state.Step = StepPayment
	return state, confirmed, nil
}

// Back never discards the cart snapshot or the address.
func Back(state CheckoutState) (CheckoutState, error) {
	switch state.Step {
	case StepAddress:
		state.Step = StepCart
	case StepPayment:
		state.Step = StepAddress
		state.AddressConfirmed = false
	default:
		return state, invalidTransition("go back", state.Step)
	}
	return state, nil
}

func Complete(state CheckoutState) (CheckoutState, error) {
	if state.Step != StepPayment {
		return state, invalidTransition("complete", state.Step)
	}
	state.Step = StepDone
	return state, nil
}

func invalidTransition(action string, step Step) error {
	return myerrors.WithUserMessage(
		myerrors.NewInvalidInputErrorf("cannot %s from step %s", action, step),
		"Please complete the previous checkout steps first")
}
