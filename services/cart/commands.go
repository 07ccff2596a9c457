package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

// lineCommand is one optimistic change to a cart line. Apply changes the local view
// before the backend is called, Compensate undoes it when the backend call fails.
type lineCommand interface {
	Apply(view *CartView) error
	Execute(c context.Context, backend backendapi.Client, token string) (*backendapi.CartItem, error)
	Compensate(view *CartView)
}

type changeQuantity struct {
	itemID   int
	delta    int
	previous CartLine
	quantity int
}

func newChangeQuantity(itemID int, delta int) *changeQuantity {
	return &changeQuantity{
		itemID: itemID,
		delta:  delta,
	}
}

func (cmd *changeQuantity) Apply(view *CartView) error {
	idx, found := view.findLine(cmd.itemID)
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("cart item %d not found", cmd.itemID))
	}

	line := view.Lines[idx]
	quantity := line.Quantity + cmd.delta
	if quantity < 1 {
		return myerrors.WithUserMessage(
			myerrors.NewInvalidInputErrorf("quantity of cart item %d cannot drop below 1", cmd.itemID),
			"Quantity cannot be less than 1")
	}

	cmd.previous = line
	cmd.quantity = quantity

	line.Quantity = quantity
	line.LineTotalMinor = line.UnitPriceMinor * int64(quantity)
	view.Lines[idx] = line
	view.recalculate()

	return nil
}

func (cmd *changeQuantity) Execute(c context.Context, backend backendapi.Client, token string) (*backendapi.CartItem, error) {
	item, err := backend.UpdateCartItem(c, token, cmd.itemID, cmd.quantity)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (cmd *changeQuantity) Compensate(view *CartView) {
	idx, found := view.findLine(cmd.itemID)
	if !found {
		return
	}
	view.Lines[idx] = cmd.previous
	view.recalculate()
}

type removeLine struct {
	itemID   int
	position int
	previous CartLine
}

func newRemoveLine(itemID int) *removeLine {
	return &removeLine{
		itemID: itemID,
	}
}

func (cmd *removeLine) Apply(view *CartView) error {
	idx, found := view.findLine(cmd.itemID)
	if !found {
		return myerrors.NewNotFoundError(fmt.Errorf("cart item %d not found", cmd.itemID))
	}

	cmd.position = idx
	cmd.previous = view.Lines[idx]

	view.Lines = append(view.Lines[:idx:idx], view.Lines[idx+1:]...)
	view.recalculate()

	return nil
}

func (cmd *removeLine) Execute(c context.Context, backend backendapi.Client, token string) (*backendapi.CartItem, error) {
	return nil, backend.RemoveCartItem(c, token, cmd.itemID)
}

func (cmd *removeLine) Compensate(view *CartView) {
	if _, found := view.findLine(cmd.itemID); found {
		return
	}
	position := min(cmd.position, len(view.Lines))
	lines := make([]CartLine, 0, len(view.Lines)+1)
	lines = append(lines, view.Lines[:position]...)
	lines = append(lines, cmd.previous)
	lines = append(lines, view.Lines[position:]...)
	view.Lines = lines
	view.recalculate()
}
