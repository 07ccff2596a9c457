package cart

import (
	"time"

	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

// Amounts are kept in minor units (paise) so they can be stored as plain integers.
type CartLine struct {
	ItemID         int
	ProductID      int
	ProductName    string
	Quantity       int
	UnitPriceMinor int64
	LineTotalMinor int64
}

type CartView struct {
	SessionUID   string
	Lines        []CartLine
	TotalMinor   int64
	Notice       string `datastore:",noindex"`
	LastModified time.Time
}

func (v CartView) IsEmpty() bool {
	return len(v.Lines) == 0
}

func (v CartView) findLine(itemID int) (int, bool) {
	for idx, line := range v.Lines {
		if line.ItemID == itemID {
			return idx, true
		}
	}
	return -1, false
}

func (v *CartView) recalculate() {
	total := int64(0)
	for _, line := range v.Lines {
		total += line.LineTotalMinor
	}
	v.TotalMinor = total
}

func lineFromItem(item backendapi.CartItem) CartLine {
	return CartLine{
		ItemID:         item.ID,
		ProductID:      item.Product.ID,
		ProductName:    item.Product.Name,
		Quantity:       item.Quantity,
		UnitPriceMinor: backendapi.ToMinor(item.UnitPrice()),
		LineTotalMinor: backendapi.ToMinor(item.LineTotal()),
	}
}

func viewFromCart(sessionUID string, remote backendapi.Cart, now time.Time) CartView {
	view := CartView{
		SessionUID:   sessionUID,
		Lines:        []CartLine{},
		LastModified: now,
	}
	for _, item := range remote.Items {
		view.Lines = append(view.Lines, lineFromItem(item))
	}
	view.recalculate()
	return view
}
