package contracttests

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

type fakeCart struct {
	Items []backendapi.CartItem
}

type fakeOrder struct {
	Token           string
	Order           backendapi.Order
	RazorpayOrderID string
}

// FakeBackend is an in-memory marketplace backend. It behaves like the real one
// for everything this service relies on.
type FakeBackend struct {
	sync.Mutex
	lastOrderID int
	Users       *mystore.InMemoryStore[backendapi.User]
	Carts       *mystore.InMemoryStore[fakeCart]
	Orders      *mystore.InMemoryStore[fakeOrder]
}

func NewFakeBackend() *FakeBackend {
	c := context.Background()
	users, _, _ := mystore.NewInMemoryStore[backendapi.User](c)
	carts, _, _ := mystore.NewInMemoryStore[fakeCart](c)
	orders, _, _ := mystore.NewInMemoryStore[fakeOrder](c)
	return &FakeBackend{
		Users:  users,
		Carts:  carts,
		Orders: orders,
	}
}

// ExpectedSignature is the only signature the fake accepts for a payment.
func ExpectedSignature(razorpayOrderID string, razorpayPaymentID string) string {
	return fmt.Sprintf("sig_%s_%s", razorpayOrderID, razorpayPaymentID)
}

func (b *FakeBackend) AddUser(c context.Context, token string, user backendapi.User) error {
	return b.Users.Put(c, token, user)
}

func (b *FakeBackend) AddCartItem(c context.Context, token string, item backendapi.CartItem) error {
	return b.Carts.RunInTransaction(c, func(c context.Context) error {
		cart, _, err := b.Carts.Get(c, token)
		if err != nil {
			return err
		}
		cart.Items = append(cart.Items, item)
		return b.Carts.Put(c, token, cart)
	})
}

func (b *FakeBackend) authenticate(c context.Context, token string) (backendapi.User, error) {
	user, found, err := b.Users.Get(c, token)
	if err != nil {
		return backendapi.User{}, err
	}
	if !found {
		return backendapi.User{}, myerrors.NewBackendError(http.StatusUnauthorized, "Invalid token.", fmt.Errorf("unknown token"))
	}
	return user, nil
}

func (b *FakeBackend) GetCurrentUser(c context.Context, token string) (backendapi.User, error) {
	return b.authenticate(c, token)
}

func (b *FakeBackend) GetCart(c context.Context, token string) (backendapi.Cart, error) {
	_, err := b.authenticate(c, token)
	if err != nil {
		return backendapi.Cart{}, err
	}

	cart, _, err := b.Carts.Get(c, token)
	if err != nil {
		return backendapi.Cart{}, err
	}
	items := append([]backendapi.CartItem{}, cart.Items...)

	return backendapi.Cart{Items: items}, nil
}

func (b *FakeBackend) UpdateCartItem(c context.Context, token string, itemID int, quantity int) (backendapi.CartItem, error) {
	_, err := b.authenticate(c, token)
	if err != nil {
		return backendapi.CartItem{}, err
	}
	if quantity < 1 {
		return backendapi.CartItem{}, myerrors.NewBackendError(http.StatusBadRequest, "quantity: Ensure this value is greater than or equal to 1.",
			fmt.Errorf("invalid quantity %d", quantity))
	}

	var updated backendapi.CartItem
	err = b.Carts.RunInTransaction(c, func(c context.Context) error {
		cart, _, err := b.Carts.Get(c, token)
		if err != nil {
			return err
		}
		for idx, item := range cart.Items {
			if item.ID == itemID {
				item.Quantity = quantity
				item.TotalPrice = decimal.NewNullDecimal(item.Product.Price.Mul(decimal.NewFromInt(int64(quantity))))
				cart.Items[idx] = item
				updated = item
				return b.Carts.Put(c, token, cart)
			}
		}
		return myerrors.NewBackendError(http.StatusNotFound, "Not found.", fmt.Errorf("cart item %d not found", itemID))
	})
	if err != nil {
		return backendapi.CartItem{}, err
	}

	return updated, nil
}

func (b *FakeBackend) RemoveCartItem(c context.Context, token string, itemID int) error {
	_, err := b.authenticate(c, token)
	if err != nil {
		return err
	}

	return b.Carts.RunInTransaction(c, func(c context.Context) error {
		cart, _, err := b.Carts.Get(c, token)
		if err != nil {
			return err
		}
		for idx, item := range cart.Items {
			if item.ID == itemID {
				cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
				return b.Carts.Put(c, token, cart)
			}
		}
		return myerrors.NewBackendError(http.StatusNotFound, "Not found.", fmt.Errorf("cart item %d not found", itemID))
	})
}

func (b *FakeBackend) CreateOrderFromCart(c context.Context, token string, req backendapi.CreateOrderRequest) (backendapi.Order, error) {
	_, err := b.authenticate(c, token)
	if err != nil {
		return backendapi.Order{}, err
	}
	if req.ShippingAddress == "" || req.PhoneNumber == "" {
		return backendapi.Order{}, myerrors.NewBackendError(http.StatusBadRequest, "phone number: This field may not be blank.",
			fmt.Errorf("missing address"))
	}

	var order backendapi.Order
	err = b.Carts.RunInTransaction(c, func(c context.Context) error {
		cart, _, err := b.Carts.Get(c, token)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return myerrors.NewBackendError(http.StatusBadRequest, "Cart is empty", fmt.Errorf("empty cart"))
		}

		order = backendapi.Order{
			ID:            b.nextOrderID(),
			Status:        "pending",
			PaymentStatus: "pending",
			TotalAmount:   backendapi.Cart{Items: cart.Items}.Total(),
		}
		order.OrderNumber = fmt.Sprintf("ORD-%04d", order.ID)

		err = b.Orders.Put(c, strconv.Itoa(order.ID), fakeOrder{Token: token, Order: order})
		if err != nil {
			return err
		}
		return b.Carts.Put(c, token, fakeCart{Items: []backendapi.CartItem{}})
	})
	if err != nil {
		return backendapi.Order{}, err
	}

	return order, nil
}

func (b *FakeBackend) nextOrderID() int {
	b.Lock()
	defer b.Unlock()
	b.lastOrderID++
	return b.lastOrderID
}

func (b *FakeBackend) ownOrder(c context.Context, token string, orderID int) (fakeOrder, error) {
	_, err := b.authenticate(c, token)
	if err != nil {
		return fakeOrder{}, err
	}

	order, found, err := b.Orders.Get(c, strconv.Itoa(orderID))
	if err != nil {
		return fakeOrder{}, err
	}
	if !found || order.Token != token {
		return fakeOrder{}, myerrors.NewBackendError(http.StatusNotFound, "Not found.", fmt.Errorf("order %d not found", orderID))
	}
	return order, nil
}

func (b *FakeBackend) GetOrder(c context.Context, token string, orderID int) (backendapi.Order, error) {
	order, err := b.ownOrder(c, token, orderID)
	if err != nil {
		return backendapi.Order{}, err
	}
	return order.Order, nil
}

func (b *FakeBackend) CreateRazorpayOrder(c context.Context, token string, req backendapi.CreateRazorpayOrderRequest) (backendapi.RazorpayOrder, error) {
	order, err := b.ownOrder(c, token, req.OrderID)
	if err != nil {
		return backendapi.RazorpayOrder{}, err
	}

	order.RazorpayOrderID = fmt.Sprintf("order_%d", order.Order.ID)
	err = b.Orders.Put(c, strconv.Itoa(order.Order.ID), order)
	if err != nil {
		return backendapi.RazorpayOrder{}, err
	}

	return backendapi.RazorpayOrder{
		Amount:          backendapi.ToMinor(order.Order.TotalAmount),
		Currency:        "INR",
		RazorpayOrderID: order.RazorpayOrderID,
	}, nil
}

func (b *FakeBackend) VerifyPayment(c context.Context, token string, req backendapi.VerifyPaymentRequest) (backendapi.VerifyPaymentResponse, error) {
	_, err := b.authenticate(c, token)
	if err != nil {
		return backendapi.VerifyPaymentResponse{}, err
	}

	var verified fakeOrder
	orders, err := b.Orders.Query(c, []mystore.Filter{{Field: "RazorpayOrderID", Compare: "=", Value: req.RazorpayOrderID}}, "")
	if err != nil {
		return backendapi.VerifyPaymentResponse{}, err
	}
	if len(orders) == 1 && orders[0].Token == token && req.RazorpaySignature == ExpectedSignature(req.RazorpayOrderID, req.RazorpayPaymentID) {
		verified = orders[0]
	}
	if verified.Order.ID == 0 {
		return backendapi.VerifyPaymentResponse{Status: "failed", Message: "Invalid payment signature"},
			myerrors.NewBadGatewayError(fmt.Errorf("%w: invalid signature", backendapi.ErrVerificationFailed))
	}

	verified.Order.PaymentStatus = "paid"
	verified.Order.Status = "confirmed"
	err = b.Orders.Put(c, strconv.Itoa(verified.Order.ID), verified)
	if err != nil {
		return backendapi.VerifyPaymentResponse{}, err
	}

	return backendapi.VerifyPaymentResponse{Status: "success", Message: "Payment verified successfully"}, nil
}
