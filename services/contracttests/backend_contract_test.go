package contracttests

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttpclient"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
)

func TestInMemoryBackend(t *testing.T) {
	BackendContract{
		backend: func(t *testing.T) (backendapi.Client, *FakeBackend) {
			fake := NewFakeBackend()
			return fake, fake
		},
	}.Test(t)
}

func TestHTTPBackend(t *testing.T) {
	BackendContract{
		backend: func(t *testing.T) (backendapi.Client, *FakeBackend) {
			fake := NewFakeBackend()
			server := httptest.NewServer(NewFakeBackendServer(fake))
			t.Cleanup(server.Close)
			return backendapi.NewClient(server.URL, myhttpclient.New("contract")), fake
		},
	}.Test(t)
}

type BackendContract struct {
	backend func(t *testing.T) (backendapi.Client, *FakeBackend)
}

var (
	asha = backendapi.User{ID: 7, Email: "asha@example.com", FirstName: "Asha", Role: backendapi.RoleCustomer}

	drill    = backendapi.Product{ID: 10, Name: "Drill press", Price: decimal.RequireFromString("4000.00")}
	goggles  = backendapi.Product{ID: 11, Name: "Safety goggles", Price: decimal.RequireFromString("999.00")}
	gloves   = backendapi.Product{ID: 12, Name: "Work gloves", Price: decimal.RequireFromString("250.50")}
	ashaCart = []backendapi.CartItem{
		{ID: 1, Product: drill, Quantity: 2},
		{ID: 2, Product: goggles, Quantity: 1},
		{ID: 3, Product: gloves, Quantity: 2},
	}
)

func (bc BackendContract) given(t *testing.T) (backendapi.Client, *FakeBackend) {
	sut, fake := bc.backend(t)
	c := context.Background()
	assert.NoError(t, fake.AddUser(c, "tok", asha))
	for _, item := range ashaCart {
		assert.NoError(t, fake.AddCartItem(c, "tok", item))
	}
	return sut, fake
}

func (bc BackendContract) Test(t *testing.T) {
	t.Run("knows the current user", func(t *testing.T) {
		sut, _ := bc.given(t)

		user, err := sut.GetCurrentUser(context.Background(), "tok")
		assert.NoError(t, err)
		assert.Equal(t, asha, user)
	})

	t.Run("rejects an unknown token", func(t *testing.T) {
		sut, _ := bc.given(t)

		_, err := sut.GetCurrentUser(context.Background(), "stolen")
		assert.Equal(t, http.StatusUnauthorized, myerrors.GetHTTPStatus(err))
	})

	t.Run("returns the whole cart", func(t *testing.T) {
		sut, _ := bc.given(t)

		cart, err := sut.GetCart(context.Background(), "tok")
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 3)
		assert.Equal(t, int64(950000), backendapi.ToMinor(cart.Total()))
	})

	t.Run("changes and removes cart lines", func(t *testing.T) {
		sut, _ := bc.given(t)
		c := context.Background()

		item, err := sut.UpdateCartItem(c, "tok", 2, 3)
		assert.NoError(t, err)
		assert.Equal(t, 3, item.Quantity)
		assert.Equal(t, int64(299700), backendapi.ToMinor(item.LineTotal()))

		_, err = sut.UpdateCartItem(c, "tok", 2, 0)
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))

		assert.NoError(t, sut.RemoveCartItem(c, "tok", 1))
		err = sut.RemoveCartItem(c, "tok", 1)
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))

		cart, err := sut.GetCart(c, "tok")
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 2)
	})

	t.Run("converts the cart into an order", func(t *testing.T) {
		sut, _ := bc.given(t)
		c := context.Background()

		order, err := sut.CreateOrderFromCart(c, "tok", backendapi.CreateOrderRequest{ShippingAddress: "12 MG Road, Pune", PhoneNumber: "9876543210"})
		assert.NoError(t, err)
		assert.Equal(t, "ORD-0001", order.OrderNumber)
		assert.Equal(t, int64(950000), backendapi.ToMinor(order.TotalAmount))

		got, err := sut.GetOrder(c, "tok", order.ID)
		assert.NoError(t, err)
		assert.Equal(t, "pending", got.PaymentStatus)

		cart, err := sut.GetCart(c, "tok")
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)

		_, err = sut.CreateOrderFromCart(c, "tok", backendapi.CreateOrderRequest{ShippingAddress: "12 MG Road, Pune", PhoneNumber: "9876543210"})
		assert.Equal(t, http.StatusBadRequest, myerrors.GetHTTPStatus(err))
		assert.Equal(t, "Cart is empty", myerrors.UserMessage(err))
	})

	t.Run("does not know orders of others", func(t *testing.T) {
		sut, _ := bc.given(t)

		_, err := sut.GetOrder(context.Background(), "tok", 99)
		assert.Equal(t, http.StatusNotFound, myerrors.GetHTTPStatus(err))
	})

	t.Run("takes a gateway payment", func(t *testing.T) {
		sut, _ := bc.given(t)
		c := context.Background()

		order, err := sut.CreateOrderFromCart(c, "tok", backendapi.CreateOrderRequest{ShippingAddress: "12 MG Road, Pune", PhoneNumber: "9876543210"})
		assert.NoError(t, err)

		payment, err := sut.CreateRazorpayOrder(c, "tok", backendapi.CreateRazorpayOrderRequest{OrderID: order.ID})
		assert.NoError(t, err)
		assert.Equal(t, int64(950000), payment.Amount)
		assert.Equal(t, "INR", payment.Currency)

		_, err = sut.VerifyPayment(c, "tok", backendapi.VerifyPaymentRequest{
			RazorpayPaymentID: "pay_1",
			RazorpayOrderID:   payment.RazorpayOrderID,
			RazorpaySignature: "forged",
		})
		assert.True(t, errors.Is(err, backendapi.ErrVerificationFailed))

		resp, err := sut.VerifyPayment(c, "tok", backendapi.VerifyPaymentRequest{
			RazorpayPaymentID: "pay_1",
			RazorpayOrderID:   payment.RazorpayOrderID,
			RazorpaySignature: ExpectedSignature(payment.RazorpayOrderID, "pay_1"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "success", resp.Status)

		got, err := sut.GetOrder(c, "tok", order.ID)
		assert.NoError(t, err)
		assert.Equal(t, "paid", got.PaymentStatus)
	})
}
