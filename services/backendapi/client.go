package backendapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myhttpclient"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
)

// A cart is expected to fit one page. Following next links is bounded so a
// misbehaving backend cannot keep us paging forever.
const maxCartPages = 10

//go:generate mockgen -source=client.go -package backendapi -destination client_mock.go Client
type Client interface {
	GetCurrentUser(c context.Context, token string) (User, error)
	GetCart(c context.Context, token string) (Cart, error)
	UpdateCartItem(c context.Context, token string, itemID int, quantity int) (CartItem, error)
	RemoveCartItem(c context.Context, token string, itemID int) error
	CreateOrderFromCart(c context.Context, token string, req CreateOrderRequest) (Order, error)
	GetOrder(c context.Context, token string, orderID int) (Order, error)
	CreateRazorpayOrder(c context.Context, token string, req CreateRazorpayOrderRequest) (RazorpayOrder, error)
	VerifyPayment(c context.Context, token string, req VerifyPaymentRequest) (VerifyPaymentResponse, error)
}

type client struct {
	baseURL string
	sender  myhttpclient.HTTPSender
	logger  mylog.Logger
}

func NewClient(baseURL string, sender myhttpclient.HTTPSender) *client {
	return &client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		sender:  sender,
		logger:  mylog.New("backendapi"),
	}
}

func (cl *client) GetCurrentUser(c context.Context, token string) (User, error) {
	user := User{}
	err := cl.do(c, "fetching current user", http.MethodGet, cl.baseURL+"/auth/user/", token, nil, &user)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (cl *client) GetCart(c context.Context, token string) (Cart, error) {
	cart := Cart{Items: []CartItem{}}

	pageURL := cl.baseURL + "/cart/"
	for pageCount := 1; ; pageCount++ {
		if pageCount > maxCartPages {
			return Cart{}, myerrors.NewBadGatewayError(fmt.Errorf("cart spans more than %d pages", maxCartPages))
		}

		page := cartPage{}
		err := cl.do(c, "fetching cart", http.MethodGet, pageURL, token, nil, &page)
		if err != nil {
			return Cart{}, err
		}
		cart.Items = append(cart.Items, page.Results...)

		if page.Next == nil || *page.Next == "" {
			break
		}
		pageURL = *page.Next
	}

	return cart, nil
}

func (cl *client) UpdateCartItem(c context.Context, token string, itemID int, quantity int) (CartItem, error) {
	item := CartItem{}
	err := cl.do(c, "updating cart item", http.MethodPatch, fmt.Sprintf("%s/cart/%d/", cl.baseURL, itemID), token, updateCartItemRequest{Quantity: quantity}, &item)
	if err != nil {
		return CartItem{}, err
	}
	return item, nil
}

func (cl *client) RemoveCartItem(c context.Context, token string, itemID int) error {
	return cl.do(c, "removing cart item", http.MethodDelete, fmt.Sprintf("%s/cart/%d/", cl.baseURL, itemID), token, nil, nil)
}

func (cl *client) CreateOrderFromCart(c context.Context, token string, req CreateOrderRequest) (Order, error) {
	order := Order{}
	err := cl.do(c, "creating order", http.MethodPost, cl.baseURL+"/orders/create_from_cart/", token, req, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (cl *client) GetOrder(c context.Context, token string, orderID int) (Order, error) {
	order := Order{}
	err := cl.do(c, "fetching order", http.MethodGet, fmt.Sprintf("%s/orders/%d/", cl.baseURL, orderID), token, nil, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (cl *client) CreateRazorpayOrder(c context.Context, token string, req CreateRazorpayOrderRequest) (RazorpayOrder, error) {
	session := RazorpayOrder{}
	err := cl.do(c, "creating payment session", http.MethodPost, cl.baseURL+"/payments/create_razorpay_order/", token, req, &session)
	if err != nil {
		return RazorpayOrder{}, err
	}
	return session, nil
}

func (cl *client) VerifyPayment(c context.Context, token string, req VerifyPaymentRequest) (VerifyPaymentResponse, error) {
	operation := "verifying payment"

	body, err := json.Marshal(req)
	if err != nil {
		return VerifyPaymentResponse{}, myerrors.NewInternalError(fmt.Errorf("error %s: %s", operation, err))
	}

	status, respBody, err := cl.sender.Send(c, http.MethodPost, cl.baseURL+"/payments/verify_payment/", token, body)
	if err != nil {
		return VerifyPaymentResponse{}, transportError(operation, err)
	}

	resp := VerifyPaymentResponse{}
	_ = json.Unmarshal(respBody, &resp)

	// a rejected proof is reported as its own kind of error
	if status == http.StatusBadRequest || (status >= 200 && status < 300 && strings.EqualFold(resp.Status, "failed")) {
		return resp, myerrors.NewBadGatewayError(fmt.Errorf("%w: backend returned %d: %s", ErrVerificationFailed, status, extractMessage(respBody)))
	}
	if status < 200 || status >= 300 {
		return VerifyPaymentResponse{}, statusError(operation, status, respBody)
	}

	return resp, nil
}

func (cl *client) do(c context.Context, operation string, method string, url string, token string, request any, response any) error {
	var body []byte
	if request != nil {
		var err error
		body, err = json.Marshal(request)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error %s: %s", operation, err))
		}
	}

	status, respBody, err := cl.sender.Send(c, method, url, token, body)
	if err != nil {
		cl.logger.Log(c, "", mylog.SeverityError, "Error %s: %s", operation, err)
		return transportError(operation, err)
	}

	if status < 200 || status >= 300 {
		cl.logger.Log(c, "", mylog.SeverityWarn, "Error %s: %s %s -> %d", operation, method, url, status)
		return statusError(operation, status, respBody)
	}

	if response == nil || len(respBody) == 0 {
		return nil
	}

	err = json.Unmarshal(respBody, response)
	if err != nil {
		return myerrors.NewBadGatewayError(fmt.Errorf("error %s: error parsing response: %s", operation, err))
	}

	return nil
}
