package checkout

import (
	"context"
	"fmt"

	"github.com/MarcGrol/equipmentshop/lib/mystore"
)

// Gateway opens the payment gateway's own UI for the visitor.
//
//go:generate mockgen -source=gateway.go -package checkout -destination gateway_mock.go Gateway
type Gateway interface {
	Open(c context.Context, sessionUID string, opts GatewayOptions) error
	Opened(c context.Context, sessionUID string) (GatewayOptions, bool, error)
	Close(c context.Context, sessionUID string) error
}

// pageGateway keeps the options until the next checkout page render, which
// starts the gateway script in the browser.
type pageGateway struct {
	store mystore.Store[GatewayOptions]
}

func NewPageGateway(store mystore.Store[GatewayOptions]) *pageGateway {
	return &pageGateway{
		store: store,
	}
}

func (g *pageGateway) Open(c context.Context, sessionUID string, opts GatewayOptions) error {
	err := g.store.Put(c, sessionUID, opts)
	if err != nil {
		return fmt.Errorf("error opening gateway for %s: %s", sessionUID, err)
	}
	return nil
}

func (g *pageGateway) Opened(c context.Context, sessionUID string) (GatewayOptions, bool, error) {
	opts, found, err := g.store.Get(c, sessionUID)
	if err != nil {
		return GatewayOptions{}, false, fmt.Errorf("error reading gateway of %s: %s", sessionUID, err)
	}
	return opts, found, nil
}

func (g *pageGateway) Close(c context.Context, sessionUID string) error {
	err := g.store.Delete(c, sessionUID)
	if err != nil {
		return fmt.Errorf("error closing gateway for %s: %s", sessionUID, err)
	}
	return nil
}
