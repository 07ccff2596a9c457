package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.publisher.Subscribe(c, checkoutevents.TopicName, s.baseURL+"/api/cart/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

// OnOrderCreated drops the local view: the backend has emptied the cart.
func (s *service) OnOrderCreated(c context.Context, topic string, event checkoutevents.OrderCreated) error {
	s.logger.Log(c, event.SessionUID, mylog.SeverityInfo, "Order %s created from cart of %s", event.OrderNumber, event.SessionUID)

	err := s.viewStore.Delete(c, event.SessionUID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error deleting cart view of %s: %s", event.SessionUID, err))
	}

	return nil
}
