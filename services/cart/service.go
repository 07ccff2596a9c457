package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/mypublisher"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/session"
)

type service struct {
	viewStore mystore.Store[CartView]
	backend   backendapi.Client
	publisher mypublisher.Publisher
	nower     mytime.Nower
	logger    mylog.Logger
	baseURL   string
}

func newService(viewStore mystore.Store[CartView], backend backendapi.Client, pub mypublisher.Publisher, nower mytime.Nower, baseURL string) *service {
	return &service{
		viewStore: viewStore,
		backend:   backend,
		publisher: pub,
		nower:     nower,
		logger:    mylog.New("cart"),
		baseURL:   baseURL,
	}
}

// refresh replaces the local view with the remote cart. A pending notice survives.
func (s *service) refresh(c context.Context, sess session.Session) (CartView, error) {
	remote, err := s.backend.GetCart(c, sess.Token)
	if err != nil {
		return CartView{}, err
	}

	view := viewFromCart(sess.UID, remote, s.nower.Now())

	err = s.viewStore.RunInTransaction(c, func(c context.Context) error {
		previous, found, err := s.viewStore.Get(c, sess.UID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if found {
			view.Notice = previous.Notice
		}
		return s.viewStore.Put(c, sess.UID, view)
	})
	if err != nil {
		return CartView{}, myerrors.NewInternalError(fmt.Errorf("error storing cart view of %s: %s", sess.UID, err))
	}

	return view, nil
}

// takeNotice returns the pending notice once.
func (s *service) takeNotice(c context.Context, sessionUID string) (string, error) {
	notice := ""
	err := s.viewStore.RunInTransaction(c, func(c context.Context) error {
		view, found, err := s.viewStore.Get(c, sessionUID)
		if err != nil {
			return err
		}
		if !found || view.Notice == "" {
			return nil
		}
		notice = view.Notice
		view.Notice = ""
		return s.viewStore.Put(c, sessionUID, view)
	})
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error fetching notice of %s: %s", sessionUID, err))
	}
	return notice, nil
}

func (s *service) setNotice(c context.Context, sessionUID string, notice string) {
	err := s.viewStore.RunInTransaction(c, func(c context.Context) error {
		view, found, err := s.viewStore.Get(c, sessionUID)
		if err != nil {
			return err
		}
		if !found {
			view = CartView{SessionUID: sessionUID, Lines: []CartLine{}}
		}
		view.Notice = notice
		return s.viewStore.Put(c, sessionUID, view)
	})
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error storing notice: %s", err)
	}
}

func (s *service) increment(c context.Context, sess session.Session, itemID int) (CartView, error) {
	return s.mutate(c, sess, newChangeQuantity(itemID, +1))
}

func (s *service) decrement(c context.Context, sess session.Session, itemID int) (CartView, error) {
	return s.mutate(c, sess, newChangeQuantity(itemID, -1))
}

func (s *service) remove(c context.Context, sess session.Session, itemID int) (CartView, error) {
	return s.mutate(c, sess, newRemoveLine(itemID))
}

// mutate applies cmd to the local view first and then to the remote cart.
// When the remote call fails, the compensation restores the local view.
func (s *service) mutate(c context.Context, sess session.Session, cmd lineCommand) (CartView, error) {
	view, found, err := s.viewStore.Get(c, sess.UID)
	if err != nil {
		return CartView{}, myerrors.NewInternalError(err)
	}
	if !found {
		view, err = s.refresh(c, sess)
		if err != nil {
			return CartView{}, err
		}
	}

	err = cmd.Apply(&view)
	if err != nil {
		return view, err
	}
	view.LastModified = s.nower.Now()

	err = s.viewStore.Put(c, sess.UID, view)
	if err != nil {
		return view, myerrors.NewInternalError(err)
	}

	item, err := cmd.Execute(c, s.backend, sess.Token)
	if err != nil {
		s.logger.Log(c, sess.UID, mylog.SeverityWarn, "Cart change rejected by backend, compensating: %s", err)

		cmd.Compensate(&view)
		putErr := s.viewStore.Put(c, sess.UID, view)
		if putErr != nil {
			s.logger.Log(c, sess.UID, mylog.SeverityError, "Error storing compensated cart view: %s", putErr)
		}
		return view, err
	}

	if item != nil {
		// the backend has the final say on quantity and price
		idx, found := view.findLine(item.ID)
		if found {
			view.Lines[idx] = lineFromItem(*item)
			view.recalculate()
		}
	}

	err = s.viewStore.Put(c, sess.UID, view)
	if err != nil {
		return view, myerrors.NewInternalError(err)
	}

	return view, nil
}
