package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/MarcGrol/equipmentshop/lib/myerrors"
	"github.com/MarcGrol/equipmentshop/lib/myevents"
	"github.com/MarcGrol/equipmentshop/lib/mylock"
	"github.com/MarcGrol/equipmentshop/lib/mylog"
	"github.com/MarcGrol/equipmentshop/lib/mypublisher"
	"github.com/MarcGrol/equipmentshop/lib/myqueue"
	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
	"github.com/MarcGrol/equipmentshop/services/backendapi"
	"github.com/MarcGrol/equipmentshop/services/checkout/checkoutevents"
	"github.com/MarcGrol/equipmentshop/services/session"
)

const (
	submitLockTTL    = 30 * time.Second
	statusCheckDelay = 2 * time.Minute
)

type Config struct {
	RazorpayKeyID string
	BaseURL       string
}

//go:generate mockgen -source=service.go -package checkout -destination service_mock.go SessionLoader
type SessionLoader interface {
	LoadByUID(c context.Context, sessionUID string) (session.Session, error)
}

type service struct {
	config       Config
	stateStore   mystore.Store[CheckoutState]
	addressCache *AddressCache
	backend      backendapi.Client
	gateway      Gateway
	locker       mylock.Locker
	publisher    mypublisher.Publisher
	queue        myqueue.TaskQueuer
	sessions     SessionLoader
	nower        mytime.Nower
	logger       mylog.Logger
}

func newService(config Config, stateStore mystore.Store[CheckoutState], addressCache *AddressCache, backend backendapi.Client,
	gateway Gateway, locker mylock.Locker, pub mypublisher.Publisher, queue myqueue.TaskQueuer, sessions SessionLoader, nower mytime.Nower) *service {
	return &service{
		config:       config,
		stateStore:   stateStore,
		addressCache: addressCache,
		backend:      backend,
		gateway:      gateway,
		locker:       locker,
		publisher:    pub,
		queue:        queue,
		sessions:     sessions,
		nower:        nower,
		logger:       mylog.New("checkout"),
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *service) getState(c context.Context, sessionUID string) (CheckoutState, error) {
	state, found, err := s.stateStore.Get(c, sessionUID)
	if err != nil {
		return CheckoutState{}, myerrors.NewInternalError(fmt.Errorf("error fetching checkout of %s: %s", sessionUID, err))
	}
	if !found {
		return newCheckoutState(sessionUID), nil
	}
	return state, nil
}

func (s *service) putState(c context.Context, state CheckoutState) error {
	state.LastModified = s.nower.Now()
	err := s.stateStore.Put(c, state.SessionUID, state)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing checkout of %s: %s", state.SessionUID, err))
	}
	return nil
}

// update runs f on the visitor's checkout state within a transaction and stores the result.
func (s *service) update(c context.Context, sessionUID string, f func(c context.Context, state CheckoutState) (CheckoutState, error)) (CheckoutState, error) {
	var result CheckoutState
	err := s.stateStore.RunInTransaction(c, func(c context.Context) error {
		state, err := s.getState(c, sessionUID)
		if err != nil {
			return err
		}

		state, err = f(c, state)
		if err != nil {
			return err
		}

		result = state
		return s.putState(c, state)
	})
	if err != nil {
		return CheckoutState{}, err
	}
	return result, nil
}

// setNotice stores a message to show on the next page render. Failing to store it is not fatal.
func (s *service) setNotice(c context.Context, sessionUID string, notice string) {
	_, err := s.update(c, sessionUID, func(c context.Context, state CheckoutState) (CheckoutState, error) {
		state.Notice = notice
		return state, nil
	})
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityError, "Error storing notice: %s", err)
	}
}

func (s *service) publish(c context.Context, event myevents.Event) error {
	err := s.publisher.Publish(c, checkoutevents.TopicName, event)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error publishing %s: %s", event.GetEventTypeName(), err))
	}
	return nil
}

func requireAuthenticated(sess session.Session) error {
	if !sess.Authenticated() {
		return myerrors.WithUserMessage(myerrors.NewAuthenticationError(fmt.Errorf("not logged in")), "Please log in first")
	}
	return nil
}
