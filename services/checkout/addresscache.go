package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/MarcGrol/equipmentshop/lib/mystore"
	"github.com/MarcGrol/equipmentshop/lib/mytime"
)

const (
	addressKey     = "selectedShippingAddress"
	phoneNumberKey = "selectedShippingPhoneNumber"
)

// LocalEntry is one key/value pair of a visitor's local storage.
type LocalEntry struct {
	SessionUID   string
	Key          string
	Value        string `datastore:",noindex"`
	LastModified time.Time
}

// AddressCache remembers the last confirmed shipping address of a visitor, so a
// reload or a new process does not lose it.
type AddressCache struct {
	store mystore.Store[LocalEntry]
	nower mytime.Nower
}

func NewAddressCache(store mystore.Store[LocalEntry], nower mytime.Nower) *AddressCache {
	return &AddressCache{
		store: store,
		nower: nower,
	}
}

func entryUID(sessionUID string, key string) string {
	return sessionUID + "/" + key
}

func (ac *AddressCache) Get(c context.Context, sessionUID string) (ShippingAddress, error) {
	address, _, err := ac.store.Get(c, entryUID(sessionUID, addressKey))
	if err != nil {
		return ShippingAddress{}, fmt.Errorf("error reading %s: %s", addressKey, err)
	}
	phoneNumber, _, err := ac.store.Get(c, entryUID(sessionUID, phoneNumberKey))
	if err != nil {
		return ShippingAddress{}, fmt.Errorf("error reading %s: %s", phoneNumberKey, err)
	}

	return ShippingAddress{
		Address:     address.Value,
		PhoneNumber: phoneNumber.Value,
	}, nil
}

func (ac *AddressCache) Put(c context.Context, sessionUID string, address ShippingAddress) error {
	now := ac.nower.Now()
	for key, value := range map[string]string{addressKey: address.Address, phoneNumberKey: address.PhoneNumber} {
		err := ac.store.Put(c, entryUID(sessionUID, key), LocalEntry{
			SessionUID:   sessionUID,
			Key:          key,
			Value:        value,
			LastModified: now,
		})
		if err != nil {
			return fmt.Errorf("error writing %s: %s", key, err)
		}
	}
	return nil
}

func (ac *AddressCache) Clear(c context.Context, sessionUID string) error {
	for _, key := range []string{addressKey, phoneNumberKey} {
		err := ac.store.Delete(c, entryUID(sessionUID, key))
		if err != nil {
			return fmt.Errorf("error removing %s: %s", key, err)
		}
	}
	return nil
}
