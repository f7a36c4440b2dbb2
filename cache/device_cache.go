package cache

import (
	"cmp"
	"slices"

	"github.com/P8labs/foxctl/event"
	"github.com/P8labs/foxctl/model"
	"github.com/P8labs/foxctl/state"
)

type DeviceDetails struct {
	Ip      string
	Status  model.DeviceStatus
	FirstTs int64
	LastTs  int64
	Count   int
}

// DeviceCache remembers every device seen while watching. It is not safe for
// concurrent use.
type DeviceCache struct {
	Items map[DeviceKey]DeviceDetails
}

func NewDeviceCache() DeviceCache {
	return DeviceCache{
		Items: map[DeviceKey]DeviceDetails{},
	}
}

func FromAppState(appState state.AppState) (DeviceCache, error) {
	cache := NewDeviceCache()
	for _, stateItem := range appState.Items {
		key, err := KeyFromMAC(stateItem.Mac)
		if err != nil {
			return DeviceCache{}, err
		}
		cache.Items[key] = DeviceDetails{
			Ip:      stateItem.Ip,
			Status:  model.DeviceStatus(stateItem.Status),
			FirstTs: stateItem.FirstTs,
			LastTs:  stateItem.LastTs,
			Count:   stateItem.Count,
		}
	}
	return cache, nil
}

func (c *DeviceCache) ToAppState() state.AppState {
	appState := state.NewAppState()
	for cacheKey, cacheValue := range c.Items {
		stateItem := state.Item{
			Mac:     cacheKey.String(),
			Ip:      cacheValue.Ip,
			Status:  string(cacheValue.Status),
			FirstTs: cacheValue.FirstTs,
			LastTs:  cacheValue.LastTs,
			Count:   cacheValue.Count,
		}
		appState.Items = append(appState.Items, stateItem)
	}
	slices.SortFunc(appState.Items, func(a, b state.Item) int {
		return cmp.Or(cmp.Compare(a.FirstTs, b.FirstTs), cmp.Compare(a.Mac, b.Mac))
	})
	return appState
}

// Update records one observation of device at ts (Unix milliseconds). The
// returned event carries the device with its MAC in canonical form and the
// status known before this observation.
func (c *DeviceCache) Update(device model.Device, ts int64) (event.DeviceEvent, error) {
	key, err := KeyFromMAC(device.MACAddress)
	if err != nil {
		return event.DeviceEvent{}, err
	}
	device.MACAddress = key.String()

	val, known := c.Items[key]
	previousStatus := val.Status
	if !known {
		val.FirstTs = ts
	}
	val.LastTs = ts
	val.Count++
	val.Status = device.Status
	val.Ip = device.IP()
	c.Items[key] = val

	return event.DeviceEvent{
		Device:         device,
		Ts:             ts,
		FirstTs:        val.FirstTs,
		Count:          val.Count,
		New:            !known,
		PreviousStatus: previousStatus,
	}, nil
}
