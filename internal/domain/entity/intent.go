package entity

import "strings"

// Intent is the closed classification vocabulary for inbound customer
// messages. The generator may return anything; ParseIntent guarantees a
// value from this set with IntentOther as the fallback.
type Intent string

const (
	IntentPrice        Intent = "price"
	IntentAvailability Intent = "availability"
	IntentDelivery     Intent = "delivery"
	IntentWarranty     Intent = "warranty"
	IntentOrderStatus  Intent = "order_status"
	IntentComplaint    Intent = "complaint"
	IntentVinLookup    Intent = "vin_lookup"
	IntentFrameLookup  Intent = "frame_lookup"
	IntentGreeting     Intent = "greeting"
	IntentOther        Intent = "other"
)

var knownIntents = map[Intent]struct{}{
	IntentPrice:        {},
	IntentAvailability: {},
	IntentDelivery:     {},
	IntentWarranty:     {},
	IntentOrderStatus:  {},
	IntentComplaint:    {},
	IntentVinLookup:    {},
	IntentFrameLookup:  {},
	IntentGreeting:     {},
	IntentOther:        {},
}

// ParseIntent normalizes a raw label from the generator into a known intent.
// Unknown or empty labels map to IntentOther, never an error.
func ParseIntent(raw string) Intent {
	label := Intent(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := knownIntents[label]; ok {
		return label
	}
	return IntentOther
}

// IsIdentification reports whether the intent belongs to the vehicle
// identification flow (VIN / frame number lookups). Replies in this flow
// must never silently quote a price.
func (i Intent) IsIdentification() bool {
	return i == IntentVinLookup || i == IntentFrameLookup
}
