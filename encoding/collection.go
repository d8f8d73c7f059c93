package encoding

import "iter"

// Properties is an ordered, fixed-capacity collection of MQTT 5.0 properties.
//
// The collection lives in a backing slice supplied by the caller and never
// grows: its capacity is len(backing). Adding a property copies the Property
// struct into the next free slot; the bytes its views refer to are not copied.
// A Properties value must not be used from several goroutines at once.
type Properties struct {
	items []Property
	count int
}

// NewProperties returns an empty collection stored in backing.
func NewProperties(backing []Property) (*Properties, error) {
	p := &Properties{}
	if err := p.Init(backing); err != nil {
		return nil, err
	}
	return p, nil
}

// Init makes p an empty collection stored in backing. A zero-length backing
// slice is rejected with ErrBadParameter.
func (p *Properties) Init(backing []Property) error {
	if p == nil || len(backing) == 0 {
		return ErrBadParameter
	}
	p.items = backing
	p.count = 0
	return nil
}

// Add appends prop. It fails with ErrNoMemory when the collection is full,
// leaving it unchanged. Properties are not deduplicated.
func (p *Properties) Add(prop Property) error {
	if p == nil || p.items == nil {
		return ErrBadParameter
	}
	if p.count >= len(p.items) {
		return ErrNoMemory
	}
	p.items[p.count] = prop
	p.count++
	return nil
}

// Get returns the first property with the given ID.
func (p *Properties) Get(id PropertyID) (Property, bool) {
	if p == nil {
		return Property{}, false
	}
	for i := 0; i < p.count; i++ {
		if p.items[i].ID == id {
			return p.items[i], true
		}
	}
	return Property{}, false
}

// GetAll yields every property with the given ID in insertion order.
// Useful for properties that can appear multiple times (UserProperty, SubscriptionIdentifier).
func (p *Properties) GetAll(id PropertyID) iter.Seq[Property] {
	return func(yield func(Property) bool) {
		if p == nil {
			return
		}
		for i := 0; i < p.count; i++ {
			if p.items[i].ID == id && !yield(p.items[i]) {
				return
			}
		}
	}
}

// Len returns the number of properties in the collection.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return p.count
}

// Cap returns the maximum number of properties the collection can hold.
func (p *Properties) Cap() int {
	if p == nil {
		return 0
	}
	return len(p.items)
}

// At returns the i-th property in insertion order. It panics if i is out of range.
func (p *Properties) At(i int) Property {
	if p == nil || i < 0 || i >= p.count {
		panic("encoding: property index out of range")
	}
	return p.items[i]
}

// Items returns the populated part of the backing slice. The slice aliases
// the collection's storage.
func (p *Properties) Items() []Property {
	if p == nil {
		return nil
	}
	return p.items[:p.count:p.count]
}

// Reset empties the collection and keeps its backing storage.
func (p *Properties) Reset() {
	if p == nil {
		return
	}
	clear(p.items[:p.count])
	p.count = 0
}
