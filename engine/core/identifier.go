package core

import "fmt"

// IDPool hands out small integer identifiers, reusing released slots first.
// A zero MaxCount means the pool grows without bound.
type IDPool struct {
	MaxCount uint32
	owners   []interface{}
}

func NewIDPool(maxCount uint32) *IDPool {
	return &IDPool{
		MaxCount: maxCount,
		owners:   make([]interface{}, 0, 100),
	}
}

func (p *IDPool) Acquire(owner interface{}) (uint32, error) {
	if owner == nil {
		return 0, fmt.Errorf("id pool acquire: owner must not be nil")
	}
	length := uint32(len(p.owners))
	for i := uint32(0); i < length; i++ {
		// Existing free spot. Take it.
		if p.owners[i] == nil {
			p.owners[i] = owner
			return i, nil
		}
	}

	if p.MaxCount > 0 && length >= p.MaxCount {
		return 0, fmt.Errorf("id pool acquire (max=%d): %w", p.MaxCount, ErrIDPoolExhausted)
	}

	// No free slot, the new id is the previous length.
	p.owners = append(p.owners, owner)
	return length, nil
}

func (p *IDPool) Release(id uint32) error {
	length := uint32(len(p.owners))
	if id >= length {
		return fmt.Errorf("id pool release: id '%d' out of range (max=%d). Nothing was done", id, length)
	}
	if p.owners[id] == nil {
		return fmt.Errorf("id pool release: id '%d' is not in use. Nothing was done", id)
	}

	p.owners[id] = nil
	return nil
}

// Owner returns whoever holds id, or nil.
func (p *IDPool) Owner(id uint32) interface{} {
	if id >= uint32(len(p.owners)) {
		return nil
	}
	return p.owners[id]
}

// InUse counts the identifiers currently held.
func (p *IDPool) InUse() int {
	n := 0
	for _, o := range p.owners {
		if o != nil {
			n++
		}
	}
	return n
}
