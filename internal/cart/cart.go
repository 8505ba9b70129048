// Package cart holds a receiver's staged item selection before checkout.
// A cart only ever references items from a single donor; one checkout
// becomes one delivery.
package cart

import (
	"errors"
	"sync"

	"github.com/foodlink/foodlink-backend/internal/model"
)

var (
	ErrInvalidQuantity = errors.New("requested quantity out of range")
	ErrDonorMismatch   = errors.New("cart already holds items from another donor")
)

// Line is one staged item with the display fields the checkout page needs,
// denormalized at selection time.
type Line struct {
	ItemID         uint64 `json:"itemId"`
	Name           string `json:"name"`
	Available      uint   `json:"available"`
	Requested      uint   `json:"requested"`
	ExpiryDate     string `json:"expiryDate"`
	PickupLocation string `json:"pickupLocation"`
}

// Cart is shared by every request of one receiver's session, so all access
// goes through the mutex. Readers take a Snapshot instead of touching the
// lines directly.
type Cart struct {
	mu        sync.Mutex
	donorID   uint64
	donorName string
	lines     []Line
}

func New() *Cart {
	return &Cart{}
}

// Snapshot is a point-in-time copy of a cart, safe to read and serialize
// while the cart keeps changing.
type Snapshot struct {
	DonorID   uint64 `json:"donorId"`
	DonorName string `json:"donorName"`
	Lines     []Line `json:"lines"`
}

func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// TotalRequestedUnits sums the requested quantity across lines. Display
// only; submission re-validates against live item quantities.
func (s Snapshot) TotalRequestedUnits() uint {
	var total uint
	for _, l := range s.Lines {
		total += l.Requested
	}
	return total
}

func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]Line, len(c.lines))
	copy(lines, c.lines)
	return Snapshot{DonorID: c.donorID, DonorName: c.donorName, Lines: lines}
}

// AddOrUpdate stages requested units of item. Adding an item from a donor
// other than the cart's current one is rejected with ErrDonorMismatch; the
// caller re-filters its catalog to the cart's donor instead. A line for an
// already-staged item is replaced, not duplicated.
func (c *Cart) AddOrUpdate(item *model.FoodItem, donorName string, requested uint) error {
	if requested < 1 || requested > item.Quantity {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) > 0 && c.donorID != item.DonorID {
		return ErrDonorMismatch
	}
	line := Line{
		ItemID:         item.ID,
		Name:           item.Name,
		Available:      item.Quantity,
		Requested:      requested,
		ExpiryDate:     item.ExpiryDate,
		PickupLocation: item.PickupLocation,
	}
	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i] = line
			return nil
		}
	}
	c.donorID = item.DonorID
	c.donorName = donorName
	c.lines = append(c.lines, line)
	return nil
}

// Remove drops the line for itemID. Removing an absent id is a no-op.
func (c *Cart) Remove(itemID uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			break
		}
	}
	if len(c.lines) == 0 {
		c.donorID = 0
		c.donorName = ""
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.donorID = 0
	c.donorName = ""
	c.lines = nil
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}
