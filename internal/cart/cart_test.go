package cart

import (
	"errors"
	"sync"
	"testing"

	"github.com/foodlink/foodlink-backend/internal/model"
)

func item(id, donorID uint64, qty uint) *model.FoodItem {
	return &model.FoodItem{
		ID:             id,
		DonorID:        donorID,
		Name:           "bread",
		Quantity:       qty,
		ExpiryDate:     "2026-09-10",
		PickupLocation: "Main St 1",
	}
}

func TestAddOrUpdateQuantityBounds(t *testing.T) {
	tests := []struct {
		name      string
		requested uint
		wantErr   bool
	}{
		{"zero", 0, true},
		{"minimum", 1, false},
		{"at stock", 5, false},
		{"over stock", 6, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			err := c.AddOrUpdate(item(1, 10, 5), "Bakery", tt.requested)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidQuantity) {
				t.Fatalf("err=%v want ErrInvalidQuantity", err)
			}
		})
	}
}

func TestAddOrUpdateRejectsSecondDonor(t *testing.T) {
	c := New()
	if err := c.AddOrUpdate(item(1, 10, 5), "Bakery", 2); err != nil {
		t.Fatal(err)
	}
	err := c.AddOrUpdate(item(2, 11, 5), "Grocer", 1)
	if !errors.Is(err, ErrDonorMismatch) {
		t.Fatalf("err=%v want ErrDonorMismatch", err)
	}
	snap := c.Snapshot()
	for _, l := range snap.Lines {
		if l.ItemID == 2 {
			t.Fatal("cross-donor line was added")
		}
	}
	if snap.DonorID != 10 {
		t.Fatalf("donor scope changed to %d", snap.DonorID)
	}
}

func TestAddOrUpdateReplacesExistingLine(t *testing.T) {
	c := New()
	if err := c.AddOrUpdate(item(1, 10, 5), "Bakery", 2); err != nil {
		t.Fatal(err)
	}
	if err := c.AddOrUpdate(item(1, 10, 5), "Bakery", 4); err != nil {
		t.Fatal(err)
	}
	snap := c.Snapshot()
	if len(snap.Lines) != 1 {
		t.Fatalf("len=%d want 1", len(snap.Lines))
	}
	if snap.Lines[0].Requested != 4 {
		t.Fatalf("requested=%d want 4", snap.Lines[0].Requested)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New()
	if err := c.AddOrUpdate(item(1, 10, 5), "Bakery", 2); err != nil {
		t.Fatal(err)
	}
	c.Remove(99) // absent id, no-op
	if len(c.Snapshot().Lines) != 1 {
		t.Fatalf("len=%d want 1", len(c.Snapshot().Lines))
	}
	c.Remove(1)
	c.Remove(1)
	if !c.Empty() {
		t.Fatal("cart should be empty")
	}
	// Emptying the cart releases the donor scope.
	if err := c.AddOrUpdate(item(2, 11, 5), "Grocer", 1); err != nil {
		t.Fatalf("add after empty: %v", err)
	}
}

func TestTotalRequestedUnits(t *testing.T) {
	c := New()
	_ = c.AddOrUpdate(item(1, 10, 5), "Bakery", 2)
	_ = c.AddOrUpdate(item(2, 10, 7), "Bakery", 3)
	if got := c.Snapshot().TotalRequestedUnits(); got != 5 {
		t.Fatalf("total=%d want 5", got)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	c := New()
	_ = c.AddOrUpdate(item(1, 10, 5), "Bakery", 2)
	snap := c.Snapshot()
	c.Clear()
	if len(snap.Lines) != 1 || snap.DonorID != 10 {
		t.Fatal("snapshot changed after the cart did")
	}
}

func TestConcurrentAddAndRemove(t *testing.T) {
	c := New()
	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			_ = c.AddOrUpdate(item(id, 10, 5), "Bakery", 1)
			c.Remove(id + n) // absent, no-op
			_ = c.Snapshot()
		}(uint64(i + 1))
	}
	wg.Wait()
	snap := c.Snapshot()
	if len(snap.Lines) != n {
		t.Fatalf("len=%d want %d", len(snap.Lines), n)
	}
	if snap.TotalRequestedUnits() != n {
		t.Fatalf("total=%d want %d", snap.TotalRequestedUnits(), n)
	}
}

func TestConcurrentAddsNeverMixDonors(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			// Even and odd ids belong to different donors; only one donor's
			// lines may survive in any interleaving.
			_ = c.AddOrUpdate(item(id, 10+id%2, 5), "Shop", 1)
		}(uint64(i + 1))
	}
	wg.Wait()
	snap := c.Snapshot()
	if snap.Empty() {
		t.Fatal("no line won the race")
	}
	donors := make(map[uint64]bool)
	for _, l := range snap.Lines {
		donors[l.ItemID%2] = true
	}
	if len(donors) != 1 {
		t.Fatalf("lines from %d donors in one cart", len(donors))
	}
}

func TestStoreKeepsCartPerReceiver(t *testing.T) {
	s := NewStore()
	a := s.Get(1)
	_ = a.AddOrUpdate(item(1, 10, 5), "Bakery", 2)

	if got := s.Get(1); got.Empty() {
		t.Fatal("cart did not survive re-fetch")
	}
	if got := s.Get(2); !got.Empty() {
		t.Fatal("carts leaked across receivers")
	}
	s.Drop(1)
	if got := s.Get(1); !got.Empty() {
		t.Fatal("cart survived Drop")
	}
}
