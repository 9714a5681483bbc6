package cart

import "errors"

// ErrQuantityAtMax signals an increment against a line already at the
// available stock ceiling.
var ErrQuantityAtMax = errors.New("quantity already at available stock")

// ErrLineNotFound signals an operation against a line the store does
// not hold.
var ErrLineNotFound = errors.New("cart line not found")

// LineItem is one entry in a working cart set. Size 0 is the one-size
// ("Free") sentinel.
type LineItem struct {
	ProductID   int64
	ProductName string
	Size        int
	Quantity    int
	UnitPrice   int
	Discount    int
}

// LineItemStore keeps an insertion-ordered working set of cart lines
// keyed by (productID, size). Checkout collection and the cart page
// build on it instead of scraping state out of rendered output.
// Not safe for concurrent use; callers own synchronization.
type LineItemStore struct {
	lines []LineItem
	index map[lineKey]int
}

type lineKey struct {
	productID int64
	size      int
}

// NewLineItemStore returns an empty store.
func NewLineItemStore() *LineItemStore {
	return &LineItemStore{index: make(map[lineKey]int)}
}

// Upsert replaces quantity and pricing on a (productID, size) match,
// otherwise appends. Insertion order is preserved across replacements.
func (s *LineItemStore) Upsert(item LineItem) {
	key := lineKey{item.ProductID, item.Size}
	if i, ok := s.index[key]; ok {
		s.lines[i] = item
		return
	}
	s.index[key] = len(s.lines)
	s.lines = append(s.lines, item)
}

// IncrementQuantity raises the line quantity by one, refusing to pass
// the available stock.
func (s *LineItemStore) IncrementQuantity(productID int64, size, maxStock int) error {
	i, ok := s.index[lineKey{productID, size}]
	if !ok {
		return ErrLineNotFound
	}
	if s.lines[i].Quantity >= maxStock {
		return ErrQuantityAtMax
	}
	s.lines[i].Quantity++
	return nil
}

// DecrementQuantity lowers the line quantity by one, never below 1.
func (s *LineItemStore) DecrementQuantity(productID int64, size int) error {
	i, ok := s.index[lineKey{productID, size}]
	if !ok {
		return ErrLineNotFound
	}
	if s.lines[i].Quantity > 1 {
		s.lines[i].Quantity--
	}
	return nil
}

// Remove deletes the line if present.
func (s *LineItemStore) Remove(productID int64, size int) {
	key := lineKey{productID, size}
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	delete(s.index, key)
	for j := i; j < len(s.lines); j++ {
		s.index[lineKey{s.lines[j].ProductID, s.lines[j].Size}] = j
	}
}

// Get returns the line for the key when present.
func (s *LineItemStore) Get(productID int64, size int) (LineItem, bool) {
	i, ok := s.index[lineKey{productID, size}]
	if !ok {
		return LineItem{}, false
	}
	return s.lines[i], true
}

// List returns an insertion-ordered snapshot of the lines.
func (s *LineItemStore) List() []LineItem {
	out := make([]LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len reports the number of lines held.
func (s *LineItemStore) Len() int {
	return len(s.lines)
}
