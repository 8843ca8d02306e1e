package history

// Window is a bounded, FIFO-evicted sequence of recent prices for one token.
// Appends beyond capacity drop the oldest entry first.
type Window struct {
	prices   []float64
	capacity int
}

// NewWindow creates an empty window holding at most capacity prices.
func NewWindow(capacity int) *Window {
	return &Window{
		prices:   make([]float64, 0, capacity+1),
		capacity: capacity,
	}
}

// Append adds a price in arrival order, evicting the oldest entry when the
// window is full.
func (w *Window) Append(price float64) {
	w.prices = append(w.prices, price)
	if len(w.prices) > w.capacity {
		// shift left in place so the backing array never grows past capacity+1
		copy(w.prices, w.prices[1:])
		w.prices = w.prices[:w.capacity]
	}
}

// Prices returns the current contents in arrival order. Callers must not
// mutate the returned slice.
func (w *Window) Prices() []float64 {
	return w.prices
}

// Len returns the number of prices currently held.
func (w *Window) Len() int {
	return len(w.prices)
}

// Table maps token addresses to their price windows. Entries are created
// lazily on first write and never removed; token cardinality is bounded by
// the market, so growth is accepted.
//
// Table is single-writer state. All mutation must come from one goroutine.
type Table struct {
	windows  map[string]*Window
	capacity int
}

// NewTable creates an empty table whose windows hold capacity prices each.
func NewTable(capacity int) *Table {
	return &Table{
		windows:  make(map[string]*Window),
		capacity: capacity,
	}
}

// Track returns the window for token, creating an empty one on first use.
func (t *Table) Track(token string) *Window {
	w, ok := t.windows[token]
	if !ok {
		w = NewWindow(t.capacity)
		t.windows[token] = w
	}
	return w
}

// Record appends price to the token's window.
func (t *Table) Record(token string, price float64) {
	t.Track(token).Append(price)
}

// Prices returns the token's current window contents, empty for unknown tokens.
func (t *Table) Prices(token string) []float64 {
	w, ok := t.windows[token]
	if !ok {
		return nil
	}
	return w.Prices()
}

// Tokens returns the number of tokens currently tracked.
func (t *Table) Tokens() int {
	return len(t.windows)
}
