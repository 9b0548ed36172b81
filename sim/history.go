package sim

// History is an undo stack of dispatched customers, most recent on top.
// Undo only pops the record; it never clears the customer's service timestamps.
type History struct {
	entries []*Customer
}

// Record pushes a dispatched customer.
func (h *History) Record(c *Customer) {
	h.entries = append(h.entries, c)
}

// Undo pops the most recent dispatch. ok is false when the stack is empty.
func (h *History) Undo() (c *Customer, ok bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	c = h.entries[len(h.entries)-1]
	h.entries[len(h.entries)-1] = nil
	h.entries = h.entries[:len(h.entries)-1]
	return c, true
}

// Len returns the number of recorded dispatches.
func (h *History) Len() int {
	return len(h.entries)
}
