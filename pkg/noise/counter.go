package noise

// counter counts strings while remembering first-seen order, so that
// iteration over equally frequent values is reproducible.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

// Add increments the count of s. Empty strings are ignored.
func (c *counter) Add(s string) {
	if s == "" {
		return
	}
	if _, ok := c.counts[s]; !ok {
		c.order = append(c.order, s)
	}
	c.counts[s]++
}

// Count returns how often s was added.
func (c *counter) Count(s string) int {
	return c.counts[s]
}

// AtLeast returns the values seen at least n times, in first-seen order.
func (c *counter) AtLeast(n int) []string {
	var out []string
	for _, s := range c.order {
		if c.counts[s] >= n {
			out = append(out, s)
		}
	}
	return out
}

// textSet is a small lookup set built from a list of texts.
type textSet map[string]struct{}

func newTextSet(values ...[]string) textSet {
	s := make(textSet)
	for _, vs := range values {
		for _, v := range vs {
			s[v] = struct{}{}
		}
	}
	return s
}

func (s textSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}
