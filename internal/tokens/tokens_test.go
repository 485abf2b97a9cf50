package tokens

import "testing"

func TestCount(t *testing.T) {
	c := NewCounter()

	if got := c.Count(""); got != 0 {
		t.Errorf("empty text counted %d tokens", got)
	}

	short := c.Count("Hello")
	long := c.Count("Extract the facts from this article and return the results as a markdown list.")
	if short <= 0 {
		t.Errorf("short text counted %d tokens", short)
	}
	if long <= short {
		t.Errorf("longer text should count more tokens: %d vs %d", long, short)
	}
}
