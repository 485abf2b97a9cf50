// Package tokens provides approximate token counts for prompt text using
// tiktoken encodings.
package tokens

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens with the cl100k_base encoding. Prompt templates are
// model-agnostic, so a single general-purpose encoding is close enough for
// the size hints the API reports.
type Counter struct {
	once  sync.Once
	codec tokenizer.Codec
	err   error
}

// NewCounter creates a counter. The underlying codec is built lazily on first
// use.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) load() {
	c.codec, c.err = tokenizer.Get(tokenizer.Cl100kBase)
}

// Count returns the token count for text. When the encoding is unavailable it
// falls back to a characters/4 estimate rather than failing.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	c.once.Do(c.load)
	if c.err != nil {
		return (len(text) + 3) / 4
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return (len(text) + 3) / 4
	}
	return len(ids)
}
