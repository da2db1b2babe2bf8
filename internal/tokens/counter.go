// Package tokens provides token counting for prompt budget enforcement.
package tokens

import (
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// Counter counts tokens using the cl100k_base encoding, which is close
// enough for budget purposes across the chat-completion models we target.
type Counter struct {
	mu    sync.Mutex
	codec tokenizer.Codec
}

// NewCounter creates a new counter. The codec is loaded lazily on first use.
func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) getCodec() (tokenizer.Codec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codec != nil {
		return c.codec, nil
	}
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer: %w", err)
	}
	c.codec = codec
	return codec, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) (int, error) {
	codec, err := c.getCodec()
	if err != nil {
		return 0, err
	}
	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("encode text: %w", err)
	}
	return len(ids), nil
}
