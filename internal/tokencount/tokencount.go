// Package tokencount reports an approximate LLM token count for a
// skill's SKILL.md content, so authors can gauge context-budget cost
// alongside raw byte size when inspecting a skill.
package tokencount

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// encoding is the tokenizer used for estimation: cl100k_base covers
// the common modern chat-model family closely enough for an estimate,
// without needing to know which agent will actually run the skill.
const encoding = "cl100k_base"

var (
	once sync.Once
	enc  *tiktoken.Tiktoken
	errc error
)

func encoder() (*tiktoken.Tiktoken, error) {
	once.Do(func() {
		enc, errc = tiktoken.GetEncoding(encoding)
	})
	return enc, errc
}

// Count returns the approximate number of tokens content would occupy
// in a typical chat-model context window. Returns 0 if the tokenizer
// could not be loaded (e.g. no bundled vocabulary data available);
// callers should treat 0 as "unknown", not "empty".
func Count(content string) int {
	e, err := encoder()
	if err != nil {
		return 0
	}
	return len(e.Encode(content, nil, nil))
}
