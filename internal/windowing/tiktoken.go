package windowing

import (
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/pkoukk/tiktoken-go"
)

// TiktokenCounter estimates message cost with a real BPE encoding
// (cl100k_base). The encoding is initialised lazily on first use; if
// initialisation fails (the encoding data may need a download), the counter
// degrades to the heuristic so windowing keeps working offline.
type TiktokenCounter struct {
	once     sync.Once
	enc      *tiktoken.Tiktoken
	initErr  error
	fallback HeuristicCounter
}

func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{}
}

func (t *TiktokenCounter) init() {
	t.enc, t.initErr = tiktoken.GetEncoding("cl100k_base")
}

func (t *TiktokenCounter) CountMessage(m anthropic.MessageParam) int {
	t.once.Do(t.init)
	if t.initErr != nil {
		vlogf("tiktoken unavailable (%v); using heuristic", t.initErr)
		return t.fallback.CountMessage(m)
	}
	return len(t.enc.Encode(serializeContent(m), nil, nil))
}
