package windowing

import (
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// TokenCounter estimates input-token cost for a single message.
type TokenCounter interface {
	CountMessage(m anthropic.MessageParam) int
}

// HeuristicCounter is the default deterministic estimator: a message costs
// len(serialized content) / 4, rounded down. Text blocks contribute their
// raw text; structured blocks (tool_use, tool_result) are serialized to
// compact JSON so cost is independent of how the structure nests.
//
// This is a rough approximation, not a tokenizer; it is not expected to
// match any real tokenizer's output. See TiktokenCounter for a
// higher-fidelity alternative.
type HeuristicCounter struct{}

func (HeuristicCounter) CountMessage(m anthropic.MessageParam) int {
	return len(serializeContent(m)) / 4
}

// serializeContent renders a message's content to its canonical text form.
func serializeContent(m anthropic.MessageParam) string {
	var sb strings.Builder
	for _, blk := range m.Content {
		if tb := blk.OfText; tb != nil {
			sb.WriteString(tb.Text)
			continue
		}
		// encoding/json sorts map keys, so the output is deterministic for
		// equal content regardless of construction order.
		if b, err := json.Marshal(blk); err == nil {
			sb.Write(b)
		}
	}
	return sb.String()
}

// countSpan sums message costs over [start, end).
func countSpan(c TokenCounter, msgs []anthropic.MessageParam, start, end int) int {
	total := 0
	for i := start; i < end && i < len(msgs); i++ {
		total += c.CountMessage(msgs[i])
	}
	return total
}
