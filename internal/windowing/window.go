// Package windowing derives bounded, recency-biased views over a
// conversation for sending to the completion API: by message count, by
// estimated token budget, and pair-safe (tool_use/tool_result kept whole).
package windowing

import (
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
)

// Stats summarizes a budgeted selection.
//
// Fields:
//   - Total: estimated cost of the included messages only.
//   - Budget: the budget applied.
//   - Included / Skipped: message counts (group counts for PrepareSendWindow).
//   - OverBudgetNewest: the newest unit alone exceeds Budget.
type Stats struct {
	Total            int
	Budget           int
	Included         int
	Skipped          int
	OverBudgetNewest bool
}

// RecentByCount returns the last n messages in original order: a contiguous
// suffix of msgs. Fewer than n messages returns all of them; n <= 0 returns
// an empty view. Never mutates msgs.
func RecentByCount(msgs []anthropic.MessageParam, n int) []anthropic.MessageParam {
	if n <= 0 || len(msgs) == 0 {
		return nil
	}
	if n >= len(msgs) {
		n = len(msgs)
	}
	return msgs[len(msgs)-n:]
}

// RecentByTokenBudget walks msgs newest to oldest, accumulating estimated
// cost per message, and stops before any message that would push the total
// over budget. The result is a contiguous suffix in chronological order and
// never exceeds budget by construction: when even the newest message alone
// is over budget the view is empty (no partial-message truncation).
func RecentByTokenBudget(msgs []anthropic.MessageParam, budget int, c TokenCounter) ([]anthropic.MessageParam, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}
	if budget <= 0 {
		return nil, Stats{Budget: budget, Skipped: len(msgs), OverBudgetNewest: true}
	}

	total := 0
	start := len(msgs)
	for i := len(msgs) - 1; i >= 0; i-- {
		cost := c.CountMessage(msgs[i])
		if total+cost > budget {
			if start == len(msgs) {
				vlogf("newest message over budget: budget=%d cost=%d", budget, cost)
				return nil, Stats{Budget: budget, Skipped: len(msgs), OverBudgetNewest: true}
			}
			break
		}
		total += cost
		start = i
	}

	return msgs[start:], Stats{
		Total:    total,
		Budget:   budget,
		Included: len(msgs) - start,
		Skipped:  start,
	}
}

// minimal verbose logging when TC_VERBOSE_WINDOW_LOGS=1
var verbose = os.Getenv("TC_VERBOSE_WINDOW_LOGS") == "1"

func vlogf(format string, args ...any) {
	if verbose {
		fmt.Printf("[windowing] "+format+"\n", args...)
	}
}
