package windowing

import "github.com/anthropics/anthropic-sdk-go"

// PrepareSendWindow returns a suffix of msgs (oldest to newest) that fits
// within budget, including or excluding whole turn groups so a tool_use is
// never sent without its tool_result. Stats counts groups, not messages.
//
// Rules match RecentByTokenBudget, lifted to groups: scan newest to oldest,
// stop before the first group that would exceed budget; an over-budget
// newest group (or budget <= 0 with any groups present) yields an empty
// window with OverBudgetNewest set.
func PrepareSendWindow(msgs []anthropic.MessageParam, budget int, c TokenCounter) ([]anthropic.MessageParam, Stats) {
	if len(msgs) == 0 {
		return nil, Stats{Budget: budget}
	}

	groups := GroupTurns(msgs)
	if budget <= 0 {
		return nil, Stats{Budget: budget, Skipped: len(groups), OverBudgetNewest: true}
	}

	total := 0
	included := 0
	startGroup := len(groups)
	for gi := len(groups) - 1; gi >= 0; gi-- {
		cost := countSpan(c, msgs, groups[gi].Start, groups[gi].End)
		if included == 0 && cost > budget {
			vlogf("newest group over budget: budget=%d cost=%d", budget, cost)
			return nil, Stats{Budget: budget, Skipped: len(groups), OverBudgetNewest: true}
		}
		if total+cost > budget {
			break
		}
		total += cost
		included++
		startGroup = gi
	}

	return msgs[groups[startGroup].Start:], Stats{
		Total:    total,
		Budget:   budget,
		Included: included,
		Skipped:  len(groups) - included,
	}
}
