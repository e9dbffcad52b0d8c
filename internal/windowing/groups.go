package windowing

import "github.com/anthropics/anthropic-sdk-go"

// TurnGroup is an atomic span of messages [Start, End) that budget
// selection must include or exclude as a whole.
type TurnGroup struct {
	Start int // inclusive index into msgs
	End   int // exclusive index into msgs
}

// Pair reports whether the group is a validated tool_use/tool_result pair.
func (g TurnGroup) Pair() bool { return g.End-g.Start == 2 }

// GroupTurns partitions msgs into atomic units so that windowing never
// separates a tool_use from its result. A pair is exactly two adjacent
// messages: assistant carrying tool_use blocks, then a user message whose
// leading tool_result blocks cover exactly those tool_use ids (trailing
// text after the results is allowed). Anything that fails validation falls
// back to singleton groups.
func GroupTurns(msgs []anthropic.MessageParam) []TurnGroup {
	groups := make([]TurnGroup, 0, len(msgs))
	for i := 0; i < len(msgs); {
		if useIDs := toolUseIDs(msgs[i]); len(useIDs) > 0 && i+1 < len(msgs) {
			if reason := pairingFailure(msgs[i+1], useIDs); reason == "" {
				groups = append(groups, TurnGroup{Start: i, End: i + 2})
				i += 2
				continue
			} else {
				vlogf("singleton fallback: reason=%s idx=%d", reason, i)
			}
		}
		groups = append(groups, TurnGroup{Start: i, End: i + 1})
		i++
	}
	return groups
}

// toolUseIDs returns the tool_use ids of an assistant message, nil otherwise.
func toolUseIDs(m anthropic.MessageParam) map[string]struct{} {
	if m.Role != anthropic.MessageParamRoleAssistant {
		return nil
	}
	var ids map[string]struct{}
	for _, blk := range m.Content {
		if tu := blk.OfToolUse; tu != nil && tu.ID != "" {
			if ids == nil {
				ids = make(map[string]struct{})
			}
			ids[tu.ID] = struct{}{}
		}
	}
	return ids
}

// pairingFailure validates the message following an assistant tool_use turn.
// It returns "" when m is a user message whose leading tool_result segment
// covers exactly useIDs, otherwise a short reason code. Required ordering:
// all tool_result blocks first; a tool_result after any other block type is
// invalid.
func pairingFailure(m anthropic.MessageParam, useIDs map[string]struct{}) string {
	if m.Role != anthropic.MessageParamRoleUser {
		return "not_followed_by_user"
	}
	resultIDs := make(map[string]struct{})
	seenNonResult := false
	for _, blk := range m.Content {
		tr := blk.OfToolResult
		if tr == nil {
			seenNonResult = true
			continue
		}
		if seenNonResult {
			return "ordering_invalid"
		}
		if tr.ToolUseID != "" {
			resultIDs[tr.ToolUseID] = struct{}{}
		}
	}
	for id := range useIDs {
		if _, ok := resultIDs[id]; !ok {
			return "missing_results"
		}
	}
	for id := range resultIDs {
		if _, ok := useIDs[id]; !ok {
			return "extra_results"
		}
	}
	return ""
}
