package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"

	"github.com/btang/toolchat/internal/entities"
	"github.com/btang/toolchat/internal/metrics"
	"github.com/btang/toolchat/internal/telemetry"
	"github.com/btang/toolchat/internal/windowing"
	"github.com/btang/toolchat/memory"
	"github.com/btang/toolchat/tools"
)

// StopClass is the driver's view of why a completion call ended.
type StopClass int

const (
	// TurnComplete: the model finished without requesting tools.
	TurnComplete StopClass = iota
	// NeedsMoreTools: tool results were appended; another call is needed.
	NeedsMoreTools
	// TokenLimitHit: the model was cut off by max_tokens.
	TokenLimitHit
)

// Config bounds a turn. Zero values are not defaulted here; the config
// package owns defaults.
type Config struct {
	SystemPrompt string

	// TokenBudget bounds the estimated input cost of each request window.
	TokenBudget int

	// MaxOutputTokens is the per-request max_tokens parameter.
	MaxOutputTokens int64

	// MaxIterations caps completion calls per user turn.
	MaxIterations int

	// RepeatCap is the number of identical tool calls (same name, same
	// serialized input) allowed per turn before further ones are refused.
	RepeatCap int

	// TurnTimeout bounds a turn's wall-clock time; 0 disables.
	TurnTimeout time.Duration

	// OutputTokenCeiling caps cumulative output tokens per turn; 0 disables.
	OutputTokenCeiling int64
}

type Runner struct {
	client  *anthropic.Client
	tools   []tools.ToolDefinition
	conv    *memory.Conversation
	store   *entities.Store
	counter windowing.TokenCounter
	cfg     Config
	out     io.Writer
}

func New(client *anthropic.Client, toolDefs []tools.ToolDefinition, conv *memory.Conversation, store *entities.Store, counter windowing.TokenCounter, cfg Config) *Runner {
	return &Runner{
		client:  client,
		tools:   toolDefs,
		conv:    conv,
		store:   store,
		counter: counter,
		cfg:     cfg,
		out:     os.Stdout,
	}
}

// SetOutput redirects the printed assistant text (default os.Stdout).
func (r *Runner) SetOutput(w io.Writer) { r.out = w }

// Conversation exposes the runner's message store (for persistence).
func (r *Runner) Conversation() *memory.Conversation { return r.conv }

// Entities exposes the runner's entity store.
func (r *Runner) Entities() *entities.Store { return r.store }

func (r *Runner) anthropicTools() []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: t.InputSchema,
		}})
	}
	return out
}

// RunTurn appends userInput and drives completion calls until the model
// finishes the turn or a safeguard trips (iteration cap, wall-clock
// timeout, output-token ceiling, max_tokens cutoff). Tool failures are
// folded into the conversation as error tool_results, never returned.
func (r *Runner) RunTurn(ctx context.Context, model anthropic.Model, userInput string) (StopClass, error) {
	turnID := uuid.NewString()
	ctx = telemetry.WithTurnID(ctx, turnID)
	if r.cfg.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.TurnTimeout)
		defer cancel()
	}

	r.conv.AppendUser(userInput)
	telemetry.Emit("turn_started", map[string]any{
		"turn_id": turnID,
		"model":   string(model),
		"user":    metrics.CountFeatures(userInput).Fields(),
	})

	// Identical tool calls seen this turn, keyed by name + canonical input.
	repeats := make(map[string]int)
	var outputTokens int64

	for iter := 1; iter <= r.cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return TokenLimitHit, fmt.Errorf("turn aborted after %d iterations: %w", iter-1, err)
		}
		if r.cfg.OutputTokenCeiling > 0 && outputTokens >= r.cfg.OutputTokenCeiling {
			return TokenLimitHit, fmt.Errorf("output token ceiling reached (%d)", outputTokens)
		}

		msg, err := r.step(ctx, model, turnID, iter)
		if err != nil {
			return TurnComplete, err
		}
		outputTokens += msg.Usage.OutputTokens

		p := msg.ToParam()
		if len(p.Content) > 0 {
			if err := r.conv.AppendAssistant(p.Content...); err != nil {
				return TurnComplete, err
			}
		}

		results := r.dispatchTools(ctx, msg, repeats)
		if len(results) > 0 {
			if err := r.conv.AppendToolResults(results...); err != nil {
				return TurnComplete, err
			}
		}

		switch classifyStop(string(msg.StopReason), len(results)) {
		case NeedsMoreTools:
			continue
		case TokenLimitHit:
			return TokenLimitHit, fmt.Errorf("model output cut off by max_tokens after %d iterations", iter)
		default:
			return TurnComplete, nil
		}
	}
	return NeedsMoreTools, fmt.Errorf("iteration budget exhausted (%d calls) with tools still pending", r.cfg.MaxIterations)
}

// step prepares a pair-safe budgeted window and makes one completion call.
func (r *Runner) step(ctx context.Context, model anthropic.Model, turnID string, iter int) (*anthropic.Message, error) {
	window, stats := windowing.PrepareSendWindow(r.conv.AllMessages(), r.cfg.TokenBudget, r.counter)

	telemetry.Emit("window_prepared", map[string]any{
		"turn_id":            turnID,
		"iteration":          iter,
		"model":              string(model),
		"budget":             stats.Budget,
		"total_estimated":    stats.Total,
		"included_groups":    stats.Included,
		"skipped_groups":     stats.Skipped,
		"over_budget_newest": stats.OverBudgetNewest,
	})

	// The newest group always has to fit: an empty window here means the
	// budget is too low for the turn just appended, which is a
	// misconfiguration rather than something to degrade around.
	if stats.OverBudgetNewest {
		return nil, fmt.Errorf("windowing: newest group exceeds token budget %d; raise the budget or tighten tool output caps", r.cfg.TokenBudget)
	}

	params := anthropic.MessageNewParams{
		Model:     model,
		MaxTokens: r.cfg.MaxOutputTokens,
		Messages:  window,
		Tools:     r.anthropicTools(),
	}
	if system := r.systemPrompt(); system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return r.client.Messages.New(ctx, params)
}

// systemPrompt appends the rendered entity context so the model can tell
// same-named entities apart across tool calls.
func (r *Runner) systemPrompt() string {
	system := r.cfg.SystemPrompt
	if ec := r.store.RenderContext(""); ec != "" {
		if system != "" {
			system += "\n\n"
		}
		system += "Known entities from earlier lookups:\n" + ec
	}
	return system
}

// dispatchTools prints text blocks and executes tool_use blocks, returning
// the tool_result blocks to append (in tool_use order).
func (r *Runner) dispatchTools(ctx context.Context, msg *anthropic.Message, repeats map[string]int) []anthropic.ContentBlockParamUnion {
	var results []anthropic.ContentBlockParamUnion
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			fmt.Fprintf(r.out, "\u001b[93mClaude\u001b[0m: %s\n", v.Text)
		case anthropic.ToolUseBlock:
			input := json.RawMessage(v.JSON.Input.Raw())
			key := v.Name + ":" + canonicalInput(input)
			repeats[key]++
			if repeats[key] > r.cfg.RepeatCap {
				telemetry.Emit("tool_repeat_refused", map[string]any{
					"turn_id":   turnIDOf(ctx),
					"tool_name": v.Name,
					"count":     repeats[key],
					"cap":       r.cfg.RepeatCap,
				})
				results = append(results, anthropic.NewToolResultBlock(v.ID,
					fmt.Sprintf("refusing repeated call to %s with identical input (%d attempts, cap %d)", v.Name, repeats[key], r.cfg.RepeatCap), true))
				continue
			}
			results = append(results, r.execTool(ctx, v.ID, v.Name, input))
		}
	}
	return results
}

func (r *Runner) execTool(ctx context.Context, id, name string, input json.RawMessage) anthropic.ContentBlockParamUnion {
	var def *tools.ToolDefinition
	for i := range r.tools {
		if r.tools[i].Name == name {
			def = &r.tools[i]
			break
		}
	}

	emit := func(durationMs int64, output string, errStr string) {
		fields := map[string]any{
			"turn_id":     turnIDOf(ctx),
			"tool_name":   name,
			"duration_ms": durationMs,
			"input_size":  len(input),
			"output":      metrics.CountFeatures(output).Fields(),
		}
		if errStr != "" {
			fields["error"] = errStr
		} else {
			fields["error"] = nil
		}
		telemetry.Emit("tool_exec", fields)
	}

	start := time.Now()
	if def == nil {
		emit(time.Since(start).Milliseconds(), "", "tool not found")
		return anthropic.NewToolResultBlock(id, "tool not found", true)
	}

	resp, err := def.Function(input)
	if err != nil {
		// Generic error string in telemetry to avoid leaking payloads; the
		// detailed message goes back to the model in the tool result.
		emit(time.Since(start).Milliseconds(), "", "tool error")
		return anthropic.NewToolResultBlock(id, err.Error(), true)
	}
	emit(time.Since(start).Milliseconds(), resp, "")
	return anthropic.NewToolResultBlock(id, resp, false)
}

// classifyStop folds the API stop reason and this iteration's dispatch
// outcome into the driver's three-way decision.
func classifyStop(stopReason string, resultCount int) StopClass {
	switch {
	case resultCount > 0:
		return NeedsMoreTools
	case stopReason == "max_tokens":
		return TokenLimitHit
	default:
		return TurnComplete
	}
}

// canonicalInput normalises raw tool input so equal inputs compare equal
// regardless of key order (encoding/json sorts map keys on marshal).
func canonicalInput(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return string(raw)
	}
	return string(b)
}

func turnIDOf(ctx context.Context) string {
	id, _ := telemetry.TurnIDFromContext(ctx)
	return id
}
