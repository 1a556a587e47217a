package llm_advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dkoval/chronos/internal/core"
	"github.com/dkoval/chronos/internal/llm"
	"github.com/dkoval/chronos/internal/strategy"
)

// Advisor asks an LLM for a trading decision over the recent bar window.
// It is slow and non-deterministic compared to the indicator strategies,
// so it is intended for small replays and live advisory runs.
type Advisor struct {
	provider        llm.Provider
	lookback        int
	maxPositionSize float64
	minConfidence   float64
	timeout         time.Duration
}

// decision is the JSON shape the model is instructed to return.
type decision struct {
	Action     string  `json:"action"` // "open_long", "open_short", "close", "hold"
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// New creates an LLM advisor strategy backed by the given provider.
func New(provider llm.Provider) *Advisor {
	return &Advisor{
		provider:        provider,
		lookback:        30,
		maxPositionSize: 1000,
		minConfidence:   0.6,
		timeout:         30 * time.Second,
	}
}

func (a *Advisor) Name() string {
	return "llm_advisor"
}

func (a *Advisor) Description() string {
	name := "unset"
	if a.provider != nil {
		name = a.provider.Name()
	}
	return fmt.Sprintf("LLM Advisor (%s, lookback %d)", name, a.lookback)
}

func (a *Advisor) RequiredData() strategy.DataRequirements {
	return strategy.DataRequirements{
		MinBars: a.lookback,
	}
}

func (a *Advisor) Init(cfg strategy.Config) error {
	a.lookback = strategy.IntParam(cfg.Params, "lookback", a.lookback)
	a.maxPositionSize = strategy.FloatParam(cfg.Params, "max_position_size", a.maxPositionSize)
	a.minConfidence = strategy.FloatParam(cfg.Params, "min_confidence", a.minConfidence)
	if secs := strategy.IntParam(cfg.Params, "timeout_seconds", 0); secs > 0 {
		a.timeout = time.Duration(secs) * time.Second
	}

	if a.provider == nil {
		return fmt.Errorf("llm provider required")
	}
	if a.lookback < 2 {
		return fmt.Errorf("lookback must be at least 2, got %d", a.lookback)
	}
	if a.minConfidence < 0 || a.minConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0, 1], got %f", a.minConfidence)
	}
	return nil
}

func (a *Advisor) Analyze(ctx strategy.AnalysisContext) ([]core.Signal, error) {
	if len(ctx.Bars) < a.lookback {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	resp, err := a.provider.Chat(callCtx, llm.ChatRequest{
		SystemPrompt: advisorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: a.buildPrompt(ctx)},
		},
		MaxTokens:   512,
		Temperature: 0.2,
		JSONMode:    true,
	})
	if err != nil {
		return nil, core.WrapError(core.ErrLLMFailed, err)
	}

	dec, err := parseDecision(resp.Content)
	if err != nil {
		return nil, core.WrapError(core.ErrLLMFailed, err)
	}

	if dec.Confidence < a.minConfidence {
		return nil, nil
	}

	price := ctx.Current().Close
	switch dec.Action {
	case "open_long":
		if _, ok := ctx.Holding(core.SideLong); ok {
			return nil, nil
		}
		return []core.Signal{a.signal(ctx, core.SignalOpenLong, price, dec)}, nil
	case "open_short":
		if _, ok := ctx.Holding(core.SideShort); ok {
			return nil, nil
		}
		return []core.Signal{a.signal(ctx, core.SignalOpenShort, price, dec)}, nil
	case "close":
		if len(ctx.Positions) == 0 {
			return nil, nil
		}
		return []core.Signal{a.signal(ctx, core.SignalClose, price, dec)}, nil
	default:
		return nil, nil
	}
}

func (a *Advisor) signal(ctx strategy.AnalysisContext, st core.SignalType, price float64, dec decision) core.Signal {
	return core.Signal{
		Symbol:      ctx.Symbol,
		Type:        st,
		Quantity:    a.maxPositionSize / price,
		Price:       price,
		Confidence:  dec.Confidence,
		Reason:      dec.Reasoning,
		GeneratedAt: ctx.Now,
	}
}

func (a *Advisor) buildPrompt(ctx strategy.AnalysisContext) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## Symbol: %s\n\n", ctx.Symbol))

	sb.WriteString("## Recent Bars (oldest first):\n")
	window := ctx.Bars[len(ctx.Bars)-a.lookback:]
	for _, b := range window {
		sb.WriteString(fmt.Sprintf("- %s O=%.4f H=%.4f L=%.4f C=%.4f V=%.2f\n",
			b.Time.Format("2006-01-02 15:04"), b.Open, b.High, b.Low, b.Close, b.Volume))
	}
	sb.WriteString("\n")

	if len(ctx.Positions) > 0 {
		sb.WriteString("## Open Positions:\n")
		for _, p := range ctx.Positions {
			sb.WriteString(fmt.Sprintf("- %s %.6f @ %.4f since %s\n",
				p.Side, p.Quantity, p.EntryPrice, p.EntryTime.Format("2006-01-02 15:04")))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("## Open Positions: none\n\n")
	}

	sb.WriteString("## Task:\n")
	sb.WriteString("Decide the next action for this symbol based only on the data above.\n")
	sb.WriteString(`Respond with JSON: {"action": "open_long"|"open_short"|"close"|"hold", "confidence": 0.0-1.0, "reasoning": "..."}` + "\n")

	return sb.String()
}

// parseDecision extracts the decision JSON, falling back to keyword
// scanning when the model wraps it in prose.
func parseDecision(content string) (decision, error) {
	var dec decision
	if err := json.Unmarshal([]byte(content), &dec); err == nil && dec.Action != "" {
		return dec, nil
	}

	// Some models emit prose around the JSON object
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			if err := json.Unmarshal([]byte(content[start:end+1]), &dec); err == nil && dec.Action != "" {
				return dec, nil
			}
		}
	}

	upper := strings.ToUpper(content)
	switch {
	case strings.Contains(upper, "OPEN_LONG"):
		return decision{Action: "open_long", Confidence: 0.5, Reasoning: content}, nil
	case strings.Contains(upper, "OPEN_SHORT"):
		return decision{Action: "open_short", Confidence: 0.5, Reasoning: content}, nil
	case strings.Contains(upper, "HOLD"):
		return decision{Action: "hold", Confidence: 0.5, Reasoning: content}, nil
	}

	return decision{}, fmt.Errorf("unparseable advisor response: %.120s", content)
}

const advisorSystemPrompt = `You are a trading advisor analyzing OHLCV candlestick data for a single symbol.

Rules:
1. Base your decision only on the provided bars and open positions.
2. Be conservative when the trend is unclear. "hold" is a valid answer.
3. Only recommend "close" when a position is open.

Always respond with valid JSON in this format:
{
  "action": "open_long" | "open_short" | "close" | "hold",
  "confidence": 0.0-1.0,
  "reasoning": "one or two sentences"
}`
