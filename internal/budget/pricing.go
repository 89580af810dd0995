package budget

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// Rates are USD list prices per million tokens.
type Rates struct {
	Input      decimal.Decimal
	Output     decimal.Decimal
	CacheWrite decimal.Decimal
	CacheRead  decimal.Decimal
}

// ModelPricing prices one model. When a call's prompt (fresh plus cached
// input) exceeds LongContextAbove tokens and Long is set, every token of
// that call is billed at the Long rates.
type ModelPricing struct {
	Rates
	Long             *Rates
	LongContextAbove int
}

var perMillion = decimal.NewFromInt(1_000_000)

// promptTokens is the context size that selects the pricing tier.
func (u Usage) promptTokens() int {
	return u.InputTokens + u.CacheReadInputTokens + u.CacheCreationInputTokens
}

// tier returns the rates that apply to a call with the given usage.
func (p ModelPricing) tier(u Usage) Rates {
	if p.Long != nil && p.LongContextAbove > 0 && u.promptTokens() > p.LongContextAbove {
		return *p.Long
	}
	return p.Rates
}

// Cost returns the USD cost of one API call.
func (p ModelPricing) Cost(u Usage) decimal.Decimal {
	r := p.tier(u)
	return tokens(u.InputTokens, r.Input).
		Add(tokens(u.OutputTokens, r.Output)).
		Add(tokens(u.CacheReadInputTokens, r.CacheRead)).
		Add(tokens(u.CacheCreationInputTokens, r.CacheWrite))
}

func tokens(n int, rate decimal.Decimal) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(n)).Mul(rate).Div(perMillion)
}

func usd(input, output, cacheWrite, cacheRead float64) Rates {
	return Rates{
		Input:      decimal.NewFromFloat(input),
		Output:     decimal.NewFromFloat(output),
		CacheWrite: decimal.NewFromFloat(cacheWrite),
		CacheRead:  decimal.NewFromFloat(cacheRead),
	}
}

// DefaultPricing covers the models the orchestrator, its workers and the
// summarizer use. Dated model IDs resolve to their alias entry.
var DefaultPricing = map[anthropic.Model]ModelPricing{
	anthropic.ModelClaudeOpus4_6: {
		Rates:            usd(5, 25, 6.25, 0.5),
		Long:             &Rates{Input: decimal.NewFromInt(10), Output: decimal.NewFromFloat(37.5), CacheWrite: decimal.NewFromFloat(12.5), CacheRead: decimal.NewFromInt(1)},
		LongContextAbove: 200_000,
	},
	anthropic.ModelClaudeOpus4_5: {Rates: usd(5, 25, 6.25, 0.5)},
	anthropic.ModelClaudeSonnet4_5: {
		Rates:            usd(3, 15, 3.75, 0.3),
		Long:             &Rates{Input: decimal.NewFromInt(6), Output: decimal.NewFromFloat(22.5), CacheWrite: decimal.NewFromFloat(7.5), CacheRead: decimal.NewFromFloat(0.6)},
		LongContextAbove: 200_000,
	},
	anthropic.ModelClaudeHaiku4_5: {Rates: usd(1, 5, 1.25, 0.1)},
}
