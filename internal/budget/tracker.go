// Package budget tracks token usage and USD cost of a reasoning run.
package budget

import (
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/shopspring/decimal"
)

// MaxDecimal is a sentinel value representing an effectively unlimited remaining budget.
var MaxDecimal = decimal.New(1, 18) // 1e18

// Usage holds token counts for a single API call.
type Usage struct {
	InputTokens              int
	OutputTokens             int
	CacheReadInputTokens     int
	CacheCreationInputTokens int
}

// Add returns the element-wise sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:              u.InputTokens + o.InputTokens,
		OutputTokens:             u.OutputTokens + o.OutputTokens,
		CacheReadInputTokens:     u.CacheReadInputTokens + o.CacheReadInputTokens,
		CacheCreationInputTokens: u.CacheCreationInputTokens + o.CacheCreationInputTokens,
	}
}

// Tracker accumulates usage and cost across the API calls of one run.
// It is safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	maxBudget  decimal.Decimal // 0 = unlimited
	totalCost  decimal.Decimal
	totalUsage Usage
	perModel   map[anthropic.Model]decimal.Decimal
	pricing    map[anthropic.Model]ModelPricing
}

// NewTracker creates a tracker. maxBudget of 0 means unlimited; a nil
// pricing table selects DefaultPricing.
func NewTracker(maxBudget decimal.Decimal, pricing map[anthropic.Model]ModelPricing) *Tracker {
	if pricing == nil {
		pricing = DefaultPricing
	}
	return &Tracker{
		maxBudget: maxBudget,
		totalCost: decimal.Zero,
		perModel:  make(map[anthropic.Model]decimal.Decimal),
		pricing:   pricing,
	}
}

// RecordUsage records token usage for a single API call and updates the cumulative cost.
func (t *Tracker) RecordUsage(model anthropic.Model, usage Usage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalUsage = t.totalUsage.Add(usage)

	pricing, ok := lookup(t.pricing, model)
	if !ok {
		return // tokens counted, no cost
	}

	cost := pricing.Cost(usage)

	t.totalCost = t.totalCost.Add(cost)
	t.perModel[model] = t.perModel[model].Add(cost)
}

// TotalCost returns the cumulative cost across all recorded usage.
func (t *Tracker) TotalCost() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalCost
}

// CostByModel returns the cumulative cost per model.
func (t *Tracker) CostByModel() map[anthropic.Model]decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[anthropic.Model]decimal.Decimal, len(t.perModel))
	for m, c := range t.perModel {
		out[m] = c
	}
	return out
}

// TotalUsage returns the cumulative token usage across all recorded calls.
func (t *Tracker) TotalUsage() Usage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalUsage
}

// Remaining returns the remaining budget. If maxBudget is 0 (unlimited), returns MaxDecimal.
func (t *Tracker) Remaining() decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxBudget.IsZero() {
		return MaxDecimal
	}
	return t.maxBudget.Sub(t.totalCost)
}

// Exhausted reports whether the total cost has reached maxBudget.
// Always false when maxBudget is 0.
func (t *Tracker) Exhausted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.maxBudget.IsZero() {
		return false
	}
	return t.totalCost.GreaterThanOrEqual(t.maxBudget)
}

// lookup finds pricing for model, falling back to the longest alias that
// prefixes a dated model ID ("claude-sonnet-4-5-20250929" → "claude-sonnet-4-5").
func lookup(table map[anthropic.Model]ModelPricing, model anthropic.Model) (ModelPricing, bool) {
	if p, ok := table[model]; ok {
		return p, true
	}
	var best anthropic.Model
	for alias := range table {
		if strings.HasPrefix(string(model), string(alias)+"-") && len(alias) > len(best) {
			best = alias
		}
	}
	if best == "" {
		return ModelPricing{}, false
	}
	return table[best], true
}
