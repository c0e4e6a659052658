package address

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ellipsis joins the head and tail of a truncated address
const ellipsis = "…"

// Rule renders a raw address for display. Rules return the input unchanged
// when it cannot be decoded.
type Rule func(address string) string

// Decorator renders addresses per currency using registered rules.
// It is safe for concurrent use.
type Decorator struct {
	rules    map[string]Rule
	mu       sync.RWMutex
	truncate int
}

// Option configures a Decorator
type Option func(*Decorator)

// WithTruncation shortens decorated addresses longer than 2*keep runes
// to head…tail with keep runes on each side.
func WithTruncation(keep int) Option {
	return func(d *Decorator) {
		if keep > 0 {
			d.truncate = keep
		}
	}
}

// NewDecorator creates a decorator with the built-in chain rules registered
func NewDecorator(opts ...Option) *Decorator {
	d := &Decorator{
		rules: map[string]Rule{
			"ETH":  evmRule,
			"BTC":  bitcoinRule,
			"LTC":  bitcoinRule,
			"BCH":  bitcoinCashRule,
			"TRX":  tronRule,
			"SOL":  solanaRule,
			"USDC": evmRule,
			"DAI":  evmRule,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds a rule for a currency code.
// Returns an error if a rule for this code is already registered.
func (d *Decorator) Register(currencyCode string, rule Rule) error {
	if rule == nil {
		return errors.New("rule cannot be nil")
	}
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	if code == "" {
		return errors.New("currency code cannot be empty")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.rules[code]; exists {
		return fmt.Errorf("rule for currency '%s' already registered", code)
	}
	d.rules[code] = rule
	return nil
}

// Decorate renders address for display in rows of the given currency.
// Currencies without a rule fall back to format detection, so ERC-20 and
// TRC-20 tokens still get their chain's rendering.
func (d *Decorator) Decorate(currencyCode, address string) string {
	address = strings.TrimSpace(address)
	if address == "" {
		return ""
	}

	d.mu.RLock()
	rule, ok := d.rules[strings.ToUpper(currencyCode)]
	d.mu.RUnlock()

	var out string
	switch {
	case ok:
		out = rule(address)
	case IsEVMAddress(address):
		out = evmRule(address)
	default:
		out = tronRule(address)
	}

	return d.shorten(out)
}

func (d *Decorator) shorten(address string) string {
	if d.truncate == 0 {
		return address
	}
	runes := []rune(address)
	if len(runes) <= 2*d.truncate {
		return address
	}
	return string(runes[:d.truncate]) + ellipsis + string(runes[len(runes)-d.truncate:])
}
