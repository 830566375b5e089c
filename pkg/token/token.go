// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package token

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/AccelByte/extend-mercado-lp/pkg/gameerr"
)

// QuoteTokenID is the simulation currency every pool is priced in.
const QuoteTokenID = "peso"

// DefaultDecimals is used for launched tokens that do not specify precision.
const DefaultDecimals = 2

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{1,5}$`)

// Token is an immutable catalog entry.
type Token struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	Decimals int    `json:"decimals"`
	Launched bool   `json:"launched,omitempty"`
}

// DefaultCatalog returns the tokens every new game starts with.
func DefaultCatalog() []Token {
	return []Token{
		{ID: QuoteTokenID, Symbol: "PESO", Name: "Peso", Emoji: "💵", Decimals: 2},
		{ID: "mango", Symbol: "MANGO", Name: "Mango", Emoji: "🥭", Decimals: 2},
		{ID: "cacao", Symbol: "CACAO", Name: "Cacao", Emoji: "🍫", Decimals: 2},
		{ID: "jaguar", Symbol: "JAGUAR", Name: "Jaguar", Emoji: "🐆", Decimals: 2},
		{ID: "quetzal", Symbol: "QTZL", Name: "Quetzal", Emoji: "🦜", Decimals: 2},
	}
}

// Registry is the token catalog. Safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

// NewRegistry creates a registry seeded with the given tokens.
func NewRegistry(tokens ...Token) *Registry {
	r := &Registry{tokens: make(map[string]Token, len(tokens))}
	for _, t := range tokens {
		r.tokens[t.ID] = t
	}
	return r
}

// Get returns a token by ID.
func (r *Registry) Get(id string) (Token, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[id]
	return t, ok
}

// MustExist returns ErrNotFound wrapped with the token ID when it is unknown.
func (r *Registry) MustExist(ids ...string) error {
	for _, id := range ids {
		if _, ok := r.Get(id); !ok {
			return fmt.Errorf("token %s: %w", id, gameerr.ErrNotFound)
		}
	}
	return nil
}

// List returns all tokens ordered by ID, quote token first.
func (r *Registry) List() []Token {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Token, 0, len(r.tokens))
	for _, t := range r.tokens {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == QuoteTokenID || out[j].ID == QuoteTokenID {
			return out[i].ID == QuoteTokenID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of tokens in the catalog.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}

// Launch validates and registers a player-created token.
func (r *Registry) Launch(symbol, name, emoji string) (Token, error) {
	t, err := r.Prepare(symbol, name, emoji)
	if err != nil {
		return Token{}, err
	}
	if err := r.Register(t); err != nil {
		return Token{}, err
	}
	return t, nil
}

// Prepare validates a player-created token without registering it.
func (r *Registry) Prepare(symbol, name, emoji string) (Token, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !symbolPattern.MatchString(symbol) {
		return Token{}, fmt.Errorf("token symbol %q must be 2-6 letters or digits: %w", symbol, gameerr.ErrInvalidAmount)
	}
	if strings.TrimSpace(name) == "" {
		name = symbol
	}
	if emoji == "" {
		emoji = "🪙"
	}

	t := Token{
		ID:       strings.ToLower(symbol),
		Symbol:   symbol,
		Name:     name,
		Emoji:    emoji,
		Decimals: DefaultDecimals,
		Launched: true,
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.checkUnique(t); err != nil {
		return Token{}, err
	}
	return t, nil
}

// Register adds a prepared token. IDs and symbols are unique, ignoring case.
func (r *Registry) Register(t Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(t); err != nil {
		return err
	}
	r.tokens[t.ID] = t
	return nil
}

// checkUnique fails when t's ID or symbol is taken. Callers hold mu.
func (r *Registry) checkUnique(t Token) error {
	if _, exists := r.tokens[t.ID]; exists {
		return fmt.Errorf("token %s already registered: %w", t.ID, gameerr.ErrInvalidAmount)
	}
	for _, other := range r.tokens {
		if strings.EqualFold(other.Symbol, t.Symbol) {
			return fmt.Errorf("symbol %s already used by %s: %w", t.Symbol, other.ID, gameerr.ErrInvalidAmount)
		}
	}
	return nil
}
