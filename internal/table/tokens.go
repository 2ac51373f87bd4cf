package table

import (
	"sync"

	"github.com/google/uuid"
)

// Token is the credential presented at the table call boundary. The builder
// issues an owner token per table; privacy checks compare the presented
// token against it. Anonymous is the zero value.
type Token string

// Anonymous is the token presented by callers with no ownership claim.
const Anonymous Token = ""

// TokenSource issues owner tokens.
// Implemented by UUIDv7Source (production) and StaticSource (tests).
type TokenSource interface {
	Next() Token
}

// UUIDv7Source issues time-sortable UUIDv7 tokens.
//
// Stateless and safe for concurrent use. Panics if UUID generation fails,
// which should never happen in practice.
type UUIDv7Source struct{}

// Next returns a new UUIDv7 token as a hyphenated string.
func (UUIDv7Source) Next() Token {
	return Token(uuid.Must(uuid.NewV7()).String())
}

// StaticSource returns predetermined tokens for deterministic tests.
//
// Panics when all tokens are consumed: a fail-fast guard against tests
// creating more tables than they declared.
type StaticSource struct {
	mu     sync.Mutex
	tokens []Token
	idx    int
}

// NewStaticSource creates a source that returns tokens in order.
func NewStaticSource(tokens ...Token) *StaticSource {
	return &StaticSource{tokens: tokens}
}

// Next returns the next predetermined token.
func (s *StaticSource) Next() Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.tokens) {
		panic("StaticSource: all tokens exhausted")
	}
	tok := s.tokens[s.idx]
	s.idx++
	return tok
}
