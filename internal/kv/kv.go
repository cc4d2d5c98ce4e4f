// Package kv parses key=value tokens from the command line into request bodies.
package kv

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedPair is returned when a token has no '=' separator.
var ErrMalformedPair = errors.New("malformed key=value pair")

// Pair is a single key=value token.
type Pair struct {
	Key   string
	Value string
}

// Body is the JSON object sent as a POST payload.
type Body map[string]string

// Parse splits token on its first '='. The value keeps any further '=' characters
// and may be empty. An empty key is accepted.
func Parse(token string) (Pair, error) {
	key, value, ok := strings.Cut(token, "=")
	if !ok {
		return Pair{}, errors.Wrapf(ErrMalformedPair, "failed to parse %q", token)
	}
	return Pair{Key: key, Value: value}, nil
}

// ParseAll parses tokens in order and stops at the first malformed one.
func ParseAll(tokens []string) ([]Pair, error) {
	pairs := make([]Pair, 0, len(tokens))
	for _, token := range tokens {
		pair, err := Parse(token)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// Fold builds a Body from pairs. Later duplicates overwrite earlier ones.
func Fold(pairs []Pair) Body {
	body := make(Body, len(pairs))
	for _, pair := range pairs {
		body[pair.Key] = pair.Value
	}
	return body
}
