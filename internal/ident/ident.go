// Package ident formats and parses the human-readable identifiers assigned to
// products, customers and orders: a fixed prefix followed by an 8-digit,
// zero-padded sequence number ("SKU-00000001", "CU-00000042", "OR-00001000").
package ident

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Width is the number of digits in the numeric part of an identifier.
const Width = 8

// Kind selects the prefix of a generated identifier.
type Kind string

const (
	Product  Kind = "product"
	Customer Kind = "customer"
	Order    Kind = "order"
)

// Kinds lists every identifier kind, in a stable order.
var Kinds = []Kind{Product, Customer, Order}

var ErrMalformed = errors.New("malformed identifier")

// Prefix returns the literal prefix for k, or "" for an unknown kind.
func (k Kind) Prefix() string {
	switch k {
	case Product:
		return "SKU-"
	case Customer:
		return "CU-"
	case Order:
		return "OR-"
	default:
		return ""
	}
}

// Format renders seq as an identifier of kind k. Sequences wider than Width
// digits are rendered in full rather than truncated.
func Format(k Kind, seq int64) string {
	return fmt.Sprintf("%s%0*d", k.Prefix(), Width, seq)
}

// FromCount returns the identifier that follows count existing entities of
// kind k; with no existing entities it is sequence 1.
func FromCount(k Kind, count int64) string {
	return Format(k, count+1)
}

// Parse checks that s is a well-formed identifier of kind k and returns its
// sequence number.
func Parse(k Kind, s string) (int64, error) {
	prefix := k.Prefix()
	if prefix == "" || !strings.HasPrefix(s, prefix) {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	digits := strings.TrimPrefix(s, prefix)
	if len(digits) < Width {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
	}
	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || seq < 1 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return seq, nil
}
