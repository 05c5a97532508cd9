package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// intentPrefix tags invoice payloads so unrelated provider payloads are
// rejected during confirmation.
const intentPrefix = "workflow_purchase"

var ErrBadPayload = errors.New("malformed purchase payload")

// PurchaseIntent correlates an invoice with the buyer and workflow it was
// issued for. It lives only inside the provider's opaque payload field for
// one invoice-to-confirmation round trip.
type PurchaseIntent struct {
	Slug    string
	BuyerID int64
}

// Payload serializes the intent into the provider's payload field.
// Slugs are constrained to [a-z0-9-] at validation time, so the delimiter
// cannot appear inside a field.
func (i PurchaseIntent) Payload() string {
	return fmt.Sprintf("%s:%s:%d", intentPrefix, i.Slug, i.BuyerID)
}

// ParseIntent parses a payload previously produced by Payload. Exactly three
// delimited fields are accepted.
func ParseIntent(payload string) (PurchaseIntent, error) {
	parts := strings.Split(payload, ":")
	if len(parts) != 3 || parts[0] != intentPrefix || parts[1] == "" {
		return PurchaseIntent{}, ErrBadPayload
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || id <= 0 {
		return PurchaseIntent{}, ErrBadPayload
	}
	return PurchaseIntent{Slug: parts[1], BuyerID: id}, nil
}
