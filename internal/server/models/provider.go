package models

import (
	"fmt"
	"strings"
)

// ProviderSet is the set of credential kinds an account can log in with.
type ProviderSet uint8

const (
	ProviderPassword ProviderSet = 1 << iota
	ProviderExternal
)

const (
	labelLocal    = "local"
	labelExternal = "external"
)

func (p ProviderSet) Has(k ProviderSet) bool { return p&k == k && k != 0 }

func (p ProviderSet) Union(o ProviderSet) ProviderSet { return p | o }

// String renders the persisted label: local, external or local+external.
func (p ProviderSet) String() string {
	switch p {
	case ProviderPassword:
		return labelLocal
	case ProviderExternal:
		return labelExternal
	case ProviderPassword | ProviderExternal:
		return labelLocal + "+" + labelExternal
	default:
		return ""
	}
}

// ParseProviderSet reads a persisted label. "google" is accepted as an alias
// of external.
func ParseProviderSet(label string) (ProviderSet, error) {
	var set ProviderSet
	for _, part := range strings.Split(label, "+") {
		switch strings.TrimSpace(part) {
		case labelLocal:
			set |= ProviderPassword
		case labelExternal, "google":
			set |= ProviderExternal
		default:
			return 0, fmt.Errorf("unknown provider label %q", label)
		}
	}
	return set, nil
}
