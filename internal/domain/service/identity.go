// Package service defines the interfaces for infrastructure-backed domain
// services.
package service

// IdentityKeySet is the ordered set of independent lookup keys derived from
// one submission's contact fields. Fields are empty when the corresponding
// source fields were absent. The field order is the fixed lookup priority:
// a matching email is trusted over a matching phone+dob pair.
type IdentityKeySet struct {
	Email    string // em: hash(email)
	Phone    string // ph: hash(phone)
	EmailPh  string // ep: hash(email+phone)
	EmailDOB string // ed: hash(email+dob)
	PhoneDOB string // pd: hash(phone+dob)
}

// Ordered returns the non-empty keys in lookup priority order.
func (s IdentityKeySet) Ordered() []string {
	keys := make([]string, 0, 5)
	for _, k := range []string{s.Email, s.Phone, s.EmailPh, s.EmailDOB, s.PhoneDOB} {
		if k != "" {
			keys = append(keys, k)
		}
	}

	return keys
}

// NormalizedContact holds canonicalized contact fields. Empty fields did not
// survive normalization.
type NormalizedContact struct {
	Email string
	Phone string
	DOB   string
}

// IdentityKeyDeriver normalizes contact fields and produces the deterministic,
// irreversible key set used by the identity index. Implementations must return
// domainerrors.ErrMissingIdentity when neither email nor phone survives
// normalization.
type IdentityKeyDeriver interface {
	// Derive computes the key set from raw submitted contact fields.
	Derive(email, phone, dob string) (IdentityKeySet, error)

	// Normalize canonicalizes the raw contact fields without hashing them.
	Normalize(email, phone, dob string) NormalizedContact
}

// Fingerprinter produces one-way hashes of request metadata (IP, user agent)
// so click logs never store the raw values.
type Fingerprinter interface {
	Fingerprint(value string) string
}
