package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/domain/service"
)

// Key labels distinguish the tuple a key was derived from, so a hash of an
// email can never collide with a hash of a phone.
const (
	labelEmail    = "em"
	labelPhone    = "ph"
	labelEmailPh  = "ep"
	labelEmailDOB = "ed"
	labelPhoneDOB = "pd"
)

// Deriver computes HMAC-SHA256 identity keys from normalized contact fields.
// The HMAC secret keeps the index non-reversible even if the key table leaks.
type Deriver struct {
	secret []byte
}

// NewDeriver creates a Deriver with the given HMAC secret.
func NewDeriver(secret string) *Deriver {
	return &Deriver{secret: []byte(secret)}
}

var _ service.IdentityKeyDeriver = (*Deriver)(nil)

// Normalize canonicalizes the raw contact fields without hashing them.
func (d *Deriver) Normalize(email, phone, dob string) service.NormalizedContact {
	return service.NormalizedContact{
		Email: NormalizeEmail(email),
		Phone: NormalizePhone(phone),
		DOB:   NormalizeDOB(dob),
	}
}

// Derive normalizes the raw contact fields and returns every identity key the
// fields support. At least one of email or phone must survive normalization.
func (d *Deriver) Derive(email, phone, dob string) (service.IdentityKeySet, error) {
	email = NormalizeEmail(email)
	phone = NormalizePhone(phone)
	dob = NormalizeDOB(dob)

	if email == "" && phone == "" {
		return service.IdentityKeySet{}, domainerrors.ErrMissingIdentity
	}

	var set service.IdentityKeySet
	if email != "" {
		set.Email = d.hash(labelEmail, email)
	}
	if phone != "" {
		set.Phone = d.hash(labelPhone, phone)
	}
	if email != "" && phone != "" {
		set.EmailPh = d.hash(labelEmailPh, email, phone)
	}
	if email != "" && dob != "" {
		set.EmailDOB = d.hash(labelEmailDOB, email, dob)
	}
	if phone != "" && dob != "" {
		set.PhoneDOB = d.hash(labelPhoneDOB, phone, dob)
	}

	return set, nil
}

// hash computes label:hex(HMAC-SHA256(label|field|field...)). Fields are
// joined with a separator that normalization can never emit, so ("ab","c")
// and ("a","bc") produce distinct keys.
func (d *Deriver) hash(label string, fields ...string) string {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write([]byte(label))
	for _, f := range fields {
		mac.Write([]byte{'|'})
		mac.Write([]byte(f))
	}

	return label + ":" + hex.EncodeToString(mac.Sum(nil))
}
