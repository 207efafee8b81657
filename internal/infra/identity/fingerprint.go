package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"leadtrack/internal/domain/service"
)

// HMACFingerprinter hashes request metadata with a salted HMAC so click logs
// carry stable per-client fingerprints without storing raw IPs or user agents.
type HMACFingerprinter struct {
	salt []byte
}

// NewHMACFingerprinter creates a fingerprinter with the given salt.
func NewHMACFingerprinter(salt string) *HMACFingerprinter {
	return &HMACFingerprinter{salt: []byte(salt)}
}

var _ service.Fingerprinter = (*HMACFingerprinter)(nil)

// Fingerprint returns the hex HMAC-SHA256 of value, or "" for empty input.
func (f *HMACFingerprinter) Fingerprint(value string) string {
	if value == "" {
		return ""
	}

	mac := hmac.New(sha256.New, f.salt)
	mac.Write([]byte(value))

	return hex.EncodeToString(mac.Sum(nil))
}
