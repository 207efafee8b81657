package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "leadtrack/internal/domain/errors"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "national format", input: "0412 345 678", want: "+61412345678"},
		{name: "already e164", input: "+61412345678", want: "+61412345678"},
		{name: "e164 with spaces", input: "+61 412 345 678", want: "+61412345678"},
		{name: "country code without plus", input: "61412345678", want: "+61412345678"},
		{name: "punctuated national", input: "(04) 1234-5678", want: "+61412345678"},
		{name: "foreign e164", input: "+8613912345678", want: "+8613912345678"},
		{name: "unrecognized shape passes through", input: "12345", want: "12345"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   ", want: ""},
		{name: "no digits", input: "abc", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jo@example.com", NormalizeEmail("  Jo@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
	// Plus tags are kept: stripping them is provider-specific.
	assert.Equal(t, "jo+tag@example.com", NormalizeEmail("Jo+Tag@example.com"))
}

func TestDeriveEquivalentInputsMatch(t *testing.T) {
	t.Parallel()

	d := NewDeriver("test-secret")

	a, err := d.Derive("Jo@Example.com", "0412 345 678", "1990-01-02")
	require.NoError(t, err)
	b, err := d.Derive("  jo@example.com", "+61412345678", "1990-01-02")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a.Ordered(), 5)
}

func TestDerivePartialFields(t *testing.T) {
	t.Parallel()

	d := NewDeriver("test-secret")

	t.Run("email only", func(t *testing.T) {
		t.Parallel()

		set, err := d.Derive("jo@example.com", "", "")
		require.NoError(t, err)
		assert.NotEmpty(t, set.Email)
		assert.Empty(t, set.Phone)
		assert.Empty(t, set.EmailPh)
		assert.Empty(t, set.EmailDOB)
		assert.Empty(t, set.PhoneDOB)
		assert.Len(t, set.Ordered(), 1)
	})

	t.Run("phone and dob", func(t *testing.T) {
		t.Parallel()

		set, err := d.Derive("", "0412345678", "1990-01-02")
		require.NoError(t, err)
		assert.Empty(t, set.Email)
		assert.NotEmpty(t, set.Phone)
		assert.NotEmpty(t, set.PhoneDOB)
		assert.Empty(t, set.EmailPh)
		assert.Empty(t, set.EmailDOB)
		assert.Len(t, set.Ordered(), 2)
	})

	t.Run("email and phone without dob", func(t *testing.T) {
		t.Parallel()

		set, err := d.Derive("jo@example.com", "0412345678", "")
		require.NoError(t, err)
		assert.NotEmpty(t, set.EmailPh)
		assert.Empty(t, set.EmailDOB)
		assert.Empty(t, set.PhoneDOB)
		assert.Len(t, set.Ordered(), 3)
	})
}

func TestDeriveMissingIdentity(t *testing.T) {
	t.Parallel()

	d := NewDeriver("test-secret")

	_, err := d.Derive("", "", "1990-01-02")
	assert.ErrorIs(t, err, domainerrors.ErrMissingIdentity)

	// Whitespace and digit-free values normalize to empty.
	_, err = d.Derive("   ", "abc", "")
	assert.ErrorIs(t, err, domainerrors.ErrMissingIdentity)
}

func TestDeriveKeysAreLabeledAndDistinct(t *testing.T) {
	t.Parallel()

	d := NewDeriver("test-secret")

	set, err := d.Derive("jo@example.com", "0412345678", "1990-01-02")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(set.Email, "em:"))
	assert.True(t, strings.HasPrefix(set.Phone, "ph:"))
	assert.True(t, strings.HasPrefix(set.EmailPh, "ep:"))
	assert.True(t, strings.HasPrefix(set.EmailDOB, "ed:"))
	assert.True(t, strings.HasPrefix(set.PhoneDOB, "pd:"))

	seen := map[string]bool{}
	for _, k := range set.Ordered() {
		assert.False(t, seen[k], "duplicate key %s", k)
		seen[k] = true
	}
}

func TestDeriveSecretChangesKeys(t *testing.T) {
	t.Parallel()

	a, err := NewDeriver("secret-a").Derive("jo@example.com", "", "")
	require.NoError(t, err)
	b, err := NewDeriver("secret-b").Derive("jo@example.com", "", "")
	require.NoError(t, err)

	assert.NotEqual(t, a.Email, b.Email)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	f := NewHMACFingerprinter("salt")

	assert.Empty(t, f.Fingerprint(""))
	assert.Equal(t, f.Fingerprint("203.0.113.9"), f.Fingerprint("203.0.113.9"))
	assert.NotEqual(t, f.Fingerprint("203.0.113.9"), f.Fingerprint("203.0.113.10"))
	assert.NotEqual(t, f.Fingerprint("203.0.113.9"), NewHMACFingerprinter("other").Fingerprint("203.0.113.9"))
}
