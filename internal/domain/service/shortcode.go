package service

// ShortCodeSource produces random short-code candidates for the link
// allocator. Candidates are fixed-length, mixed-case alphanumeric and
// cryptographically unpredictable; uniqueness is enforced by the allocator's
// create-if-absent reservation, not by the source.
type ShortCodeSource interface {
	NewCode() (string, error)
}
