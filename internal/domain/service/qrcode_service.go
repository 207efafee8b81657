package service

// QRCodeService renders QR code images for trackable short links.
type QRCodeService interface {
	// GenerateLinkQR renders the short-link URL for the given code as a PNG.
	GenerateLinkQR(code string) ([]byte, error)
}
