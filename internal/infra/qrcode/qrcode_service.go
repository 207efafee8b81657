package qrcode

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"

	"leadtrack/internal/domain/service"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	publicBaseURL        string
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel, publicBaseURL string) service.QRCodeService {
	// Set error correction level
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		publicBaseURL:        strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// GenerateLinkQR generates a QR code PNG pointing at the short-link redirect URL.
func (s *qrcodeService) GenerateLinkQR(code string) ([]byte, error) {
	url := fmt.Sprintf("%s/r/%s", s.publicBaseURL, code)

	qrCode, err := qrcode.New(url, s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
