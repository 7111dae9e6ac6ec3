// services/qrcode_service.go
package services

import (
	"os"

	"github.com/skip2/go-qrcode"
)

// GenerateRegistrationQRCode renders a QR code PNG pointing at the public
// registration page, for printed notices and flyers.
func GenerateRegistrationQRCode(size int) ([]byte, error) {
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}

	png, err := qrcode.Encode(applicationURL+"/register", qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
