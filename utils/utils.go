package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateCredentialID produces the externally shareable identifier printed
// on a certificate, e.g. CERT-2026-1A2B3C4D
func GenerateCredentialID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CERT-%d-%s", time.Now().Year(), suffix)
}
