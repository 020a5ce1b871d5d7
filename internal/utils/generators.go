package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderID creates the externally visible order identifier, distinct
// from the storage primary key.
func GenerateOrderID() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("ord_%d_%06d", timestamp, randomNum.Int64())
}

// GenerateVoucherID creates a per-unit redemption code.
func GenerateVoucherID() string {
	return "vch_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func GenerateActivationCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Slugify derives a URL slug from a display name, e.g.
// "Summer Fest 2026" -> "summer-fest-2026".
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
