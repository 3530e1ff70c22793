package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// RandomBase36 returns n random characters from [0-9a-z].
func RandomBase36(n int) string {
	var b strings.Builder
	b.Grow(n)
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			idx = big.NewInt(time.Now().UnixNano() % int64(len(base36)))
		}
		b.WriteByte(base36[idx.Int64()])
	}
	return b.String()
}

// BoardingToken builds the opaque string shown as a QR code to the driver:
// SHUTTLEGO-<unix millis>-<9 base36 chars>. Unique with high probability only.
func BoardingToken(now time.Time) string {
	return "SHUTTLEGO-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + RandomBase36(9)
}

// ManualPaymentReference is the reference the demo gateway fabricates.
func ManualPaymentReference(now time.Time) string {
	return "MANUAL-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + strings.ToUpper(RandomBase36(6))
}
