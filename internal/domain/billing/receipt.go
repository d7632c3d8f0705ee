package billing

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// receiptPrefix prefixes every receipt number
const receiptPrefix = "RCP"

// NewReceiptNumber builds a date-prefixed receipt number of the form
// RCP-YYYYMMDD-NNNN with a random 4-digit suffix. Collisions within a day
// are statistically rare and tolerated, matching the manual-receipt-book
// numbering the house used before.
func NewReceiptNumber(now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", receiptPrefix, now.Format("20060102"), rand.IntN(10000))
}
