package checkout

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

const (
	defaultOrderPrefix = "LUM"
	base36Digits       = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	orderSuffixLength  = 4
)

// OrderNumberFunc produces a display order number for an order placed at t.
type OrderNumberFunc func(t time.Time) string

// NewOrderNumberFunc returns a generator of <prefix>-<base36 unix ms>-<4 random
// base36 chars>, all upper case. Uniqueness is left to the orders table.
func NewOrderNumberFunc(prefix string) OrderNumberFunc {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = defaultOrderPrefix
	}
	return func(t time.Time) string {
		stamp := strings.ToUpper(strconv.FormatInt(t.UnixMilli(), 36))
		suffix := make([]byte, orderSuffixLength)
		for i := range suffix {
			suffix[i] = base36Digits[rand.IntN(len(base36Digits))]
		}
		return prefix + "-" + stamp + "-" + string(suffix)
	}
}
