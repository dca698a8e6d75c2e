package bookings

import (
	"crypto/rand"
	"strconv"
	"time"
)

const (
	codePrefix    = "MP"
	codeAlphabet  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	codeSuffixLen = 9
)

// NewBookingCode builds the human-readable code stamped on every
// booking: a fixed prefix, the current wall-clock milliseconds, and a
// random base36 suffix. The timestamp plus 36^9 suffixes make a clash
// between concurrent requests astronomically unlikely; the unique index
// on the code column catches the rest, and the ledger regenerates on a
// collision instead of failing the booking.
func NewBookingCode() string {
	buf := make([]byte, codeSuffixLen)
	rand.Read(buf)
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return codePrefix + strconv.FormatInt(time.Now().UnixMilli(), 10) + string(buf)
}
