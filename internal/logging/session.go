package logging

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"
)

var sessionCounter atomic.Uint64

// GenerateSessionID returns an identifier for one tap session, formatted
// as "<unix seconds hex>-<counter>-<random hex>".
func GenerateSessionID() string {
	ts := time.Now().Unix()
	n := sessionCounter.Add(1)

	var suffix [4]byte
	random := "00000000"
	if _, err := rand.Read(suffix[:]); err == nil {
		random = hex.EncodeToString(suffix[:])
	}
	return strconv.FormatInt(ts, 16) + "-" + strconv.FormatUint(n, 10) + "-" + random
}
