// Package ticket provides HMAC-signed short-lived tickets for WebSocket
// upgrades. Browsers cannot set an Authorization header on a ws dial, so
// clients fetch a ticket over the authenticated API and pass it in the
// query string. Tickets expire after a configurable TTL.
package ticket

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// Sign returns a relative ws URL with expiry and signature query
// parameters. The signature covers "{userUUID}:{expiresUnix}".
func Sign(userUUID, secret string, ttl time.Duration) string {
	expires := time.Now().Add(ttl).Unix()
	sig := computeHMAC(userUUID, expires, secret)
	return fmt.Sprintf("/ws?uuid=%s&expires=%d&sig=%s", userUUID, expires, sig)
}

// Verify checks that the signature is valid and the ticket has not expired.
func Verify(userUUID, expires, sig, secret string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	if time.Now().Unix() > exp {
		return false
	}
	expected := computeHMAC(userUUID, exp, secret)
	return hmac.Equal([]byte(sig), []byte(expected))
}

func computeHMAC(userUUID string, expires int64, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%s:%d", userUUID, expires)))
	return hex.EncodeToString(mac.Sum(nil))
}
