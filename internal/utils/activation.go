package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ecommerce-project/backend/internal/models"
	"github.com/google/uuid"
)

// Activation tokens are stateless: nothing is stored server-side. The token
// is an HMAC over the user's id, activation state and last-login marker,
// salted with a timestamp and a server secret. Flipping is_active (or a
// later login) changes the recomputed value, so every previously issued
// token dies the moment the account activates.
//
// Wire format: <base36 timestamp>-<base64url truncated hmac>

const activationHashLength = 20

// MakeActivationToken derives a one-time activation token for the user.
func MakeActivationToken(user *models.User, secret string) string {
	ts := time.Now().Unix()
	return fmt.Sprintf("%s-%s", strconv.FormatInt(ts, 36), activationHash(user, secret, ts))
}

// CheckActivationToken recomputes the token for the user's current state
// and compares in constant time. Any malformed input, state mismatch or
// expired timestamp yields false; the caller never learns which.
func CheckActivationToken(user *models.User, token, secret string, maxAge time.Duration) bool {
	if user == nil || token == "" {
		return false
	}

	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return false
	}

	ts, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil {
		return false
	}

	expected := activationHash(user, secret, ts)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(parts[1])) != 1 {
		return false
	}

	issued := time.Unix(ts, 0)
	if time.Since(issued) > maxAge {
		return false
	}

	return true
}

func activationHash(user *models.User, secret string, ts int64) string {
	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = strconv.FormatInt(user.LastLogin.Unix(), 10)
	}

	state := fmt.Sprintf("%s|%t|%s|%d", user.ID, user.IsActive, lastLogin, ts)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(state))
	sum := mac.Sum(nil)

	return base64.RawURLEncoding.EncodeToString(sum)[:activationHashLength]
}

// EncodeUID converts a user id into the url-safe form embedded in
// activation links.
func EncodeUID(id uuid.UUID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id.String()))
}

// DecodeUID reverses EncodeUID. Malformed input yields an error the
// activation handler collapses into its generic failure path.
func DecodeUID(encoded string) (uuid.UUID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(string(raw))
}
