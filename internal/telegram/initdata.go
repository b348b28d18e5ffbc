package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"meal-planner/internal/pkg/common"
)

// InitDataUser is the user object embedded in Mini App init data.
type InitDataUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// InitData is the verified content of a Mini App launch payload.
type InitData struct {
	User     InitDataUser
	AuthDate time.Time
	QueryID  string
}

// VerifyInitData validates a Telegram Mini App initData string against the
// bot token. The signing key is HMAC-SHA256("WebAppData", botToken); the
// data-check-string is every field except hash, sorted by key and joined
// with newlines. maxAge of zero disables the staleness check.
func VerifyInitData(raw, botToken string, maxAge time.Duration) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, common.NewValidationError("malformed init data")
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return nil, common.NewValidationError("init data missing hash")
	}
	values.Del("hash")

	pairs := make([]string, 0, len(values))
	for key := range values {
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(gotHash)) {
		return nil, common.NewAuthorizationError("init data signature mismatch")
	}

	authDateRaw, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, common.NewValidationError("init data missing auth_date")
	}
	authDate := time.Unix(authDateRaw, 0)
	if maxAge > 0 && time.Since(authDate) > maxAge {
		return nil, common.NewAuthorizationError("init data expired")
	}

	data := &InitData{
		AuthDate: authDate,
		QueryID:  values.Get("query_id"),
	}
	if userRaw := values.Get("user"); userRaw != "" {
		if err := json.Unmarshal([]byte(userRaw), &data.User); err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("init data user field: %v", err))
		}
	}
	if data.User.ID == 0 {
		return nil, common.NewValidationError("init data missing user")
	}
	return data, nil
}
