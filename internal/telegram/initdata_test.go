package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "7212345678:AAFakeTokenForSignatureTests"

// signedInitData builds an initData query string carrying a valid hash
// for testBotToken.
func signedInitData(t *testing.T, fields map[string]string) string {
	t.Helper()

	pairs := make([]string, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))

	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func validFields(authDate time.Time) map[string]string {
	return map[string]string{
		"auth_date": fmt.Sprintf("%d", authDate.Unix()),
		"query_id":  "AAH9mUEbAAAAAP2ZQRtO3Wy1",
		"user":      `{"id":466920146,"first_name":"Alice","username":"alice_cooks","language_code":"ru"}`,
	}
}

func TestVerifyInitData_Valid(t *testing.T) {
	raw := signedInitData(t, validFields(time.Now()))

	data, err := VerifyInitData(raw, testBotToken, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(466920146), data.User.ID)
	assert.Equal(t, "Alice", data.User.FirstName)
	assert.Equal(t, "alice_cooks", data.User.Username)
	assert.Equal(t, "ru", data.User.LanguageCode)
	assert.Equal(t, "AAH9mUEbAAAAAP2ZQRtO3Wy1", data.QueryID)
}

func TestVerifyInitData_WrongToken(t *testing.T) {
	raw := signedInitData(t, validFields(time.Now()))

	_, err := VerifyInitData(raw, "another:token", time.Hour)
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}

func TestVerifyInitData_TamperedUser(t *testing.T) {
	raw := signedInitData(t, validFields(time.Now()))

	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	values.Set("user", `{"id":1,"first_name":"Mallory"}`)

	_, err = VerifyInitData(values.Encode(), testBotToken, time.Hour)
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}

func TestVerifyInitData_Stale(t *testing.T) {
	raw := signedInitData(t, validFields(time.Now().Add(-2*time.Hour)))

	_, err := VerifyInitData(raw, testBotToken, time.Hour)
	require.Error(t, err)
	assert.True(t, common.IsAuthorizationError(err))
}

func TestVerifyInitData_StalenessDisabled(t *testing.T) {
	raw := signedInitData(t, validFields(time.Now().Add(-48*time.Hour)))

	_, err := VerifyInitData(raw, testBotToken, 0)
	assert.NoError(t, err)
}

func TestVerifyInitData_MissingHash(t *testing.T) {
	values := url.Values{}
	for k, v := range validFields(time.Now()) {
		values.Set(k, v)
	}

	_, err := VerifyInitData(values.Encode(), testBotToken, time.Hour)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}

func TestVerifyInitData_MissingUser(t *testing.T) {
	fields := validFields(time.Now())
	delete(fields, "user")
	raw := signedInitData(t, fields)

	_, err := VerifyInitData(raw, testBotToken, time.Hour)
	require.Error(t, err)
	assert.True(t, common.IsValidationError(err))
}
