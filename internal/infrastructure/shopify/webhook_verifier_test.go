package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier(t *testing.T) {
	const secret = "shpss_test_secret"
	verifier := NewWebhookVerifier(secret)

	body := []byte(`{"id":123,"title":"Chaussures"}`)
	require.NoError(t, verifier.Verify(body, signBody(secret, body)))
}

func TestWebhookVerifier_RejectsTamperedBody(t *testing.T) {
	const secret = "shpss_test_secret"
	verifier := NewWebhookVerifier(secret)

	body := []byte(`{"id":123}`)
	signature := signBody(secret, body)

	assert.Error(t, verifier.Verify([]byte(`{"id":124}`), signature))
}

func TestWebhookVerifier_RejectsMissingHeader(t *testing.T) {
	verifier := NewWebhookVerifier("secret")
	assert.Error(t, verifier.Verify([]byte("{}"), ""))
}

func TestWebhookVerifier_RejectsWrongSecret(t *testing.T) {
	verifier := NewWebhookVerifier("right-secret")
	body := []byte(`{"id":123}`)
	assert.Error(t, verifier.Verify(body, signBody("wrong-secret", body)))
}
