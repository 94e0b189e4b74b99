// Package sepay implements the wire contract with the SePay bank-transfer
// gateway: webhook signature verification, the payment-reference format used
// to correlate bank transfers with orders, and payment QR generation.
package sepay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// WebhookPayload is the body SePay posts for every observed bank transaction.
// Amount is in currency units (not cents); Content is the free-text transfer
// memo typed by the buyer.
type WebhookPayload struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Content       string  `json:"content"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
}

// referencePattern matches the order reference inside a transfer memo.
// Banks mangle memos (case changes, surrounding text), so the match is
// case-insensitive and position-independent. ORDER_<id> and ORDER-<id>
// are both accepted.
var referencePattern = regexp.MustCompile(`(?i)ORDER[_-]([a-f0-9-]+)`)

// VerifySignature recomputes the hex HMAC-SHA256 of the raw body and compares
// it to the supplied signature in constant time. Must be called on the raw
// bytes before any JSON parsing.
func VerifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// Sign computes the hex HMAC-SHA256 signature for a payload body. SePay does
// this on their side; exported for tests and local tooling.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// PaymentReference builds the transfer memo for an order. The format is a de
// facto wire contract with the bank memo field and must remain stable.
func PaymentReference(orderID string) string {
	return "ORDER_" + orderID
}

// ExtractOrderID pulls the order id out of a transfer memo. Returns false if
// the memo carries no recognizable reference.
func ExtractOrderID(content string) (string, bool) {
	m := referencePattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsSuccessful reports whether a webhook status field indicates a completed
// payment.
func IsSuccessful(status string) bool {
	s := strings.ToLower(status)
	return s == "success" || s == "paid"
}

// QRImageURL builds the SePay-hosted QR image URL for a bank transfer with a
// pre-filled amount and memo.
func QRImageURL(bankAccount, bankCode string, amount float64, content string) string {
	q := url.Values{}
	q.Set("acc", bankAccount)
	q.Set("bank", bankCode)
	q.Set("amount", fmt.Sprintf("%.2f", amount))
	q.Set("des", content)
	return "https://qr.sepay.vn/img?" + q.Encode()
}
