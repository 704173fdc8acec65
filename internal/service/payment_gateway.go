package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"clinic-backend/config"

	"github.com/razorpay/razorpay-go"
	"github.com/sirupsen/logrus"
)

var (
	// ErrGatewayNotConfigured marks the configuration-error class: the payment
	// surface is down until keys are supplied, which callers must report
	// distinctly from a transient gateway failure.
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
	ErrOrderCreateFailed    = errors.New("failed to create payment order")
)

// PaymentGateway wraps the hosted-checkout provider: server-side order
// creation and callback signature verification.
type PaymentGateway interface {
	Configured() bool
	// KeyID is the public key the client needs to open hosted checkout.
	KeyID() string
	// CreateOrder registers an order for amount (in paise) and returns the
	// gateway's order identifier.
	CreateOrder(amountPaise int64, currency string, receipt string, notes map[string]interface{}) (string, error)
	// VerifySignature checks the checkout callback: HMAC-SHA256 over
	// "orderID|paymentID" keyed with the secret must equal signature.
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayGateway struct {
	cfg    config.RazorpayConfig
	client *razorpay.Client
	log    *logrus.Logger
}

func NewRazorpayGateway(cfg config.RazorpayConfig, log *logrus.Logger) PaymentGateway {
	g := &razorpayGateway{cfg: cfg, log: log}
	if cfg.Configured() {
		g.client = razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	}
	return g
}

func (g *razorpayGateway) Configured() bool {
	return g.client != nil
}

func (g *razorpayGateway) KeyID() string {
	return g.cfg.KeyID
}

func (g *razorpayGateway) CreateOrder(amountPaise int64, currency string, receipt string, notes map[string]interface{}) (string, error) {
	if g.client == nil {
		return "", ErrGatewayNotConfigured
	}

	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		g.log.Warnf("Razorpay order creation failed: %+v", err)
		return "", fmt.Errorf("%w: %v", ErrOrderCreateFailed, err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		g.log.Warnf("Razorpay order response missing id: %+v", body)
		return "", ErrOrderCreateFailed
	}
	return orderID, nil
}

func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if g.cfg.KeySecret == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(g.cfg.KeySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
