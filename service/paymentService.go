package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lokhacodes/UComp/bkash"
	"github.com/rs/zerolog/log"
)

// PaymentGateway is the slice of the bkash client the service uses.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req bkash.PaymentRequest) (*bkash.PaymentResponse, error)
	ExecutePayment(ctx context.Context, paymentID string) (*bkash.ExecuteResponse, error)
}

// PaymentService is an opaque façade over the gateway. No payment state is
// persisted locally; the gateway is the source of truth, and every failure
// collapses into ErrPaymentFailed.
type PaymentService struct {
	gateway PaymentGateway
	amount  string
}

func NewPaymentService(gateway PaymentGateway, amount string) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		amount:  amount,
	}
}

// Checkout opens a payment intent and returns the gateway's redirect URL.
// Each call carries a fresh client-generated order id, 10 characters from a
// UUID, well under the gateway's 20-character cap.
func (s *PaymentService) Checkout(ctx context.Context, name, email, phone, origin string) (string, error) {
	orderID := uuid.NewString()[:10]

	resp, err := s.gateway.CreatePayment(ctx, bkash.PaymentRequest{
		Amount:      s.amount,
		CallbackURL: origin + "/api/callback",
		OrderID:     orderID,
		Reference:   "1",
		Name:        name,
		Email:       email,
		Phone:       phone,
	})
	if err != nil {
		log.Error().Err(err).Str("orderId", orderID).Msg("payment creation failed")
		return "", fmt.Errorf("create payment: %w", ErrPaymentFailed)
	}
	if resp.StatusCode != bkash.StatusSuccess {
		log.Warn().Str("statusCode", resp.StatusCode).Str("orderId", orderID).Msg("payment creation rejected")
		return "", fmt.Errorf("create payment returned status %s: %w", resp.StatusCode, ErrPaymentFailed)
	}

	return resp.BkashURL, nil
}

// Complete executes a payment after the gateway redirects back. It is never
// retried: the callback, not this service, drives execution.
func (s *PaymentService) Complete(ctx context.Context, paymentID string) error {
	if paymentID == "" {
		return fmt.Errorf("missing payment id: %w", ErrPaymentFailed)
	}

	resp, err := s.gateway.ExecutePayment(ctx, paymentID)
	if err != nil {
		log.Error().Err(err).Str("paymentId", paymentID).Msg("payment execution failed")
		return fmt.Errorf("execute payment: %w", ErrPaymentFailed)
	}
	if resp.StatusCode != bkash.StatusSuccess {
		log.Warn().Str("statusCode", resp.StatusCode).Str("paymentId", paymentID).Msg("payment execution rejected")
		return fmt.Errorf("execute payment returned status %s: %w", resp.StatusCode, ErrPaymentFailed)
	}

	return nil
}
