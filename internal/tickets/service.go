package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"circustix/internal/reservations"
	"circustix/pkg/logger"
)

const orderIDPrefix = "GBC-"

// OrderReader is the slice of the reservation service tickets need
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*reservations.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status reservations.Status) (*reservations.Order, error)
}

type Service interface {
	// Rendering
	Payload(order *reservations.Order) (string, error)
	QRCode(order *reservations.Order) ([]byte, error)
	QRDataURL(order *reservations.Order) (string, error)
	PDF(order *reservations.Order) ([]byte, error)

	// Gate
	Lookup(ctx context.Context, orderID string) (*reservations.Order, error)
	Validate(ctx context.Context, code string) (*Validation, error)
	Redeem(ctx context.Context, code string) (*Validation, error)
}

type service struct {
	orders   OrderReader
	qr       *QRGenerator
	signer   *Signer
	renderer *PDFRenderer
	log      *logger.Logger
}

func NewService(orders OrderReader, qr *QRGenerator, signer *Signer, renderer *PDFRenderer, log *logger.Logger) Service {
	if qr == nil {
		qr = NewQRGenerator(defaultQRSize)
	}
	if signer == nil {
		signer = NewSigner("")
	}
	if renderer == nil {
		renderer = NewPDFRenderer("", "")
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &service{orders: orders, qr: qr, signer: signer, renderer: renderer, log: log}
}

func (s *service) Payload(order *reservations.Order) (string, error) {
	if order == nil {
		return "", fmt.Errorf("%w: nil order", ErrInvalidTicket)
	}
	return s.signer.Sign(order.ID, order.ShowContext)
}

func (s *service) QRCode(order *reservations.Order) ([]byte, error) {
	payload, err := s.Payload(order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalRendering, err)
	}
	return s.qr.Generate(payload)
}

func (s *service) QRDataURL(order *reservations.Order) (string, error) {
	payload, err := s.Payload(order)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExternalRendering, err)
	}
	return s.qr.DataURL(payload)
}

// PDF renders the printable ticket. A QR failure is logged and the ticket
// falls back to the printed order id.
func (s *service) PDF(order *reservations.Order) ([]byte, error) {
	if order == nil {
		return nil, fmt.Errorf("%w: nil order", ErrExternalRendering)
	}

	qr, err := s.QRCode(order)
	if err != nil {
		s.log.LogRenderingFailure(context.Background(), order.ID, "qr", err)
		qr = nil
	}
	return s.renderer.Render(order, qr)
}

func (s *service) Lookup(ctx context.Context, orderID string) (*reservations.Order, error) {
	return s.orders.GetOrder(ctx, orderID)
}

// Validate checks a scanned code without consuming it. Codes are either a
// signed payload or a bare order id.
func (s *service) Validate(ctx context.Context, code string) (*Validation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidTicket
	}

	claims, err := s.claims(code)
	if err != nil {
		return &Validation{Status: ValidationInvalid, Message: "This ticket code is not recognised. Access denied."}, nil
	}

	order, err := s.orders.GetOrder(ctx, claims.OrderID)
	if errors.Is(err, reservations.ErrOrderNotFound) {
		return &Validation{
			Status:  ValidationInvalid,
			Message: "This ticket was not found in our system. Access denied.",
			OrderID: claims.OrderID,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup ticket order: %w", err)
	}
	if claims.ShowContext != "" && claims.ShowContext != order.ShowContext {
		v := verdict(order, ValidationInvalid, "This ticket is for a different performance. Access denied.")
		return v, nil
	}

	switch order.Status {
	case reservations.StatusPaid:
		return verdict(order, ValidationValid, "Valid ticket. Enjoy the show!"), nil
	case reservations.StatusFulfilled:
		return verdict(order, ValidationUsed, "This ticket has already been scanned. Access denied."), nil
	case reservations.StatusCancelled:
		return verdict(order, ValidationInvalid, "This order was cancelled. Access denied."), nil
	default:
		return verdict(order, ValidationInvalid, "This order has not been paid. Access denied."), nil
	}
}

// Redeem admits a valid ticket once by moving its order to FULFILLED
func (s *service) Redeem(ctx context.Context, code string) (*Validation, error) {
	v, err := s.Validate(ctx, code)
	if err != nil || !v.Admitted() {
		return v, err
	}

	order, err := s.orders.UpdateOrderStatus(ctx, v.OrderID, reservations.StatusFulfilled)
	if errors.Is(err, reservations.ErrInvalidStatus) {
		// lost a race with another scanner
		return s.Validate(ctx, code)
	}
	if err != nil {
		return nil, fmt.Errorf("redeem ticket: %w", err)
	}

	s.log.InfoWithContext(ctx, "Ticket Redeemed", map[string]interface{}{
		"order_id":     order.ID,
		"show_context": order.ShowContext,
		"seat_count":   len(order.Seats),
	})
	return verdict(order, ValidationValid, "Access granted. Enjoy the show!"), nil
}

func (s *service) claims(code string) (*TicketClaims, error) {
	claims, err := s.signer.Verify(code)
	if err == nil {
		return claims, nil
	}
	// staff may key in the printed order number
	if strings.HasPrefix(code, orderIDPrefix) {
		return &TicketClaims{OrderID: code}, nil
	}
	return nil, err
}

func verdict(order *reservations.Order, status ValidationStatus, message string) *Validation {
	return &Validation{
		Status:       status,
		Message:      message,
		OrderID:      order.ID,
		ShowContext:  order.ShowContext,
		ShowTitle:    order.ShowTitle,
		CustomerName: order.Customer.Name,
		SeatCount:    len(order.Seats),
		OrderStatus:  order.Status,
	}
}
