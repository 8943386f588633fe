package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/infra"
	rabbit "storefront-service/internal/infra/rabbitmq"
	"storefront-service/internal/repository"
)

var (
	ErrSubmissionInFlight = errors.New("a submission is already in progress for this session")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrPaymentIntent      = errors.New("payment could not be initiated")
	ErrOrderPersist       = errors.New("could not save your order, please try again")
)

// FeeBlockedError surfaces a blocked quote as a user-facing,
// submission-blocking condition; changing the address recovers from it.
type FeeBlockedError struct {
	Reason domain.BlockedReason
}

func (e *FeeBlockedError) Error() string {
	if e.Reason == domain.BlockedOutsideArea {
		return "address is outside the delivery area"
	}
	return "delivery fee could not be calculated"
}

// ValidationError carries the field-scoped failures back to the client.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// SubmitResult is what the caller routes the customer with: the persisted
// order and, for redirect payment, the page to open.
type SubmitResult struct {
	Order       *domain.Order
	RedirectURL string
}

// CheckoutService materializes a validated draft + cart into an order.
type CheckoutService struct {
	orders    repository.OrderRepository
	profiles  repository.ProfileRepository
	cart      *CartService
	resolver  IdentityResolver
	fees      *FeeCalculator
	payment   infra.PaymentClientInterface
	publisher rabbit.PublisherInterface

	inFlight sync.Map
}

func NewCheckoutService(
	orders repository.OrderRepository,
	profiles repository.ProfileRepository,
	cart *CartService,
	resolver IdentityResolver,
	fees *FeeCalculator,
	payment infra.PaymentClientInterface,
	publisher rabbit.PublisherInterface,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		profiles:  profiles,
		cart:      cart,
		resolver:  resolver,
		fees:      fees,
		payment:   payment,
		publisher: publisher,
	}
}

// Submit runs the submission pipeline strictly in order: normalization,
// validation, fee quote, payment intent (redirect only), identity
// resolution, order insert, cart clear. sessionAccount is nil for
// guests. The cart is only cleared after the order is persisted; the
// event publish is fire-and-forget.
func (s *CheckoutService) Submit(
	ctx context.Context,
	sessionID string,
	sessionAccount *domain.Account,
	cfg domain.StoreConfig,
	draft domain.CheckoutDraft,
) (*SubmitResult, error) {
	if _, loaded := s.inFlight.LoadOrStore(sessionID, struct{}{}); loaded {
		return nil, ErrSubmissionInFlight
	}
	defer s.inFlight.Delete(sessionID)

	draft, err := NormalizeDraft(cfg, draft)
	if err != nil {
		return nil, err
	}
	if fields := ValidateDraft(draft); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// The fee is quoted against the normalized method, after any forcing
	// by store configuration. Pickup needs no quote at all.
	var fee float64
	if draft.DeliveryMethod == domain.MethodDelivery {
		quote := s.fees.ComputeFee(ctx, cfg, draft.DeliveryMethod, draft.Address)
		if quote.Blocked() {
			return nil, &FeeBlockedError{Reason: quote.BlockedReason}
		}
		if quote.Indeterminate() {
			return nil, &FeeBlockedError{Reason: domain.BlockedCalcError}
		}
		fee = quote.ResolvedFee()
	}

	cart := s.cart.Get(ctx, sessionID)
	if len(cart.Lines) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := cart.Subtotal()
	total := domain.RoundCents(subtotal + fee)

	var intent *infra.PaymentIntent
	if draft.PaymentMethod == domain.PaymentExternalRedirect {
		intent, err = s.payment.CreateIntent(ctx, total, cfg.Currency, map[string]string{
			"session": sessionID,
		})
		if err != nil {
			log.Printf("checkout: payment intent failed for session %s: %v", sessionID, err)
			return nil, ErrPaymentIntent
		}
	}

	ownerID, err := s.resolveOwner(ctx, sessionAccount, draft)
	if err != nil {
		return nil, err
	}

	order := buildOrder(ownerID, draft, cart, subtotal, fee, total, intent)
	if err := s.orders.Save(order); err != nil {
		return nil, ErrOrderPersist
	}

	s.cart.Clear(ctx, sessionID)

	go s.publishOrderCreated(context.Background(), order)

	result := &SubmitResult{Order: order}
	if intent != nil {
		result.RedirectURL = intent.RedirectURL
	}
	return result, nil
}

// resolveOwner guarantees the order has an owning account: an active
// session is reused (with a best-effort profile refresh), otherwise a
// guest identity is created.
func (s *CheckoutService) resolveOwner(ctx context.Context, sessionAccount *domain.Account, draft domain.CheckoutDraft) (string, error) {
	if sessionAccount != nil {
		profile := &domain.Profile{
			AccountID:    sessionAccount.ID,
			Name:         draft.Name,
			Email:        sessionAccount.Email,
			Phone:        draft.Phone,
			Street:       draft.Address.Street,
			Number:       draft.Address.Number,
			Complement:   draft.Address.Complement,
			Neighborhood: draft.Address.Neighborhood,
			City:         draft.Address.City,
			PostalCode:   draft.Address.PostalCode,
		}
		if err := s.profiles.Upsert(profile); err != nil {
			log.Printf("checkout: profile update failed for account %s: %v", sessionAccount.ID, err)
		}
		return sessionAccount.ID, nil
	}

	res, err := s.resolver.EnsureAccount(ctx, draft)
	if err != nil {
		return "", err
	}
	return res.Account.ID, nil
}

func buildOrder(ownerID string, draft domain.CheckoutDraft, cart *domain.Cart, subtotal, fee, total float64, intent *infra.PaymentIntent) *domain.Order {
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		var opts string
		if len(line.SelectedOptions) > 0 {
			if b, err := json.Marshal(line.SelectedOptions); err == nil {
				opts = string(b)
			}
		}
		items = append(items, domain.OrderItem{
			ProductID:       line.ProductID,
			Name:            line.Name,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			LineTotal:       line.LineTotal,
			SelectedOptions: opts,
		})
	}

	status := domain.StatusPending
	paymentRef := ""
	if intent != nil {
		status = domain.StatusAwaitingPayment
		paymentRef = intent.IntentID
	}

	return &domain.Order{
		OwnerAccountID: ownerID,
		Items:          items,
		CustomerName:   draft.Name,
		CustomerPhone:  draft.Phone,
		DeliveryMethod: draft.DeliveryMethod,
		PaymentMethod:  draft.PaymentMethod,
		Street:         draft.Address.Street,
		Number:         draft.Address.Number,
		Complement:     draft.Address.Complement,
		Neighborhood:   draft.Address.Neighborhood,
		City:           draft.Address.City,
		PostalCode:     draft.Address.PostalCode,
		Notes:          draft.Notes,
		Subtotal:       subtotal,
		DeliveryFee:    fee,
		Total:          total,
		Status:         status,
		PaymentRef:     paymentRef,
		CreatedAt:      time.Now(),
	}
}

func (s *CheckoutService) publishOrderCreated(ctx context.Context, order *domain.Order) {
	evt := domain.OrderCreatedEvent{
		OrderID:        order.ID,
		OwnerAccountID: order.OwnerAccountID,
		DeliveryMethod: order.DeliveryMethod,
		PaymentMethod:  order.PaymentMethod,
		Total:          order.Total,
		Status:         order.Status,
		CreatedAt:      order.CreatedAt,
	}

	if err := s.publisher.Publish(ctx, "order.created", evt); err != nil {
		log.Printf("checkout: failed to publish order.created for order %d: %v", order.ID, err)
	}
}
