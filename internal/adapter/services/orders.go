package services

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/niksmo/galeria/internal/core/domain"
)

type orderItemWire struct {
	Artwork   ref              `json:"artwork"`
	ArtworkID ref              `json:"artworkId"`
	Title     string           `json:"title"`
	Quantity  *flexInt         `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type orderWire struct {
	ID        flexString       `json:"id"`
	MongoID   flexString       `json:"_id"`
	Buyer     *buyerWire       `json:"buyer"`
	Customer  *buyerWire       `json:"customer"`
	Items     []orderItemWire  `json:"items"`
	Total     *decimal.Decimal `json:"total"`
	Currency  string           `json:"currency"`
	Status    string           `json:"status"`
	PaymentID flexString       `json:"paymentId"`
	CreatedAt *flexTime        `json:"createdAt"`
}

type buyerWire struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (w orderWire) toDomain() (domain.Order, error) {
	o := domain.Order{
		ID:        firstNonEmpty(string(w.MongoID), string(w.ID)),
		Currency:  currencyOrDefault(w.Currency),
		Status:    w.Status,
		PaymentID: string(w.PaymentID),
	}
	if o.ID == "" {
		return o, fmt.Errorf("order: missing id")
	}
	if o.Status == "" {
		o.Status = "pending"
	}
	if b := firstPtr(w.Buyer, w.Customer); b != nil {
		o.Buyer = domain.Buyer{Name: b.Name, Email: b.Email, Phone: b.Phone}
	}
	if w.CreatedAt != nil {
		o.CreatedAt = w.CreatedAt.Time
	}

	var sum decimal.Decimal
	for i, iw := range w.Items {
		price := firstPtr(iw.Price, iw.UnitPrice)
		if price == nil {
			return o, fmt.Errorf("order %s: item %d: missing price", o.ID, i)
		}
		qty := iw.Quantity.orZero()
		if qty <= 0 {
			qty = 1
		}
		o.Items = append(o.Items, domain.OrderItem{
			ArtworkID: firstNonEmpty(string(iw.Artwork), string(iw.ArtworkID)),
			Title:     iw.Title,
			Quantity:  qty,
			Price:     *price,
		})
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	o.Total = sum
	if w.Total != nil {
		o.Total = *w.Total
	}
	return o, nil
}

// Orders is the admin client of the /orders resource.
type Orders struct {
	res resource[orderWire, domain.Order]
}

func NewOrders(api Requester) *Orders {
	return &Orders{
		res: resource[orderWire, domain.Order]{
			api:       api,
			path:      "/orders",
			protected: true,
			one:       []string{"order", "data"},
			many:      []string{"orders", "data"},
		},
	}
}

func (s *Orders) List(ctx context.Context, status string) ([]domain.Order, error) {
	const op = "Orders.List"
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	orders, err := s.res.list(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *Orders) Get(ctx context.Context, id string) (domain.Order, error) {
	const op = "Orders.Get"
	o, err := s.res.get(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// UpdateStatus moves an order to one of domain.OrderStatuses.
func (s *Orders) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	const op = "Orders.UpdateStatus"
	if !slices.Contains(domain.OrderStatuses, status) {
		return domain.Order{}, fmt.Errorf("%s: %w", op, &domain.ValidationError{
			Fields: []domain.FieldError{{Field: "status", Message: "unknown order status"}},
		})
	}
	o, err := s.res.patch(ctx, id, "status", map[string]string{"status": status})
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}
