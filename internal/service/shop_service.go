package service

import (
	"context"
	"errors"
	"time"

	"farm-shop/config"
	"farm-shop/internal/broker"
	"farm-shop/internal/cart"
	"farm-shop/internal/catalog"
	"farm-shop/internal/order"
	"farm-shop/internal/pricing"
	"farm-shop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnknownItem is returned for cart operations on item IDs not present in
// the catalog.
var ErrUnknownItem = errors.New("unknown catalog item")

// ShopService is the command surface of the storefront. Every front end
// (HTTP, CLI, tests) drives the same state machine through these methods.
type ShopService struct {
	catalog   *catalog.Index
	carts     *cart.Store
	engine    *pricing.Engine
	composer  *order.Composer
	publisher *broker.EventPublisher // nil when the feed is disabled
	sink      order.Sink             // nil when no local clipboard exists
	shop      config.ShopConfig
	logger    *zap.Logger
}

// NewShopService wires the storefront core.
func NewShopService(
	ix *catalog.Index,
	carts *cart.Store,
	publisher *broker.EventPublisher,
	sink order.Sink,
	shop config.ShopConfig,
) *ShopService {
	return &ShopService{
		catalog:   ix,
		carts:     carts,
		engine:    pricing.NewEngine(shop.DefaultRatePer5),
		composer:  order.NewComposer(shop.Brand),
		publisher: publisher,
		sink:      sink,
		shop:      shop,
		logger:    util.NamedLogger("shop"),
	}
}

// Categories returns the closed category set.
func (s *ShopService) Categories() []catalog.Category {
	return catalog.Categories
}

// Browse filters the catalog. Read-only, no side effects beyond metrics.
func (s *ShopService) Browse(f catalog.Filter) []catalog.Item {
	util.CatalogQueriesTotal.Inc()
	return s.catalog.Filter(f)
}

// Item looks up a single catalog item.
func (s *ShopService) Item(id string) (catalog.Item, bool) {
	return s.catalog.Get(id)
}

// Contact describes the external messaging channel orders are pasted into.
type Contact struct {
	Brand     string `json:"brand"`
	Tagline   string `json:"tagline"`
	LineOAID  string `json:"line_oa_id"`
	LineOAURL string `json:"line_oa_url"`
}

// Contact returns the shop's LINE OA contact. The caller opens the URL;
// the core never invokes it automatically.
func (s *ShopService) Contact() Contact {
	return Contact{
		Brand:     s.shop.Brand,
		Tagline:   s.shop.Tagline,
		LineOAID:  s.shop.LineOAID,
		LineOAURL: s.shop.LineOAURL,
	}
}

// SetQuantity sets an item's quantity through the cart store rules. Unknown
// items are rejected before the cart is touched; HTTP callers are untrusted.
func (s *ShopService) SetQuantity(ctx context.Context, session, itemID string, qty int) (cart.Cart, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.SetQuantity")
	defer span.End()

	if _, ok := s.catalog.Get(itemID); !ok {
		return nil, ErrUnknownItem
	}
	return s.carts.SetQuantity(ctx, session, itemID, qty), nil
}

// Increment adds one step. No-op when the item is out of stock.
func (s *ShopService) Increment(ctx context.Context, session, itemID string) (cart.Cart, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.Increment")
	defer span.End()

	it, ok := s.catalog.Get(itemID)
	if !ok {
		return nil, ErrUnknownItem
	}
	if !it.InStock {
		return s.carts.Load(ctx, session), nil
	}
	return s.carts.Increment(ctx, session, itemID), nil
}

// Decrement removes one step. No-op when the item is out of stock.
func (s *ShopService) Decrement(ctx context.Context, session, itemID string) (cart.Cart, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.Decrement")
	defer span.End()

	it, ok := s.catalog.Get(itemID)
	if !ok {
		return nil, ErrUnknownItem
	}
	if !it.InStock {
		return s.carts.Load(ctx, session), nil
	}
	return s.carts.Decrement(ctx, session, itemID), nil
}

// ClearCart empties the session's cart.
func (s *ShopService) ClearCart(ctx context.Context, session string) cart.Cart {
	return s.carts.Clear(ctx, session)
}

// SetFarmTag stores the tag and reports its recomputed validity. An invalid
// tag never blocks cart building; the flag only gates an advisory warning.
func (s *ShopService) SetFarmTag(ctx context.Context, session, tag string) bool {
	s.carts.SetFarmTag(ctx, session, tag)
	return order.ValidFarmTag(tag)
}

// FarmTag returns the stored tag and its validity.
func (s *ShopService) FarmTag(ctx context.Context, session string) (string, bool) {
	tag := s.carts.FarmTag(ctx, session)
	return tag, order.ValidFarmTag(tag)
}

// Summary is the full derived view of a session: cart, priced lines in
// catalog order, exact and display totals, tag state and the composed text.
type Summary struct {
	Cart         cart.Cart      `json:"cart"`
	Lines        []pricing.Line `json:"lines"`
	Total        float64        `json:"total"`
	TotalDisplay string         `json:"total_display"`
	Kinds        int            `json:"kinds"`
	FarmTag      string         `json:"farm_tag"`
	FarmTagValid bool           `json:"farm_tag_valid"`
	Text         string         `json:"text"`
}

// Summary recomputes the session's derived values from scratch. Nothing is
// cached between calls.
func (s *ShopService) Summary(ctx context.Context, session string) Summary {
	ctx, span := util.StartSpan(ctx, "ShopService.Summary")
	defer span.End()

	c := s.carts.Load(ctx, session)
	tag := s.carts.FarmTag(ctx, session)
	lines := s.engine.Lines(c, s.catalog)
	total := s.engine.Total(lines)

	return Summary{
		Cart:         c,
		Lines:        lines,
		Total:        total,
		TotalDisplay: pricing.FormatTHB(total),
		Kinds:        len(lines),
		FarmTag:      tag,
		FarmTagValid: order.ValidFarmTag(tag),
		Text:         s.composer.Compose(lines, total, tag),
	}
}

// DispatchOrder composes the order, publishes it to the seller feed
// (best-effort) and hands the text to the sink when one is bound. The
// returned summary always carries the composed text; a sink error is
// informational and never rolls back cart state.
func (s *ShopService) DispatchOrder(ctx context.Context, session string) (Summary, error) {
	ctx, span := util.StartSpan(ctx, "ShopService.DispatchOrder")
	defer span.End()

	sum := s.Summary(ctx, session)
	util.OrdersComposedTotal.Inc()

	if s.publisher != nil {
		event := &broker.OrderComposedEvent{
			BaseEvent: broker.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: broker.EventTypeOrderComposed,
				Timestamp: time.Now(),
			},
			Session: session,
			FarmTag: sum.FarmTag,
			Lines:   sum.Lines,
			Total:   sum.Total,
			Text:    sum.Text,
		}
		if err := s.publisher.PublishOrderComposed(ctx, event); err != nil {
			util.OrderDispatchFailuresTotal.WithLabelValues("publish").Inc()
			s.logger.Warn("Failed to publish OrderComposed event", zap.Error(err))
		}
	}

	if s.sink != nil {
		if err := s.sink.Write(sum.Text); err != nil {
			util.OrderDispatchFailuresTotal.WithLabelValues("sink").Inc()
			return sum, err
		}
	}

	util.OrdersDispatchedTotal.Inc()
	s.logger.Info("Order dispatched",
		zap.String("session", session),
		zap.Int("kinds", sum.Kinds),
		zap.Float64("total", sum.Total))
	return sum, nil
}
