package saga

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"order-pipeline/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Fixed thresholds for the simulated providers. Production
// integrations substitute the interfaces, not these values.
const (
	maxUnitsPerItem = 10
	trackingPrefix  = "TRK"
)

var maxChargeAmount = decimal.NewFromInt(1000)

// SimulatedInventory approves every reservation but declares any item
// requesting more than maxUnitsPerItem units unavailable.
type SimulatedInventory struct {
	logger zerolog.Logger
}

// NewSimulatedInventory creates the simulated inventory provider.
func NewSimulatedInventory(logger zerolog.Logger) *SimulatedInventory {
	return &SimulatedInventory{logger: logger.With().Str("provider", "inventory").Logger()}
}

func (s *SimulatedInventory) Check(ctx context.Context, items []model.LineItem) error {
	for _, item := range items {
		if item.Quantity > maxUnitsPerItem {
			return fmt.Errorf("Product %s - requested %d, available %d",
				item.ProductID, item.Quantity, maxUnitsPerItem)
		}
	}
	return nil
}

func (s *SimulatedInventory) Reserve(ctx context.Context, items []model.LineItem) error {
	s.logger.Info().Int("item_count", len(items)).Msg("reserved inventory")
	return nil
}

func (s *SimulatedInventory) Release(ctx context.Context, items []model.LineItem) error {
	s.logger.Info().Int("item_count", len(items)).Msg("released inventory")
	return nil
}

// SimulatedPayments approves every charge up to maxChargeAmount and
// declines anything above it.
type SimulatedPayments struct {
	logger zerolog.Logger
}

// NewSimulatedPayments creates the simulated payment provider.
func NewSimulatedPayments(logger zerolog.Logger) *SimulatedPayments {
	return &SimulatedPayments{logger: logger.With().Str("provider", "payments").Logger()}
}

func (s *SimulatedPayments) Charge(ctx context.Context, order *model.Order) error {
	if order.TotalAmount.GreaterThan(maxChargeAmount) {
		return errors.New("Payment declined - amount exceeds limit")
	}
	s.logger.Info().Str("order_id", order.OrderID).Msg("payment processed")
	return nil
}

func (s *SimulatedPayments) Refund(ctx context.Context, order *model.Order) error {
	s.logger.Info().Str("order_id", order.OrderID).Msg("payment refunded")
	return nil
}

// SimulatedShipping allocates tracking numbers with a recognizable
// prefix.
type SimulatedShipping struct {
	logger zerolog.Logger
}

// NewSimulatedShipping creates the simulated shipment provider.
func NewSimulatedShipping(logger zerolog.Logger) *SimulatedShipping {
	return &SimulatedShipping{logger: logger.With().Str("provider", "shipping").Logger()}
}

func (s *SimulatedShipping) Create(ctx context.Context, order *model.Order) (string, error) {
	tracking := trackingPrefix + strings.ToUpper(uuid.NewString()[:8])
	s.logger.Info().
		Str("order_id", order.OrderID).
		Str("tracking_number", tracking).
		Msg("shipment created")
	return tracking, nil
}
