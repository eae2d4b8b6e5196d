package reputation

import (
	"context"
	"fmt"

	"vigil/internal/models"

	stripe "github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/radar/valuelistitem"
)

// Scores assigned on a blocklist hit versus a clean lookup.
const (
	listedScore = 95
	cleanScore  = 5
)

// StripeRadarProvider answers reputation checks against Stripe Radar
// value lists: one list each for risky IPs, risky devices, AML-watch
// accounts and sanctioned counterparties.
type StripeRadarProvider struct {
	IPListID        string
	DeviceListID    string
	AMLListID       string
	SanctionsListID string
}

// NewStripeRadarProvider configures the global stripe client and returns
// a provider over the four value lists.
func NewStripeRadarProvider(apiKey, ipList, deviceList, amlList, sanctionsList string) *StripeRadarProvider {
	stripe.Key = apiKey
	return &StripeRadarProvider{
		IPListID:        ipList,
		DeviceListID:    deviceList,
		AMLListID:       amlList,
		SanctionsListID: sanctionsList,
	}
}

func (p *StripeRadarProvider) CheckIP(ctx context.Context, ip string) (Result, error) {
	return p.lookup(ctx, p.IPListID, ip, "ip")
}

func (p *StripeRadarProvider) CheckDevice(ctx context.Context, deviceID string) (Result, error) {
	return p.lookup(ctx, p.DeviceListID, deviceID, "device")
}

func (p *StripeRadarProvider) CheckAML(ctx context.Context, tx *models.Transaction) (Result, error) {
	return p.lookup(ctx, p.AMLListID, tx.AccountID, "aml")
}

func (p *StripeRadarProvider) CheckSanctions(ctx context.Context, tx *models.Transaction) (Result, error) {
	return p.lookup(ctx, p.SanctionsListID, tx.Merchant, "sanctions")
}

// lookup checks membership of value in the given Radar value list.
func (p *StripeRadarProvider) lookup(ctx context.Context, listID, value, kind string) (Result, error) {
	if listID == "" || value == "" {
		return Result{Score: 0, Detail: kind + " check skipped"}, nil
	}

	params := &stripe.RadarValueListItemListParams{
		ValueList: stripe.String(listID),
		Value:     stripe.String(value),
	}
	params.Context = ctx
	params.Filters.AddFilter("limit", "", "1")

	iter := valuelistitem.List(params)
	for iter.Next() {
		return Result{
			Score:  listedScore,
			Detail: fmt.Sprintf("%s %q found on blocklist", kind, value),
		}, nil
	}
	if err := iter.Err(); err != nil {
		return Result{}, fmt.Errorf("radar %s lookup failed: %w", kind, err)
	}

	return Result{Score: cleanScore, Detail: fmt.Sprintf("%s %q not listed", kind, value)}, nil
}
