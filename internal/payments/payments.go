package payments

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/ateliersoft/studio-scheduler/internal/httperr"
)

// DepositInput describes the checkout link for a booking deposit.
type DepositInput struct {
	Reference   string
	ServiceName string
	Amount      float64
	PayerEmail  string
}

type PaymentLink struct {
	PreferenceID string `json:"preference_id"`
	URL          string `json:"url"`
}

type Gateway struct {
	prefs preference.Client
}

// NewGateway returns nil when no access token is configured; callers
// treat a nil gateway as payments disabled.
func NewGateway(accessToken string) (*Gateway, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}
	return &Gateway{prefs: preference.NewClient(cfg)}, nil
}

// CreateDepositLink creates a Mercado Pago checkout preference for the
// deposit amount and returns the hosted payment URL.
func (g *Gateway) CreateDepositLink(
	ctx context.Context,
	in DepositInput,
) (*PaymentLink, error) {

	if in.Amount <= 0 {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	req := preference.Request{
		ExternalReference: in.Reference,
		Items: []preference.ItemRequest{
			{
				Title:     in.ServiceName,
				Quantity:  1,
				UnitPrice: in.Amount,
			},
		},
	}
	if in.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: in.PayerEmail}
	}

	resp, err := g.prefs.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	return &PaymentLink{
		PreferenceID: resp.ID,
		URL:          resp.InitPoint,
	}, nil
}
