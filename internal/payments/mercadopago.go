package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"gorm.io/gorm"

	"github.com/navalhatech/agenda-api/internal/models"
)

// Client cria preferências de pagamento no Mercado Pago e registra o
// pagamento localmente. Falha de pagamento nunca bloqueia a operação que o
// originou: o chamador só loga.
type Client struct {
	db    *gorm.DB
	prefs preference.Client
}

func New(db *gorm.DB, accessToken string) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("mercadopago: access token ausente")
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: %w", err)
	}

	return &Client{
		db:    db,
		prefs: preference.NewClient(cfg),
	}, nil
}

// ChargeForAppointment cria a cobrança do serviço concluído e devolve o
// registro local de pagamento com o link de checkout.
func (c *Client) ChargeForAppointment(
	ctx context.Context,
	ap *models.Appointment,
	serviceName string,
) (*models.Payment, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     serviceName,
				Quantity:  1,
				UnitPrice: ap.Price,
			},
		},
		ExternalReference: fmt.Sprintf("appointment-%d", ap.ID),
	}

	resource, err := c.prefs.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}

	payment := models.Payment{
		BarbershopID:  ap.BarbershopID,
		AppointmentID: ap.ID,
		Amount:        ap.Price,
		Status:        "pending",
		Provider:      "mercadopago",
		PreferenceID:  resource.ID,
		CheckoutURL:   resource.InitPoint,
	}

	if err := c.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}

	return &payment, nil
}
