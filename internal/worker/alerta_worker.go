package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertas: mails the configured
// address so someone reorders the insumo before the register runs dry.

import (
	"context"
	"encoding/json"
	"fmt"

	"drinkeo/internal/infra"

	"github.com/rs/zerolog/log"
)

type AlertaStockWorker struct {
	mailer  *infra.Mailer
	toEmail string
}

// NewAlertaStockWorker creates the worker. toEmail empty disables sending
// (jobs are logged and dropped).
func NewAlertaStockWorker(mailer *infra.Mailer, toEmail string) *AlertaStockWorker {
	return &AlertaStockWorker{mailer: mailer, toEmail: toEmail}
}

func (w *AlertaStockWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("alerta_stock: unmarshal payload: %w", err)
	}

	if w.toEmail == "" {
		log.Warn().
			Str("insumo", payload.Insumo).
			Str("stock", payload.Stock).
			Msg("alerta de stock sin destinatario configurado — solo log")
		return nil
	}

	subject := fmt.Sprintf("Alerta de stock: %s", payload.Insumo)
	body := fmt.Sprintf("El insumo %s quedó con stock %s, en o por debajo de su mínimo. Reponer a la brevedad.",
		payload.Insumo, payload.Stock)

	if err := w.mailer.SendAlertaStock(w.toEmail, subject, body); err != nil {
		return fmt.Errorf("alerta_stock: send mail: %w", err)
	}

	log.Info().Str("insumo", payload.Insumo).Str("to", w.toEmail).Msg("alerta de stock enviada")
	return nil
}
