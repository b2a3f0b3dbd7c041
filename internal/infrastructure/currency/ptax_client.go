// Package currency integra la API PTAX del Banco Central do Brasil para
// obtener la cotización BRL→USD usada en los listados con montos en dólares.
package currency

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kardex-api/internal/application/stock"
	"github.com/jhoicas/kardex-api/internal/domain"
)

var _ stock.RateProvider = (*PTAXClient)(nil)

// ptaxDateLayout formato de fecha que exige la API de Olinda (MM-dd-yyyy).
const ptaxDateLayout = "01-02-2006"

// PTAXClient cliente de la API PTAX con cache por fecha. Las cotizaciones
// históricas no cambian, así que el cache no expira.
type PTAXClient struct {
	http *resty.Client
	log  zerolog.Logger

	mu    sync.RWMutex
	cache map[string]decimal.Decimal
}

// NewPTAXClient construye el cliente apuntando al servicio Olinda del BCB.
func NewPTAXClient(baseURL string, timeout time.Duration, log zerolog.Logger) *PTAXClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &PTAXClient{
		http:  client,
		log:   log,
		cache: make(map[string]decimal.Decimal),
	}
}

// ptaxResponse respuesta del endpoint CotacaoDolarDia. En días sin cotización
// (fin de semana, feriado) value viene vacío.
type ptaxResponse struct {
	Value []struct {
		CotacaoCompra   float64 `json:"cotacaoCompra"`
		CotacaoVenda    float64 `json:"cotacaoVenda"`
		DataHoraCotacao string  `json:"dataHoraCotacao"`
	} `json:"value"`
}

// USDRate devuelve la cotación de venta PTAX (BRL por USD) de la fecha.
// Devuelve domain.ErrRateUnavailable si el BCB no publicó cotización para ese
// día o el servicio no responde.
func (c *PTAXClient) USDRate(date time.Time) (decimal.Decimal, error) {
	key := date.Format("2006-01-02")

	c.mu.RLock()
	if rate, ok := c.cache[key]; ok {
		c.mu.RUnlock()
		return rate, nil
	}
	c.mu.RUnlock()

	var body ptaxResponse
	resp, err := c.http.R().
		SetQueryParam("@dataCotacao", fmt.Sprintf("'%s'", date.Format(ptaxDateLayout))).
		SetQueryParam("$format", "json").
		SetResult(&body).
		Get("/CotacaoDolarDia(dataCotacao=@dataCotacao)")
	if err != nil {
		c.log.Warn().Err(err).Str("date", key).Msg("PTAX inaccesible")
		return decimal.Zero, domain.ErrRateUnavailable
	}
	if resp.IsError() {
		c.log.Warn().Int("status", resp.StatusCode()).Str("date", key).Msg("PTAX respondió error")
		return decimal.Zero, domain.ErrRateUnavailable
	}
	if len(body.Value) == 0 || body.Value[0].CotacaoVenda <= 0 {
		// Día sin cotización publicada.
		return decimal.Zero, domain.ErrRateUnavailable
	}

	rate := decimal.NewFromFloat(body.Value[0].CotacaoVenda)

	c.mu.Lock()
	c.cache[key] = rate
	c.mu.Unlock()

	return rate, nil
}
