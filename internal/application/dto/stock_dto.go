package dto

import "github.com/shopspring/decimal"

// StockReportQuery filtros del reporte de existencias.
type StockReportQuery struct {
	Date        string `query:"date"` // YYYY-MM-DD, vacío = hoy
	SKU         string `query:"sku"`
	Description string `query:"description"`
	OnlyStock   bool   `query:"onlyStock"`
	OnlyActive  bool   `query:"onlyActive"`
	Ordering    string `query:"ordering"` // ej. "sku", "-quantity"
	PageRequest
}

// StockItemResponse una fila del reporte de existencias.
type StockItemResponse struct {
	SKU                       string          `json:"codSku"`
	Description               string          `json:"descricaoItem"`
	UnitOfMeasure             string          `json:"unidMedida"`
	Active                    bool            `json:"active"`
	Quantity                  decimal.Decimal `json:"quantity"`
	EstimatedConsumptionTime  string          `json:"estimatedConsumptionTime"`
}

// ItemValuationResponse valuación puntual de un SKU a una fecha.
type ItemValuationResponse struct {
	SKU             string          `json:"sku"`
	Date            string          `json:"date"`
	Quantity        decimal.Decimal `json:"quantity"`
	WeightedAvgCost decimal.Decimal `json:"averageCost"`
	LastEntryCost   decimal.Decimal `json:"lastEntryCost"`
	StockValue      decimal.Decimal `json:"stockValue"`
}

// TransactionsQuery filtros del listado unificado de transacciones.
type TransactionsQuery struct {
	DateFrom    string `query:"dateFrom"`
	DateTo      string `query:"dateTo"`
	InvoiceCode string `query:"notaFiscal"`
	SKU         string `query:"sku"`
	Description string `query:"description"`
	ShowInUSD   bool   `query:"showInUsd"`
	PageRequest
}

// AvailabilityResponse resultado de la pre-validación de salida.
type AvailabilityResponse struct {
	Valid     bool            `json:"valid"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
}
