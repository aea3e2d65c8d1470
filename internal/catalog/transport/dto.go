package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UpsertProductRequest struct {
	ExternalID     string          `json:"externalId" validate:"required,notblank,max=100"`
	Code           string          `json:"code" validate:"required,notblank,max=100"`
	Name           string          `json:"name" validate:"required,notblank,max=300"`
	Stock          int             `json:"stock"`
	PedidoEnOrigen int             `json:"pedidoEnOrigen"`
	PrecioUSD      decimal.Decimal `json:"precioUSD"`
	CategoryName   string          `json:"categoryName" validate:"required,notblank,max=100"`
}

type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	ExternalID     string          `json:"externalId"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Stock          int             `json:"stock"`
	PedidoEnOrigen int             `json:"pedidoEnOrigen"`
	PrecioUSD      decimal.Decimal `json:"precioUSD"`
	CategoryID     uuid.UUID       `json:"categoryId"`
	CategoryName   string          `json:"categoryName"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}
