package transport

import "github.com/google/uuid"

type UpsertSellRequest struct {
	ComClientCode string  `json:"comClientCode" validate:"required,notblank"`
	ComClientName string  `json:"comClientName" validate:"required,notblank"`
	Currency      string  `json:"currency" validate:"required,notblank,max=10"`
	VendorName    string  `json:"vendorName" validate:"required,notblank"`
	ExternalID    string  `json:"externalId" validate:"required,notblank"`
	Quantity      *int    `json:"quantity" validate:"required"`
	Departamento  *string `json:"departamento,omitempty"`
	Localidad     *string `json:"localidad,omitempty"`
	Direccion     *string `json:"direccion,omitempty"`
	Telefono      *string `json:"telefono,omitempty"`
}

type SellResponse struct {
	ID            uuid.UUID `json:"id"`
	ExternalID    string    `json:"externalId"`
	Quantity      int       `json:"quantity"`
	Currency      string    `json:"currency"`
	ComClientID   uuid.UUID `json:"comClientId"`
	ProductID     uuid.UUID `json:"productId"`
	VendorID      uuid.UUID `json:"vendorId"`
	ComClientCode string    `json:"comClientCode,omitempty"`
	ComClientName string    `json:"comClientName,omitempty"`
	ProductName   string    `json:"productName,omitempty"`
	CategoryName  string    `json:"categoryName,omitempty"`
	VendorName    string    `json:"vendorName,omitempty"`
	CreatedAt     string    `json:"createdAt"`
	UpdatedAt     string    `json:"updatedAt"`
}
