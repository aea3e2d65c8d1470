package transport

import "github.com/google/uuid"

type RenameVendorRequest struct {
	Name string `json:"name" validate:"required,notblank,max=200"`
}

type VendorResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}
