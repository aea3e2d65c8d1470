package transport

import "github.com/google/uuid"

type ComClientRequest struct {
	Code         string  `json:"code" validate:"required,notblank,max=100"`
	Name         string  `json:"name" validate:"required,notblank,max=300"`
	Departamento *string `json:"departamento,omitempty" validate:"omitempty,max=100"`
	Localidad    *string `json:"localidad,omitempty" validate:"omitempty,max=100"`
	Direccion    *string `json:"direccion,omitempty" validate:"omitempty,max=300"`
	Telefono     *string `json:"telefono,omitempty" validate:"omitempty,max=50"`
}

type ComClientResponse struct {
	ID           uuid.UUID `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Departamento *string   `json:"departamento"`
	Localidad    *string   `json:"localidad"`
	Direccion    *string   `json:"direccion"`
	Telefono     *string   `json:"telefono"`
	CreatedAt    string    `json:"createdAt"`
	UpdatedAt    string    `json:"updatedAt"`
}

type DeleteAllResponse struct {
	Deleted bool `json:"deleted"`
}
