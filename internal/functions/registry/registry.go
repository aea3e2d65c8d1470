// Package registry declares the fixed catalog of functions the chat agent can
// call, with their parameter schemas. The catalog is read-only after init.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownFunction is returned by Lookup for names outside the catalog.
var ErrUnknownFunction = errors.New("unknown function")

// Param is one declared argument. All arguments are strings on the wire.
type Param struct {
	Name        string
	Type        string
	Description string
	Required    bool
}

// Definition describes one callable function.
type Definition struct {
	Name        string
	Description string
	Params      []Param
	// Handoff marks functions after which a human takes over the conversation.
	Handoff bool
}

func str(name, description string) Param {
	return Param{Name: name, Type: "string", Description: description, Required: true}
}

var definitions = []Definition{
	{
		Name:        "getDateOfNow",
		Description: "Devuelve la fecha y hora actual en Montevideo",
	},
	{
		Name:        "notifyHuman",
		Description: "Notifica a un agente humano para que continúe la conversación con el usuario",
		Handoff:     true,
	},
	{
		Name:        "getDocument",
		Description: "Devuelve el contenido completo de un documento a partir de su identificador",
		Params:      []Param{str("docId", "Identificador del documento")},
	},
	{
		Name:        "getSection",
		Description: "Devuelve una sección de un documento a partir del identificador del documento y el número de sección",
		Params:      []Param{str("docId", "Identificador del documento"), str("secuence", "Número de sección")},
	},
	{
		Name:        "echoRegister",
		Description: "Registra en el sistema el texto indicado por el usuario para la conversación actual",
		Params:      []Param{str("conversationId", "Identificador de la conversación"), str("text", "Texto a registrar")},
	},
	{
		Name:        "completarFrase",
		Description: "Registra en el sistema la frase completada por el usuario para la conversación actual",
		Params:      []Param{str("conversationId", "Identificador de la conversación"), str("texto", "Frase completada")},
	},
	{
		Name:        "getProductByCode",
		Description: "Devuelve un producto a partir de su código",
		Params:      []Param{str("code", "Código del producto")},
	},
	{
		Name:        "getProductByRanking",
		Description: "Devuelve un producto a partir de su número de ranking",
		Params:      []Param{str("ranking", "Número de Ranking del producto")},
	},
	{
		Name:        "getProductsByName",
		Description: "Esta es una búsqueda semántica o vectorial. Devuelve un array de productos que tengan similaridad semántica con el nombre de la consulta",
		Params:      []Param{str("name", "Nombre o parte del nombre del producto")},
	},
	{
		Name:        "getProductsByCategoryName",
		Description: "Devuelve un array con los primeros productos de la categoría especificada ordenados por ranking.",
		Params:      []Param{str("categoryName", "Nombre de la categoría")},
	},
	{
		Name:        "getClientByCode",
		Description: "Devuelve el cliente a partir de su código",
		Params:      []Param{str("code", "Código del cliente")},
	},
	{
		Name:        "getClientsByName",
		Description: "Esta es una búsqueda semántica o vectorial. Devuelve un array de clientes que tengan similaridad semántica con el nombre de la consulta",
		Params:      []Param{str("name", "Nombre o parte del nombre del cliente")},
	},
	{
		Name:        "getClientsOfVendor",
		Description: "Devuelve un array de clientes asociados a un vendedor",
		Params:      []Param{str("vendorName", "Nombre del vendedor")},
	},
	{
		Name:        "getBuyersOfProductByCode",
		Description: "Devuelve los principales compradores de un producto a partir del código del producto",
		Params:      []Param{str("code", "Código del producto")},
	},
	{
		Name:        "getBuyersOfProductByRanking",
		Description: "Devuelve los principales compradores de un producto a partir del número de ranking del producto",
		Params:      []Param{str("ranking", "Número de Ranking del producto")},
	},
	{
		Name:        "getBuyersOfProductByCategory",
		Description: "Devuelve los principales compradores de un producto a partir de la categoría del producto. Estas son las principales categorías: 12v, 20v, 220v, Consumibles, Explosion, Manuales",
		Params:      []Param{str("categoryName", "Nombre de la categoría del producto")},
	},
	{
		Name:        "getClientsByDepartamento",
		Description: "Devuelve un array de clientes asociados de un determinado departamento. Ej: Montevideo, Canelones, Paysandú, etc. Importante: si el usuario escribe con tilde, debes modificar para que sea sin tilde. Ej: Paysandú cambia a Paysandu",
		Params:      []Param{str("departamento", "Nombre del departamento")},
	},
	{
		Name:        "getClientsByLocalidad",
		Description: "Devuelve un array de clientes de una determinada localidad. Las localidades son regiones de los departamentos. Algunas coinciden con los nombres de los departamentos y otras no. Ej: Montevideo, Canelones, Paysandú, Balneario Buenos Aires, Bello Horizonte,etc.",
		Params:      []Param{str("localidad", "Nombre de la localidad")},
	},
	{
		Name:        "getProductsRecomendationsForClient",
		Description: "Devuelve un array de productos recomendados para un cliente en función de su historial de compras",
		Params:      []Param{str("clientName", "Nombre del cliente")},
	},
	{
		Name:        "getTopBuyers",
		Description: "Devuelve un array de clientes ordenados por la cantidad de ventas totales.",
	},
	{
		Name:        "getTopBuyersByDepartamento",
		Description: "Devuelve un array de clientes de un determinado departamento ordenados por la cantidad de ventas.",
		Params:      []Param{str("departamento", "Nombre del departamento")},
	},
	{
		Name:        "getTopBuyersByDepartamentoAndVendor",
		Description: "Devuelve un array de clientes de un determinado departamento y vendedor ordenados por la cantidad de ventas.",
		Params:      []Param{str("departamento", "Nombre del departamento"), str("vendorName", "Nombre del vendedor")},
	},
}

var byName = func() map[string]int {
	index := make(map[string]int, len(definitions))
	for i, d := range definitions {
		if _, dup := index[d.Name]; dup {
			panic(fmt.Sprintf("registry: duplicate function %q", d.Name))
		}
		index[d.Name] = i
	}
	return index
}()

// Definitions returns a copy of the catalog in declaration order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	for i, d := range definitions {
		d.Params = append([]Param(nil), d.Params...)
		out[i] = d
	}
	return out
}

// Names returns every function name in declaration order.
func Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

// Lookup returns the definition registered under name.
func Lookup(name string) (Definition, error) {
	i, ok := byName[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	d := definitions[i]
	d.Params = append([]Param(nil), d.Params...)
	return d, nil
}

// RequiresHumanHandoff reports whether calling name ends the agent's turn in
// favour of a human.
func RequiresHumanHandoff(name string) bool {
	i, ok := byName[name]
	return ok && definitions[i].Handoff
}

// MarshalJSON renders the agent-facing wire shape
// {name, description, parameters: {type, properties, required}} with
// properties in declaration order. No parameters render as "parameters": {}.
func (d Definition) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"name":`)
	writeString(&buf, d.Name)
	buf.WriteString(`,"description":`)
	writeString(&buf, d.Description)
	buf.WriteString(`,"parameters":`)

	if len(d.Params) == 0 {
		buf.WriteString(`{}}`)
		return buf.Bytes(), nil
	}

	buf.WriteString(`{"type":"object","properties":{`)
	required := make([]string, 0, len(d.Params))
	for i, p := range d.Params {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, p.Name)
		buf.WriteString(`:{"type":`)
		writeString(&buf, p.Type)
		buf.WriteString(`,"description":`)
		writeString(&buf, p.Description)
		buf.WriteByte('}')
		if p.Required {
			required = append(required, p.Name)
		}
	}
	buf.WriteString(`},"required":`)
	req, err := json.Marshal(required)
	if err != nil {
		return nil, err
	}
	buf.Write(req)
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	buf.Truncate(buf.Len() - 1)
}
