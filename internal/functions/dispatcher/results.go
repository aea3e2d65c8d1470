package dispatcher

import (
	catrepo "comercial_backend/internal/catalog/repository"
	custrepo "comercial_backend/internal/customers/repository"
	knowrepo "comercial_backend/internal/knowledge/repository"
	"comercial_backend/internal/ranking"
	"comercial_backend/internal/similarity"
)

// Transcript projections. JSON keys are the ones the agent prompts refer to.

type productResult struct {
	NumeroRanking  string  `json:"numeroRanking"`
	Codigo         string  `json:"codigo"`
	Nombre         string  `json:"nombre"`
	Stock          int     `json:"stock"`
	PedidoEnOrigen int     `json:"pedidoEnOrigen"`
	PrecioUSD      float64 `json:"precioUSD"`
	Familia        string  `json:"familia"`
}

type similarProductResult struct {
	productResult
	VectorDistance float64 `json:"vectorDistance"`
}

type clientResult struct {
	Codigo       string  `json:"codigo"`
	Nombre       string  `json:"nombre"`
	Departamento *string `json:"departamento"`
	Localidad    *string `json:"localidad"`
	Direccion    *string `json:"direccion"`
	Telefono     *string `json:"telefono"`
}

// clientByCodeResult renders missing fields as empty strings.
type clientByCodeResult struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	Departamento string `json:"departamento"`
	Localidad    string `json:"localidad"`
	Direccion    string `json:"direccion"`
	Telefono     string `json:"telefono"`
}

type similarClientResult struct {
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Departamento   *string `json:"departamento"`
	Localidad      *string `json:"localidad"`
	Direccion      *string `json:"direccion"`
	Telefono       *string `json:"telefono"`
	VectorDistance float64 `json:"vectorDistance"`
}

type buyCountResult struct {
	CantCompras int          `json:"cantCompras"`
	Cliente     clientResult `json:"cliente"`
}

type sellsCountResult struct {
	CantVentas int          `json:"cantVentas"`
	Cliente    clientResult `json:"cliente"`
}

type documentResult struct {
	DocID       string  `json:"docId"`
	DocName     string  `json:"docName"`
	DocURL      *string `json:"docURL"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

type sectionResult struct {
	DocID    string  `json:"docId"`
	DocName  string  `json:"docName"`
	Secuence string  `json:"secuence"`
	Content  *string `json:"content"`
}

func toProductResult(p catrepo.Product) productResult {
	return productResult{
		NumeroRanking:  p.ExternalID,
		Codigo:         p.Code,
		Nombre:         p.Name,
		Stock:          p.Stock,
		PedidoEnOrigen: p.PedidoEnOrigen,
		PrecioUSD:      p.PrecioUSD.InexactFloat64(),
		Familia:        p.CategoryName,
	}
}

func toProductResults(products []catrepo.Product) []productResult {
	out := make([]productResult, len(products))
	for i, p := range products {
		out[i] = toProductResult(p)
	}
	return out
}

func toSimilarProductResults(candidates []similarity.Candidate[catrepo.Product]) []similarProductResult {
	out := make([]similarProductResult, len(candidates))
	for i, c := range candidates {
		out[i] = similarProductResult{productResult: toProductResult(c.Entity), VectorDistance: c.Distance}
	}
	return out
}

func toClientResult(c custrepo.ComClient) clientResult {
	return clientResult{
		Codigo:       c.Code,
		Nombre:       c.Name,
		Departamento: c.Departamento,
		Localidad:    c.Localidad,
		Direccion:    c.Direccion,
		Telefono:     c.Telefono,
	}
}

func toClientResults(clients []custrepo.ComClient) []clientResult {
	out := make([]clientResult, len(clients))
	for i, c := range clients {
		out[i] = toClientResult(c)
	}
	return out
}

func toClientByCodeResult(c custrepo.ComClient) clientByCodeResult {
	return clientByCodeResult{
		Code:         c.Code,
		Name:         c.Name,
		Departamento: orEmpty(c.Departamento),
		Localidad:    orEmpty(c.Localidad),
		Direccion:    orEmpty(c.Direccion),
		Telefono:     orEmpty(c.Telefono),
	}
}

func toSimilarClientResults(candidates []similarity.Candidate[custrepo.ComClient]) []similarClientResult {
	out := make([]similarClientResult, len(candidates))
	for i, c := range candidates {
		out[i] = similarClientResult{
			Code:           c.Entity.Code,
			Name:           c.Entity.Name,
			Departamento:   c.Entity.Departamento,
			Localidad:      c.Entity.Localidad,
			Direccion:      c.Entity.Direccion,
			Telefono:       c.Entity.Telefono,
			VectorDistance: c.Distance,
		}
	}
	return out
}

func rankedClient(c ranking.Client) clientResult {
	return clientResult{
		Codigo:       c.Code,
		Nombre:       c.Name,
		Departamento: c.Departamento,
		Localidad:    c.Localidad,
		Direccion:    c.Direccion,
		Telefono:     c.Telefono,
	}
}

func toBuyCountResults(ranked []ranking.Ranked) []buyCountResult {
	out := make([]buyCountResult, len(ranked))
	for i, r := range ranked {
		out[i] = buyCountResult{CantCompras: r.Value, Cliente: rankedClient(r.Client)}
	}
	return out
}

func toSellsCountResults(ranked []ranking.Ranked) []sellsCountResult {
	out := make([]sellsCountResult, len(ranked))
	for i, r := range ranked {
		out[i] = sellsCountResult{CantVentas: r.Value, Cliente: rankedClient(r.Client)}
	}
	return out
}

func toDocumentResult(d knowrepo.Document) documentResult {
	return documentResult{
		DocID:       d.ID.String(),
		DocName:     d.Name,
		DocURL:      d.URL,
		Description: d.Description,
		Content:     d.TextContent,
	}
}

func toSectionResult(s knowrepo.Section, secuence string) sectionResult {
	return sectionResult{
		DocID:    s.DocumentID.String(),
		DocName:  s.DocumentName,
		Secuence: secuence,
		Content:  s.Text,
	}
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
