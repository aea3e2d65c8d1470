package registry

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestCatalogHasEveryAgentFunction(t *testing.T) {
	want := []string{
		"getDateOfNow", "notifyHuman", "getDocument", "getSection", "echoRegister", "completarFrase",
		"getProductByCode", "getProductByRanking", "getProductsByName", "getProductsByCategoryName",
		"getClientByCode", "getClientsByName", "getClientsOfVendor",
		"getBuyersOfProductByCode", "getBuyersOfProductByRanking", "getBuyersOfProductByCategory",
		"getClientsByDepartamento", "getClientsByLocalidad", "getProductsRecomendationsForClient",
		"getTopBuyers", "getTopBuyersByDepartamento", "getTopBuyersByDepartamentoAndVendor",
	}
	names := Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d functions, got %d", len(want), len(names))
	}
	for _, name := range want {
		if _, err := Lookup(name); err != nil {
			t.Fatalf("expected %s to be registered: %v", name, err)
		}
	}
}

func TestLookupUnknownFunction(t *testing.T) {
	_, err := Lookup("dropAllTables")
	if !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestOnlyNotifyHumanRequiresHandoff(t *testing.T) {
	for _, name := range Names() {
		got := RequiresHumanHandoff(name)
		if got != (name == "notifyHuman") {
			t.Fatalf("unexpected handoff flag %v for %s", got, name)
		}
	}
	if RequiresHumanHandoff("unknown") {
		t.Fatal("unknown functions never require handoff")
	}
}

func TestDefinitionsReturnsCopy(t *testing.T) {
	defs := Definitions()
	defs[0].Name = "mutated"
	for i := range defs {
		if len(defs[i].Params) > 0 {
			defs[i].Params[0].Name = "mutated"
			break
		}
	}
	if Names()[0] == "mutated" {
		t.Fatal("catalog must not be mutable through Definitions")
	}
	d, _ := Lookup("getDocument")
	if d.Params[0].Name != "docId" {
		t.Fatalf("catalog params were mutated: %+v", d.Params)
	}
}

func TestWireShapeKeepsParameterOrder(t *testing.T) {
	d, _ := Lookup("getTopBuyersByDepartamentoAndVendor")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got := string(raw)
	want := `{"name":"getTopBuyersByDepartamentoAndVendor","description":"Devuelve un array de clientes de un determinado departamento y vendedor ordenados por la cantidad de ventas.","parameters":{"type":"object","properties":{"departamento":{"type":"string","description":"Nombre del departamento"},"vendorName":{"type":"string","description":"Nombre del vendedor"}},"required":["departamento","vendorName"]}}`
	if got != want {
		t.Fatalf("unexpected wire shape:\n got %s\nwant %s", got, want)
	}
}

func TestWireShapeWithoutParameters(t *testing.T) {
	d, _ := Lookup("getTopBuyers")
	raw, _ := json.Marshal(d)
	if !strings.HasSuffix(string(raw), `"parameters":{}}`) {
		t.Fatalf("expected empty parameters object, got %s", raw)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("wire shape must be valid JSON: %v", err)
	}
}

func TestWireShapeIsValidJSONForWholeCatalog(t *testing.T) {
	raw, err := json.Marshal(Definitions())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != len(Names()) {
		t.Fatalf("expected %d entries, got %d", len(Names()), len(decoded))
	}
}

func TestGenAIDeclarations(t *testing.T) {
	decls := GenAIDeclarations()
	if len(decls) != len(Names()) {
		t.Fatalf("expected %d declarations, got %d", len(Names()), len(decls))
	}
	for _, decl := range decls {
		if decl.Name != "getSection" {
			continue
		}
		if decl.Parameters == nil || decl.Parameters.Type != genai.TypeObject {
			t.Fatalf("expected object schema, got %+v", decl.Parameters)
		}
		if len(decl.Parameters.Required) != 2 || decl.Parameters.PropertyOrdering[1] != "secuence" {
			t.Fatalf("unexpected schema %+v", decl.Parameters)
		}
		return
	}
	t.Fatal("getSection declaration missing")
}

func TestOpenAITools(t *testing.T) {
	tools := OpenAITools()
	if len(tools) != len(Names()) {
		t.Fatalf("expected %d tools, got %d", len(Names()), len(tools))
	}
	if tools[0].Function == nil || tools[0].Function.Name != "getDateOfNow" {
		t.Fatalf("expected tools in declaration order, got %+v", tools[0].Function)
	}
}
