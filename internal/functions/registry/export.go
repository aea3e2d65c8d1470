package registry

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"google.golang.org/genai"
)

// GenAIDeclarations exports the catalog as Gemini function declarations.
func GenAIDeclarations() []*genai.FunctionDeclaration {
	out := make([]*genai.FunctionDeclaration, 0, len(definitions))
	for _, d := range definitions {
		decl := &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
		}
		if len(d.Params) > 0 {
			schema := &genai.Schema{
				Type:       genai.TypeObject,
				Properties: make(map[string]*genai.Schema, len(d.Params)),
			}
			for _, p := range d.Params {
				schema.Properties[p.Name] = &genai.Schema{Type: genai.TypeString, Description: p.Description}
				schema.PropertyOrdering = append(schema.PropertyOrdering, p.Name)
				if p.Required {
					schema.Required = append(schema.Required, p.Name)
				}
			}
			decl.Parameters = schema
		}
		out = append(out, decl)
	}
	return out
}

// OpenAITools exports the catalog as OpenAI chat-completion tools.
func OpenAITools() []openai.Tool {
	out := make([]openai.Tool, 0, len(definitions))
	for _, d := range definitions {
		params := jsonschema.Definition{
			Type:       jsonschema.Object,
			Properties: make(map[string]jsonschema.Definition, len(d.Params)),
		}
		for _, p := range d.Params {
			params.Properties[p.Name] = jsonschema.Definition{Type: jsonschema.String, Description: p.Description}
			if p.Required {
				params.Required = append(params.Required, p.Name)
			}
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  params,
			},
		})
	}
	return out
}
