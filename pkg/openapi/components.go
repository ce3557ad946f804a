package openapi

import "maps"

var errorSchema = &Schema{
	Type: "object",
	Properties: map[string]*Schema{
		"detail": {Type: "string", Description: "Error message"},
	},
	Required: []string{"detail"},
}

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// NewComponents creates Components with the shared error schema and the
// error responses every route can reference.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": errorSchema,
		},
		Responses: map[string]*Response{
			"BadRequest":          errorResponse("Invalid request"),
			"NotFound":            errorResponse("Resource not found"),
			"UnprocessableEntity": errorResponse("Missing or malformed form field"),
			"InternalError":       errorResponse("Dependent store or unexpected failure"),
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
