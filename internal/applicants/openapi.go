package applicants

import "github.com/JaimeStill/intake/pkg/openapi"

// Spec documents the applicant routes.
var Spec = struct {
	Upload *openapi.Operation
	GetCV  *openapi.Operation
}{
	Upload: &openapi.Operation{
		Summary:     "Upload a CV",
		Description: "Stores the CV file and records the applicant's metadata under a generated applicant ID.",
		RequestBody: openapi.RequestBodyMultipart("UploadForm", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("CV uploaded", "UploadResult"),
			400: openapi.ResponseRef("BadRequest"),
			422: openapi.ResponseRef("UnprocessableEntity"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
	GetCV: &openapi.Operation{
		Summary:     "Get CV URL",
		Description: "Returns the retrieval URL of the applicant's CV as a JSON string.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("applicant_id", "Applicant identifier")},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "CV URL",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "string", Format: "uri"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
			500: openapi.ResponseRef("InternalError"),
		},
	},
}

// Schemas returns the component schemas referenced by Spec.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"UploadForm": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"name":         {Type: "string"},
				"email":        {Type: "string"},
				"cover_letter": {Type: "string"},
				"cv_file":      {Type: "string", Format: "binary"},
			},
			Required: []string{"name", "email", "cover_letter", "cv_file"},
		},
		"UploadResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message":      {Type: "string", Example: UploadedMessage},
				"applicant_id": {Type: "string", Format: "uuid"},
				"cv_url":       {Type: "string", Format: "uri"},
			},
			Required: []string{"message", "applicant_id", "cv_url"},
		},
	}
}
