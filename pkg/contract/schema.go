package contract

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/registration"
)

const (
	// SchemaName is the component name of the registration payload.
	SchemaName = "Registration"
	// OperationID identifies the submission operation.
	OperationID = "createRegistration"
	// Path is the submission endpoint described by the document.
	Path = "/registrations"

	schemaRef = "#/components/schemas/" + SchemaName
)

// RegistrationSchema builds the JSON schema of a submitted FormData.
func RegistrationSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Description = "Registration form submission."

	schema.WithProperty(string(registration.FieldFullName), openapi3.NewStringSchema().
		WithMinLength(2).
		WithPattern(registration.FullNamePattern))
	schema.WithProperty(string(registration.FieldEmail), openapi3.NewStringSchema().
		WithPattern(registration.EmailPattern))

	phone := openapi3.NewStringSchema().
		WithMinLength(1).
		WithPattern(`^[0-9+` + registration.WhitespaceClass + `\-()]+$`)
	phone.Description = "Digits with an optional leading +; white space, hyphens and parentheses are ignored."
	schema.WithProperty(string(registration.FieldPhoneNumber), phone)

	// Two characters after trimming, which a single astral symbol satisfies.
	location := openapi3.NewStringSchema().WithMinLength(1)
	location.Description = "At least two UTF-16 code units once surrounding white space is removed."
	schema.WithProperty(string(registration.FieldLocation), location)

	date := openapi3.NewStringSchema().
		WithFormat("date").
		WithPattern(`^\d{4}-\d{2}-\d{2}$`)
	date.Description = "Joining date (YYYY-MM-DD), today or later."
	schema.WithProperty(string(registration.FieldDateOfJoining), date)

	slots := registration.TimeSlotValues()
	enum := make([]any, 0, len(slots))
	for _, value := range slots {
		enum = append(enum, value)
	}
	schema.WithProperty(string(registration.FieldTimeSlot), openapi3.NewStringSchema().WithEnum(enum...))

	for _, name := range registration.Fields() {
		schema.Required = append(schema.Required, string(name))
	}
	return schema
}

// Document assembles an OpenAPI 3 document describing the submission call.
func Document() *openapi3.T {
	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithDescription("Validated registration data.").
		WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef(schemaRef, RegistrationSchema())))

	ack := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema().WithFormat("uuid")).
		WithProperty("receivedAt", openapi3.NewDateTimeSchema())

	accepted := openapi3.NewResponse().
		WithDescription("Registration accepted.").
		WithJSONSchema(ack)

	op := openapi3.NewOperation()
	op.OperationID = OperationID
	op.Summary = "Submit a registration"
	op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(201, &openapi3.ResponseRef{Value: accepted}),
	)

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   "Registration submission",
			Version: "1.0.0",
		},
		Paths: openapi3.NewPaths(openapi3.WithPath(Path, &openapi3.PathItem{Post: op})),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				SchemaName: openapi3.NewSchemaRef("", RegistrationSchema()),
			},
		},
	}
}

// ValidatePayload checks a decoded JSON payload against RegistrationSchema.
func ValidatePayload(payload map[string]any) error {
	if err := RegistrationSchema().VisitJSON(payload); err != nil {
		return fmt.Errorf("contract: %w", err)
	}
	return nil
}

// ValidateData checks FormData against RegistrationSchema.
func ValidateData(data registration.FormData) error {
	values := data.Values()
	payload := make(map[string]any, len(values))
	for key, value := range values {
		payload[key] = value
	}
	return ValidatePayload(payload)
}

// Guard wraps next so only payloads satisfying the contract reach it.
func Guard(next controller.Submitter) controller.Submitter {
	return controller.SubmitterFunc(func(ctx context.Context, data registration.FormData) (controller.Ack, error) {
		if err := ValidateData(data); err != nil {
			return controller.Ack{}, err
		}
		return next.Submit(ctx, data)
	})
}
