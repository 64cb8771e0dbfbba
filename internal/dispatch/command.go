package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/locate-templates/internal/errs"
	"github.com/deppfellow/locate-templates/internal/model"
	"github.com/deppfellow/locate-templates/internal/validation"
	"github.com/google/uuid"
)

// Command is the typed form of a request. It is one of SubmitTemplate,
// GetTemplates, SubmitPointTemplate or GetPointTemplates.
type Command interface {
	Operation() Operation
}

// SubmitTemplate inserts one line-locate template.
type SubmitTemplate struct {
	Template model.NewLineLocateTemplate
}

// GetTemplates reads every line-locate template.
type GetTemplates struct{}

// SubmitPointTemplate inserts one point-locate template.
type SubmitPointTemplate struct {
	Template model.NewPointLocateTemplate
}

// GetPointTemplates reads every point-locate template.
type GetPointTemplates struct{}

func (SubmitTemplate) Operation() Operation      { return OpSubmitTemplate }
func (GetTemplates) Operation() Operation        { return OpGetTemplates }
func (SubmitPointTemplate) Operation() Operation { return OpSubmitPointTemplates }
func (GetPointTemplates) Operation() Operation   { return OpGetPointTemplates }

// submitTemplatePayload is the accepted shape of a submit_template payload.
// Pointers distinguish an absent key from a zero value. Keys match their
// json tag exactly.
type submitTemplatePayload struct {
	Name            *string `json:"name" validate:"required"`
	Type            *string `json:"type" validate:"required"`
	LocateNarrative *string `json:"locate_narrative" validate:"required"`
	WorkPrints      *string `json:"work_prints" validate:"required"`
	MaxLength       *laxInt `json:"max_length" validate:"required"`
	ProjectGID      *string `json:"project_gid" validate:"required,project_gid"`

	NoteDistanceFromStartIntersection *laxBool `json:"note_distance_from_start_intersection"`
	NoteDistanceFromEndIntersection   *laxBool `json:"note_distance_from_end_intersection"`
	NoteAddressAtStart                *laxBool `json:"note_address_at_start"`
	NoteAddressAtEnd                  *laxBool `json:"note_address_at_end"`
	IncludeGPSAtStart                 *laxBool `json:"include_gps_at_start"`
	IncludeGPSAtEnd                   *laxBool `json:"include_gps_at_end"`
	IncludeGPSAtBearing               *laxBool `json:"include_gps_at_bearing"`
}

// submitPointTemplatePayload is the accepted shape of a submit_point_templates payload.
type submitPointTemplatePayload struct {
	TemplateName      *string `json:"template_name" validate:"required"`
	PointName         *string `json:"point_name" validate:"required"`
	PointType         *string `json:"point_type" validate:"required"`
	WorkPrint         *string `json:"work_print" validate:"required"`
	ProjectGID        *string `json:"project_gid" validate:"required,project_gid"`
	Radius            *laxInt `json:"radius"`
	LocationDirection *string `json:"location_direction"`
	PointNote         *string `json:"point_note"`
}

func parseSubmitTemplate(raw json.RawMessage) (Command, error) {
	var p submitTemplatePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if err := validatePayload(&p); err != nil {
		return nil, err
	}

	return SubmitTemplate{Template: model.NewLineLocateTemplate{
		Name:            *p.Name,
		Type:            *p.Type,
		LocateNarrative: *p.LocateNarrative,
		WorkPrints:      *p.WorkPrints,
		MaxLength:       int(*p.MaxLength),
		ProjectGID:      uuid.MustParse(*p.ProjectGID),

		NoteDistanceFromStartIntersection: flag(p.NoteDistanceFromStartIntersection),
		NoteDistanceFromEndIntersection:   flag(p.NoteDistanceFromEndIntersection),
		NoteAddressAtStart:                flag(p.NoteAddressAtStart),
		NoteAddressAtEnd:                  flag(p.NoteAddressAtEnd),
		IncludeGPSAtStart:                 flag(p.IncludeGPSAtStart),
		IncludeGPSAtEnd:                   flag(p.IncludeGPSAtEnd),
		IncludeGPSAtBearing:               flag(p.IncludeGPSAtBearing),
	}}, nil
}

func parseSubmitPointTemplate(raw json.RawMessage) (Command, error) {
	var p submitPointTemplatePayload
	if err := decodePayload(raw, &p); err != nil {
		return nil, err
	}
	if err := validatePayload(&p); err != nil {
		return nil, err
	}

	return SubmitPointTemplate{Template: model.NewPointLocateTemplate{
		TemplateName:      *p.TemplateName,
		PointName:         *p.PointName,
		PointType:         *p.PointType,
		WorkPrint:         *p.WorkPrint,
		Radius:            optionalInt(p.Radius),
		LocationDirection: p.LocationDirection,
		PointNote:         p.PointNote,
		ProjectGID:        uuid.MustParse(*p.ProjectGID),
	}}, nil
}

// decodePayload decodes raw into dst, a pointer to a payload struct. An
// absent or null payload decodes to the zero shape so that required-field
// validation reports every missing key.
//
// Keys are matched against the json tags exactly; any other spelling is
// treated as absent. Every field that fails to decode is reported.
func decodePayload(raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] != '{' {
		return errs.NewInvalidPayloadError("Payload must be a JSON object", nil)
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return errs.NewInvalidPayloadError("Invalid payload: "+err.Error(), nil)
	}

	var fieldErrors []errs.FieldError

	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		value, ok := values[key]
		if !ok {
			continue
		}

		if err := json.Unmarshal(value, v.Field(i).Addr().Interface()); err != nil {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: key,
				Error: fmt.Sprintf("must be of type %s", jsonTypeName(field.Type)),
			})
		}
	}

	if len(fieldErrors) > 0 {
		return errs.NewInvalidPayloadError("Invalid payload", fieldErrors)
	}
	return nil
}

func validatePayload(p any) error {
	if err := validation.Validator().Struct(p); err != nil {
		_, fieldErrors := validation.ExtractValidationError(err)
		return errs.NewInvalidPayloadError("Invalid payload", fieldErrors)
	}
	return nil
}

// jsonTypeName renders a payload field type as the JSON type a client should send.
func jsonTypeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeOf(laxInt(0)):
		return "integer"
	case reflect.TypeOf(laxBool(false)):
		return "boolean"
	}
	if t.Kind() == reflect.String {
		return "string"
	}
	return t.String()
}
