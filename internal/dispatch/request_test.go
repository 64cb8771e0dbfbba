package dispatch_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/deppfellow/locate-templates/internal/dispatch"
	"github.com/deppfellow/locate-templates/internal/errs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectGID = "4f0c6e0a-1b7e-4e59-9a53-2d4a4f3c9b11"

func validTemplatePayload() map[string]any {
	return map[string]any{
		"name":             "Main St",
		"type":             "line",
		"locate_narrative": "Locate from A to B",
		"work_prints":      "WP-1",
		"max_length":       500,
		"project_gid":      projectGID,
	}
}

func validPointPayload() map[string]any {
	return map[string]any{
		"template_name": "Pole set",
		"point_name":    "P1",
		"point_type":    "pole",
		"work_print":    "WP-7",
		"project_gid":   projectGID,
	}
}

func raw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func requireHTTPError(t *testing.T, err error, code string) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	assert.Equal(t, code, httpErr.Code)
	return httpErr
}

func fieldNames(fieldErrors []errs.FieldError) []string {
	names := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		names = append(names, fe.Field)
	}
	return names
}

func TestParse_UnknownOperation(t *testing.T) {
	for _, name := range []string{"", "delete_template", "SUBMIT_TEMPLATE", "get_template"} {
		t.Run(name, func(t *testing.T) {
			cmd, err := dispatch.Parse(dispatch.Operation(name), raw(t, validTemplatePayload()))
			assert.Nil(t, cmd)
			httpErr := requireHTTPError(t, err, errs.CodeUnknownOperation)
			assert.Equal(t, 400, httpErr.Status)
			assert.True(t, errors.Is(err, errs.ErrUnknownOperation))
		})
	}
}

func TestParse_ReadOperationsIgnorePayload(t *testing.T) {
	cmd, err := dispatch.Parse(dispatch.OpGetTemplates, json.RawMessage(`{"anything": [1, 2]}`))
	require.NoError(t, err)
	assert.Equal(t, dispatch.GetTemplates{}, cmd)

	cmd, err = dispatch.Parse(dispatch.OpGetPointTemplates, json.RawMessage(`"not even an object"`))
	require.NoError(t, err)
	assert.Equal(t, dispatch.GetPointTemplates{}, cmd)
}

func TestParse_SubmitTemplateDefaultsFlags(t *testing.T) {
	cmd, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, validTemplatePayload()))
	require.NoError(t, err)

	submit, ok := cmd.(dispatch.SubmitTemplate)
	require.True(t, ok)

	tpl := submit.Template
	assert.Equal(t, "Main St", tpl.Name)
	assert.Equal(t, "line", tpl.Type)
	assert.Equal(t, "Locate from A to B", tpl.LocateNarrative)
	assert.Equal(t, "WP-1", tpl.WorkPrints)
	assert.Equal(t, 500, tpl.MaxLength)
	assert.Equal(t, uuid.MustParse(projectGID), tpl.ProjectGID)

	assert.False(t, tpl.NoteDistanceFromStartIntersection)
	assert.False(t, tpl.NoteDistanceFromEndIntersection)
	assert.False(t, tpl.NoteAddressAtStart)
	assert.False(t, tpl.NoteAddressAtEnd)
	assert.False(t, tpl.IncludeGPSAtStart)
	assert.False(t, tpl.IncludeGPSAtEnd)
	assert.False(t, tpl.IncludeGPSAtBearing)
}

func TestParse_SubmitTemplateFlags(t *testing.T) {
	payload := validTemplatePayload()
	payload["include_gps_at_start"] = true
	payload["note_address_at_end"] = true
	payload["include_gps_at_bearing"] = nil

	cmd, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	require.NoError(t, err)

	tpl := cmd.(dispatch.SubmitTemplate).Template
	assert.True(t, tpl.IncludeGPSAtStart)
	assert.True(t, tpl.NoteAddressAtEnd)
	assert.False(t, tpl.IncludeGPSAtBearing)
	assert.False(t, tpl.IncludeGPSAtEnd)
}

func TestParse_SubmitTemplateAcceptsZeroValues(t *testing.T) {
	payload := validTemplatePayload()
	payload["name"] = ""
	payload["max_length"] = 0

	cmd, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	require.NoError(t, err)

	tpl := cmd.(dispatch.SubmitTemplate).Template
	assert.Equal(t, "", tpl.Name)
	assert.Equal(t, 0, tpl.MaxLength)
}

func TestParse_SubmitTemplateMissingFields(t *testing.T) {
	payload := validTemplatePayload()
	delete(payload, "name")
	delete(payload, "max_length")

	_, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
	assert.Equal(t, 400, httpErr.Status)
	assert.ElementsMatch(t, []string{"name", "max_length"}, fieldNames(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		assert.Equal(t, "is required", fe.Error)
	}
}

func TestParse_SubmitTemplateNullPayload(t *testing.T) {
	for _, payload := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(`{}`)} {
		_, err := dispatch.Parse(dispatch.OpSubmitTemplate, payload)
		httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
		assert.ElementsMatch(t,
			[]string{"name", "type", "locate_narrative", "work_prints", "max_length", "project_gid"},
			fieldNames(httpErr.Errors))
	}
}

func TestParse_SubmitTemplateInvalidUUID(t *testing.T) {
	payload := validTemplatePayload()
	payload["project_gid"] = "not-a-uuid"

	_, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "project_gid", Error: "must be a valid UUID"}, httpErr.Errors[0])
}

func TestParse_SubmitTemplateWrongType(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{name: "fractional integer", field: "max_length", value: 12.5, want: "must be of type integer"},
		{name: "non numeric integer", field: "max_length", value: "five hundred", want: "must be of type integer"},
		{name: "object as integer", field: "max_length", value: map[string]any{"n": 1}, want: "must be of type integer"},
		{name: "number as string", field: "name", value: 7, want: "must be of type string"},
		{name: "unknown flag word", field: "include_gps_at_end", value: "maybe", want: "must be of type boolean"},
		{name: "flag out of range", field: "note_address_at_start", value: 2, want: "must be of type boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validTemplatePayload()
			payload[tt.field] = tt.value

			_, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
			httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
			require.Len(t, httpErr.Errors, 1)
			assert.Equal(t, errs.FieldError{Field: tt.field, Error: tt.want}, httpErr.Errors[0])
		})
	}
}

func TestParse_SubmitTemplateReportsEveryWrongType(t *testing.T) {
	payload := validTemplatePayload()
	payload["max_length"] = true
	payload["type"] = []string{"line"}

	_, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
	assert.ElementsMatch(t, []string{"type", "max_length"}, fieldNames(httpErr.Errors))
}

func TestParse_SubmitTemplateCoercesScalars(t *testing.T) {
	tests := []struct {
		name      string
		maxLength any
		gpsStart  any
		wantLen   int
		wantStart bool
	}{
		{name: "integral float", maxLength: 500.0, gpsStart: true, wantLen: 500, wantStart: true},
		{name: "numeric string", maxLength: "500", gpsStart: "true", wantLen: 500, wantStart: true},
		{name: "padded string", maxLength: " 42 ", gpsStart: "No", wantLen: 42, wantStart: false},
		{name: "float string", maxLength: "7.0", gpsStart: 1, wantLen: 7, wantStart: true},
		{name: "negative", maxLength: -3, gpsStart: "off", wantLen: -3, wantStart: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validTemplatePayload()
			payload["max_length"] = tt.maxLength
			payload["include_gps_at_start"] = tt.gpsStart

			cmd, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
			require.NoError(t, err)

			tpl := cmd.(dispatch.SubmitTemplate).Template
			assert.Equal(t, tt.wantLen, tpl.MaxLength)
			assert.Equal(t, tt.wantStart, tpl.IncludeGPSAtStart)
		})
	}
}

func TestParse_SubmitTemplateKeysAreCaseSensitive(t *testing.T) {
	payload := map[string]any{
		"NAME":             "T1",
		"Type":             "line",
		"Locate_Narrative": "go",
		"WORK_PRINTS":      "wp",
		"Max_Length":       500,
		"PROJECT_GID":      projectGID,
	}

	_, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
	assert.ElementsMatch(t,
		[]string{"name", "type", "locate_narrative", "work_prints", "max_length", "project_gid"},
		fieldNames(httpErr.Errors))
}

func TestParse_MisspelledKeyDoesNotShadowExactKey(t *testing.T) {
	payload := validTemplatePayload()
	payload["NAME"] = "shadow"
	payload["Include_GPS_At_End"] = true

	cmd, err := dispatch.Parse(dispatch.OpSubmitTemplate, raw(t, payload))
	require.NoError(t, err)

	tpl := cmd.(dispatch.SubmitTemplate).Template
	assert.Equal(t, "Main St", tpl.Name)
	assert.False(t, tpl.IncludeGPSAtEnd)
}

func TestParse_SubmitPointTemplateKeysAreCaseSensitive(t *testing.T) {
	payload := validPointPayload()
	delete(payload, "point_name")
	payload["Point_Name"] = "P1"
	payload["RADIUS"] = 10

	_, err := dispatch.Parse(dispatch.OpSubmitPointTemplates, raw(t, payload))
	httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
	assert.Equal(t, []string{"point_name"}, fieldNames(httpErr.Errors))
}

func TestParse_PayloadMustBeObject(t *testing.T) {
	_, err := dispatch.Parse(dispatch.OpSubmitPointTemplates, json.RawMessage(`[1, 2, 3]`))
	requireHTTPError(t, err, errs.CodeInvalidPayload)
}

func TestParse_SubmitPointTemplateOptionals(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		cmd, err := dispatch.Parse(dispatch.OpSubmitPointTemplates, raw(t, validPointPayload()))
		require.NoError(t, err)

		tpl := cmd.(dispatch.SubmitPointTemplate).Template
		assert.Equal(t, "Pole set", tpl.TemplateName)
		assert.Equal(t, "P1", tpl.PointName)
		assert.Equal(t, "pole", tpl.PointType)
		assert.Equal(t, "WP-7", tpl.WorkPrint)
		assert.Nil(t, tpl.Radius)
		assert.Nil(t, tpl.LocationDirection)
		assert.Nil(t, tpl.PointNote)
	})

	t.Run("null", func(t *testing.T) {
		payload := validPointPayload()
		payload["radius"] = nil
		payload["location_direction"] = nil
		payload["point_note"] = nil

		cmd, err := dispatch.Parse(dispatch.OpSubmitPointTemplates, raw(t, payload))
		require.NoError(t, err)

		tpl := cmd.(dispatch.SubmitPointTemplate).Template
		assert.Nil(t, tpl.Radius)
		assert.Nil(t, tpl.LocationDirection)
		assert.Nil(t, tpl.PointNote)
	})

	t.Run("present", func(t *testing.T) {
		payload := validPointPayload()
		payload["radius"] = "25"
		payload["location_direction"] = "NE"
		payload["point_note"] = "behind fence"

		cmd, err := dispatch.Parse(dispatch.OpSubmitPointTemplates, raw(t, payload))
		require.NoError(t, err)

		tpl := cmd.(dispatch.SubmitPointTemplate).Template
		require.NotNil(t, tpl.Radius)
		assert.Equal(t, 25, *tpl.Radius)
		assert.Equal(t, "NE", *tpl.LocationDirection)
		assert.Equal(t, "behind fence", *tpl.PointNote)
	})
}

func TestParse_SubmitPointTemplateMissingFields(t *testing.T) {
	payload := validPointPayload()
	delete(payload, "work_print")
	payload["project_gid"] = "1234"

	_, err := dispatch.Parse(dispatch.OpSubmitPointTemplates, raw(t, payload))
	httpErr := requireHTTPError(t, err, errs.CodeInvalidPayload)
	assert.ElementsMatch(t, []string{"work_print", "project_gid"}, fieldNames(httpErr.Errors))
}

func TestRequest_UnmarshalEnvelope(t *testing.T) {
	body := `{"function": "submit_point_templates", "payload": ` + string(raw(t, validPointPayload())) + `}`

	var req dispatch.Request
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "submit_point_templates", req.Function)
	assert.Nil(t, req.Command())

	require.NoError(t, req.Validate())
	assert.Equal(t, dispatch.OpSubmitPointTemplates, req.Command().Operation())
}

func TestRequest_RouteBoundTakesWholeBody(t *testing.T) {
	req := dispatch.NewRouteRequest(dispatch.OpSubmitTemplate)
	require.NoError(t, json.Unmarshal(raw(t, validTemplatePayload()), req))

	assert.Equal(t, string(dispatch.OpSubmitTemplate), req.Function)
	require.NoError(t, req.Validate())
	assert.IsType(t, dispatch.SubmitTemplate{}, req.Command())
}

func TestRequest_RouteBoundIgnoresFunctionOverride(t *testing.T) {
	req := dispatch.NewRouteRequest(dispatch.OpGetTemplates)
	req.Function = "drop_everything"

	require.NoError(t, req.Validate())
	assert.Equal(t, dispatch.GetTemplates{}, req.Command())
}
