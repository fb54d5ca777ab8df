package prediction

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(values map[string]string) func(string) string {
	return func(name string) string {
		return values[name]
	}
}

func validValues() map[string]string {
	return map[string]string{
		FieldLOC:           "450",
		FieldWMC:           "14",
		FieldRFC:           "22",
		FieldCBO:           "7",
		FieldLCOM:          "0.55",
		FieldCodeChurn:     "12",
		FieldNumDevelopers: "4",
		FieldPastDefects:   "3",
	}
}

func TestParseRequest_Valid(t *testing.T) {
	req := ParseRequest(lookupFrom(validValues()))

	require.NoError(t, req.Validate())
	assert.Equal(t, ExampleRequest(), req)
}

func TestRequest_JSONUsesNumbers(t *testing.T) {
	data, err := json.Marshal(ExampleRequest())
	require.NoError(t, err)

	want := `{"loc":450,"wmc":14,"rfc":22,"cbo":7,"lcom":0.55,"code_churn":12,"num_developers":4,"past_defects":3}`
	assert.JSONEq(t, want, string(data))

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, name := range FieldNames {
		_, isNumber := raw[name].(float64)
		assert.True(t, isNumber, "field %s should be encoded as a number", name)
	}
}

func TestRequestValidate_RejectsEveryField(t *testing.T) {
	for _, name := range FieldNames {
		for _, bad := range []string{"-1", "abc", "", "NaN", "Inf"} {
			values := validValues()
			values[name] = bad

			err := ParseRequest(lookupFrom(values)).Validate()
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("field %s=%q: expected ErrInvalidInput, got %v", name, bad, err)
			}
		}
	}
}

func TestRequestValidate_MissingField(t *testing.T) {
	values := validValues()
	delete(values, FieldPastDefects)

	err := ParseRequest(lookupFrom(values)).Validate()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRequestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr bool
	}{
		{"developers zero", func(r *Request) { r.NumDevelopers = 0 }, true},
		{"developers one", func(r *Request) { r.NumDevelopers = 1 }, false},
		{"lcom one", func(r *Request) { r.LCOM = 1.0 }, false},
		{"lcom above one", func(r *Request) { r.LCOM = 1.0001 }, true},
		{"lcom zero", func(r *Request) { r.LCOM = 0 }, false},
		{"zero loc", func(r *Request) { r.LOC = 0 }, false},
		{"infinite churn", func(r *Request) { r.CodeChurn = math.Inf(1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ExampleRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestFields_Order(t *testing.T) {
	fields := ExampleRequest().Fields()
	require.Len(t, fields, len(FieldNames))

	for i, fv := range fields {
		assert.Equal(t, FieldNames[i], fv.Name)
		assert.NotEmpty(t, fv.Label)
	}
	assert.Equal(t, "Lines of Code (LOC)", fields[0].Label)
	assert.Equal(t, 0.55, fields[4].Value)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "450", FormatNumber(450))
	assert.Equal(t, "0.55", FormatNumber(0.55))
	assert.Equal(t, "42.5", FormatNumber(42.5))
}

func TestParseField(t *testing.T) {
	v, err := ParseField(FieldLCOM, " 0.55 ")
	require.NoError(t, err)
	assert.Equal(t, 0.55, v)

	_, err = ParseField(FieldNumDevelopers, "0")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = ParseField(FieldLOC, "12abc")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 上限はLCOMのみ
	_, err = ParseField(FieldLOC, "1000000")
	assert.NoError(t, err)
}
