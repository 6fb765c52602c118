package prompt

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

func smartHomeData() Data {
	return Data{
		ProductName:      "SmartHome Assistant",
		ProductCategory:  "Home Automation",
		CompanyURL:       "https://www.smarthome.com",
		Competitors:      "Amazon Alexa, Google Nest",
		CompetitorsURL:   "https://www.amazon.com/alexa",
		TargetCustomer:   "John Doe, CTO",
		ValueProposition: "Streamline your life with our eco-friendly home assistant.",
		CompanyInformation: []search.Result{
			{Title: "SmartHome", URL: "https://www.smarthome.com", Content: "SmartHome builds voice-first hubs."},
			{Title: "Press", URL: "https://www.smarthome.com/press", Content: "CEO Jane Roe announced a new eco line."},
		},
	}
}

func TestPlaceholdersBindToDataFields(t *testing.T) {
	typ := reflect.TypeOf(Data{})
	fields := make(map[string]bool, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		fields[typ.Field(i).Name] = true
	}

	placeholders := Placeholders()
	require.NotEmpty(t, placeholders)
	for _, p := range placeholders {
		assert.Truef(t, fields[p], "placeholder %q has no field in Data", p)
	}
	// 反向：每个字段都出现在模板中
	for name := range fields {
		assert.Containsf(t, placeholders, name, "field %q is never rendered", name)
	}
}

func TestAssemble_ContainsEveryFieldAndHeader(t *testing.T) {
	d := smartHomeData()

	out, err := Assemble(d)
	require.NoError(t, err)

	for _, v := range []string{
		d.ProductName, d.ProductCategory, d.CompanyURL, d.Competitors,
		d.CompetitorsURL, d.TargetCustomer, d.ValueProposition,
	} {
		assert.Contains(t, out, v)
	}
	for _, r := range d.CompanyInformation {
		assert.Contains(t, out, r.Content)
		assert.Contains(t, out, r.URL)
	}
	for i, h := range TaskHeaders {
		assert.Contains(t, out, h)
		assert.Contains(t, out, fmt.Sprintf("%d. %s:", i+1, h))
	}
	assert.Contains(t, out, "Role: You are a Business Analyst Assistant")
	assert.NotContains(t, out, NoDataMarker)
	assert.NotContains(t, out, "{{")
	assert.NotContains(t, out, "<no value>")
}

func TestAssemble_Idempotent(t *testing.T) {
	d := smartHomeData()

	first, err := Assemble(d)
	require.NoError(t, err)
	second, err := Assemble(d)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssemble_EmptySearchResults(t *testing.T) {
	d := smartHomeData()
	d.CompanyInformation = nil

	out, err := Assemble(d)
	require.NoError(t, err)

	assert.Contains(t, out, "Company Data: "+NoDataMarker)
	for _, h := range TaskHeaders {
		assert.Contains(t, out, h)
	}
	assert.NotContains(t, out, "{{")
}

func TestAssemble_OptionalFieldsEmpty(t *testing.T) {
	out, err := Assemble(Data{ProductName: "Widget", CompanyURL: "https://widget.io"})
	require.NoError(t, err)

	assert.Contains(t, out, "Product Name: Widget")
	assert.Contains(t, out, "Competitors URL: \n")
	assert.NotContains(t, out, "<no value>")
}

func TestAssemble_NumbersResults(t *testing.T) {
	out, err := Assemble(smartHomeData())
	require.NoError(t, err)

	assert.Contains(t, out, "[1] SmartHome (https://www.smarthome.com)")
	assert.Contains(t, out, "[2] Press (https://www.smarthome.com/press)")
}
