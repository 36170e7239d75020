package normalize

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed security_report.schema.json
var securityReportSchemaJSON []byte

const securityReportSchemaURL = "https://policyguard.l3montree.com/schemas/security-report.json"

var securityReportSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(securityReportSchemaJSON))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(securityReportSchemaURL, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(securityReportSchemaURL)
})

// ValidateSecurityReport checks a raw security report against the part of the gitlab report format we read.
func ValidateSecurityReport(report []byte) error {
	schema, err := securityReportSchema()
	if err != nil {
		return fmt.Errorf("could not compile security report schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(report))
	if err != nil {
		return fmt.Errorf("could not parse security report: %w", err)
	}
	return schema.Validate(doc)
}
