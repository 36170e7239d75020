package normalize

import (
	"encoding/base64"
	"strings"
	"testing"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func licenseChoices(ids ...string) *cdx.Licenses {
	licenses := cdx.Licenses{}
	for _, id := range ids {
		licenses = append(licenses, cdx.LicenseChoice{License: &cdx.License{ID: id}})
	}
	return &licenses
}

func TestLicenseReportFromBOM(t *testing.T) {
	t.Run("should group dependencies by license", func(t *testing.T) {
		bom := &cdx.BOM{
			Components: &[]cdx.Component{
				{Type: cdx.ComponentTypeLibrary, Name: "lodash", PackageURL: "pkg:npm/lodash@4.17.21", Licenses: licenseChoices("MIT")},
				{Type: cdx.ComponentTypeLibrary, Name: "react", PackageURL: "pkg:npm/react@18.0.0", Licenses: licenseChoices("MIT")},
				{Type: cdx.ComponentTypeLibrary, Name: "gpl-lib", PackageURL: "pkg:golang/github.com/acme/gpl-lib@v1.0.0", Licenses: licenseChoices("GPL-3.0", "MIT")},
			},
		}

		report := LicenseReportFromBOM(bom)

		assert.Equal(t, []string{"GPL-3.0", "MIT"}, report.LicenseNames())
		assert.Equal(t, []string{"github.com/acme/gpl-lib", "lodash", "react"}, report.Licenses["MIT"])
		assert.True(t, report.Has("GPL-3.0", "github.com/acme/gpl-lib"))
	})

	t.Run("should list components without a license as unknown", func(t *testing.T) {
		bom := &cdx.BOM{
			Components: &[]cdx.Component{
				{Type: cdx.ComponentTypeLibrary, Name: "mystery"},
			},
		}

		report := LicenseReportFromBOM(bom)

		assert.Equal(t, []string{"mystery"}, report.Licenses[UnknownLicense])
	})

	t.Run("should skip the application component and walk nested components", func(t *testing.T) {
		bom := &cdx.BOM{
			Components: &[]cdx.Component{
				{
					Type: cdx.ComponentTypeApplication,
					Name: "my-app",
					Components: &[]cdx.Component{
						{Type: cdx.ComponentTypeLibrary, Name: "nested", Licenses: licenseChoices("Apache-2.0")},
					},
				},
			},
		}

		report := LicenseReportFromBOM(bom)

		assert.Equal(t, []string{"Apache-2.0"}, report.LicenseNames())
	})

	t.Run("should detect licenses shipped as full text", func(t *testing.T) {
		bom := &cdx.BOM{
			Components: &[]cdx.Component{
				{Type: cdx.ComponentTypeLibrary, Name: "plain", Licenses: &cdx.Licenses{
					{License: &cdx.License{Text: &cdx.AttachedText{Content: mitLicenseText}}},
				}},
				{Type: cdx.ComponentTypeLibrary, Name: "encoded", Licenses: &cdx.Licenses{
					{License: &cdx.License{Text: &cdx.AttachedText{Encoding: "base64", Content: base64.StdEncoding.EncodeToString([]byte(mitLicenseText))}}},
				}},
				{Type: cdx.ComponentTypeLibrary, Name: "gibberish", Licenses: &cdx.Licenses{
					{License: &cdx.License{Text: &cdx.AttachedText{Content: "do whatever you want but call me"}}},
				}},
			},
		}

		report := LicenseReportFromBOM(bom)

		assert.Equal(t, []string{"encoded", "plain"}, report.Licenses["MIT"])
		assert.Equal(t, []string{"gibberish"}, report.Licenses[UnknownLicense])
	})

	t.Run("should return an empty report for a nil bom", func(t *testing.T) {
		assert.True(t, LicenseReportFromBOM(nil).IsEmpty())
	})
}

func TestParseLicenseReport(t *testing.T) {
	doc := `{
		"bomFormat": "CycloneDX",
		"specVersion": "1.6",
		"components": [
			{"type": "library", "name": "left-pad", "purl": "pkg:npm/left-pad@1.3.0", "licenses": [{"license": {"id": "WTFPL"}}]},
			{"type": "library", "name": "openssl", "licenses": [{"expression": "Apache-2.0 OR OpenSSL"}]}
		]
	}`

	report, err := ParseLicenseReport(strings.NewReader(doc))
	require.NoError(t, err)

	assert.True(t, report.Has("WTFPL", "left-pad"))
	assert.True(t, report.Has("Apache-2.0 OR OpenSSL", "openssl"))
}

func TestMergeLicenseReports(t *testing.T) {
	t.Run("should return nil if all reports are nil", func(t *testing.T) {
		assert.Nil(t, MergeLicenseReports(nil, nil))
	})

	t.Run("should union the dependencies of every report", func(t *testing.T) {
		a := NewLicenseReport()
		a.Add("MIT", "a")
		b := NewLicenseReport()
		b.Add("MIT", "b")
		b.Add("MIT", "a")
		b.Add("BSD-3-Clause", "c")

		merged := MergeLicenseReports(a, nil, b)

		assert.Equal(t, []string{"a", "b"}, merged.Licenses["MIT"])
		assert.Equal(t, []string{"c"}, merged.Licenses["BSD-3-Clause"])
	})
}

const mitLicenseText = `MIT License

Copyright (c) 2024 Acme Inc.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`
