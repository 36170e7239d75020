// Copyright (C) 2025 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package normalize

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/licensecheck"
	"github.com/package-url/packageurl-go"
)

const UnknownLicense = "unknown"

// minimum share of a license text which has to match a known license
const licenseTextCoverage = 75.0

// LicenseReport maps a license name to the names of the dependencies using it.
type LicenseReport struct {
	Licenses map[string][]string
}

func NewLicenseReport() *LicenseReport {
	return &LicenseReport{Licenses: make(map[string][]string)}
}

func (r *LicenseReport) Add(license, dependency string) {
	license = strings.TrimSpace(license)
	if license == "" {
		license = UnknownLicense
	}
	if slices.Contains(r.Licenses[license], dependency) {
		return
	}
	r.Licenses[license] = append(r.Licenses[license], dependency)
	sort.Strings(r.Licenses[license])
}

// Has reports whether the dependency is listed under the license.
func (r *LicenseReport) Has(license, dependency string) bool {
	if r == nil {
		return false
	}
	return slices.Contains(r.Licenses[license], dependency)
}

func (r *LicenseReport) LicenseNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Licenses))
	for name := range r.Licenses {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *LicenseReport) IsEmpty() bool {
	return r == nil || len(r.Licenses) == 0
}

// MergeLicenseReports combines the reports of related pipelines. Nil reports are skipped.
// The result is nil if every report is nil.
func MergeLicenseReports(reports ...*LicenseReport) *LicenseReport {
	var merged *LicenseReport
	for _, report := range reports {
		if report == nil {
			continue
		}
		if merged == nil {
			merged = NewLicenseReport()
		}
		for license, deps := range report.Licenses {
			for _, dep := range deps {
				merged.Add(license, dep)
			}
		}
	}
	return merged
}

// LicenseReportFromBOM collects the licenses of every component in the bom.
// Components without any license are listed under UnknownLicense.
func LicenseReportFromBOM(bom *cdx.BOM) *LicenseReport {
	report := NewLicenseReport()
	if bom == nil || bom.Components == nil {
		return report
	}

	var visit func(components []cdx.Component)
	visit = func(components []cdx.Component) {
		for _, component := range components {
			if component.Type != cdx.ComponentTypeApplication && component.Type != cdx.ComponentTypeContainer {
				name := dependencyName(component)
				licenses := componentLicenses(component)
				if len(licenses) == 0 {
					report.Add(UnknownLicense, name)
				}
				for _, license := range licenses {
					report.Add(license, name)
				}
			}
			if component.Components != nil {
				visit(*component.Components)
			}
		}
	}
	visit(*bom.Components)
	return report
}

// ParseLicenseReport decodes a cyclonedx json document.
func ParseLicenseReport(r io.Reader) (*LicenseReport, error) {
	var bom cdx.BOM
	if err := cdx.NewBOMDecoder(r, cdx.BOMFileFormatJSON).Decode(&bom); err != nil {
		return nil, fmt.Errorf("could not decode cyclonedx bom: %w", err)
	}
	return LicenseReportFromBOM(&bom), nil
}

func ParseLicenseReportBytes(b []byte) (*LicenseReport, error) {
	return ParseLicenseReport(bytes.NewReader(b))
}

func componentLicenses(component cdx.Component) []string {
	if component.Licenses == nil {
		return nil
	}
	licenses := make([]string, 0, len(*component.Licenses))
	for _, choice := range *component.Licenses {
		switch {
		case choice.License != nil && choice.License.ID != "":
			licenses = append(licenses, choice.License.ID)
		case choice.License != nil && choice.License.Name != "":
			licenses = append(licenses, choice.License.Name)
		case choice.Expression != "":
			licenses = append(licenses, choice.Expression)
		case choice.License != nil && choice.License.Text != nil:
			if id := detectLicense(*choice.License.Text); id != "" {
				licenses = append(licenses, id)
			}
		}
	}
	return licenses
}

// detectLicense resolves a license which is only shipped as full text to its SPDX id.
func detectLicense(text cdx.AttachedText) string {
	content := []byte(text.Content)
	if text.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(text.Content)
		if err != nil {
			return ""
		}
		content = decoded
	}

	coverage := licensecheck.Scan(content)
	if coverage.Percent < licenseTextCoverage || len(coverage.Match) == 0 {
		return ""
	}
	return coverage.Match[0].ID
}

// dependencyName prefers the purl so that the same package from different registries stays distinct.
func dependencyName(component cdx.Component) string {
	if component.PackageURL != "" {
		if purl, err := packageurl.FromString(component.PackageURL); err == nil {
			if purl.Namespace != "" {
				return purl.Namespace + "/" + purl.Name
			}
			return purl.Name
		}
	}
	if component.Group != "" {
		return component.Group + "/" + component.Name
	}
	return component.Name
}
