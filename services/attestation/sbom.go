// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package attestation

import "encoding/json"

// SPDXPackage is one component entry in the SBOM.
type SPDXPackage struct {
	SPDXID      string `json:"SPDXID"`
	Name        string `json:"name"`
	VersionInfo string `json:"versionInfo"`
	Description string `json:"description"`
}

// SPDXDocument is the SPDX 2.3 software bill of materials. The
// component identifiers are referenced from the compliance mapping.
type SPDXDocument struct {
	SPDXID      string        `json:"SPDXID"`
	SPDXVersion string        `json:"spdxVersion"`
	Name        string        `json:"name"`
	Packages    []SPDXPackage `json:"packages"`
}

// NewSBOM builds the bundle's SPDX document.
func NewSBOM() SPDXDocument {
	return SPDXDocument{
		SPDXID:      "SPDXRef-DOCUMENT",
		SPDXVersion: "SPDX-2.3",
		Name:        "SafeRL ProofStack Bundle",
		Packages: []SPDXPackage{
			{
				SPDXID:      "SPDXRef-safety-specification",
				Name:        "Safety Specification",
				VersionInfo: systemVersion,
				Description: "Formal safety requirements specification",
			},
			{
				SPDXID:      "SPDXRef-configuration-management",
				Name:        "Configuration Management",
				VersionInfo: systemVersion,
				Description: "Configuration management system",
			},
			{
				SPDXID:      "SPDXRef-security-monitoring",
				Name:        "Security Monitoring",
				VersionInfo: systemVersion,
				Description: "Security monitoring and logging system",
			},
		},
	}
}

// MarshalSBOM renders the document as indented JSON.
func MarshalSBOM(doc SPDXDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
