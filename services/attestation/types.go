// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package attestation assembles the compliance bundle: attestation
// report, SBOM, compliance mapping, guard code, and a signed-manifest
// style file inventory, all under a single bundle directory.
package attestation

import "time"

// Compliance statuses for a control mapping. The set is closed; the
// summary arithmetic depends on it.
const (
	StatusCompliant          = "compliant"
	StatusPartiallyCompliant = "partially_compliant"
	StatusNonCompliant       = "non_compliant"
	StatusNotApplicable      = "not_applicable"
)

// Artifact types referenced by control mappings.
const (
	ArtifactLeanTheorem   = "lean_theorem"
	ArtifactGuardCode     = "guard_code"
	ArtifactSBOMComponent = "sbom_component"
	ArtifactTestCase      = "test_case"
)

// ArtifactReference points a control objective at concrete evidence:
// a file plus the line numbers or identifiers that carry it.
type ArtifactReference struct {
	ArtifactType string `json:"artifact_type"`
	ArtifactPath string `json:"artifact_path"`
	LineNumbers  []int  `json:"line_numbers,omitempty"`
	Identifiers  []string `json:"identifiers,omitempty"`
	Description  string `json:"description,omitempty"`
}

// ControlMapping links one control objective to its evidence.
type ControlMapping struct {
	ControlID           string              `json:"control_id"`
	ControlName         string              `json:"control_name"`
	ControlDescription  string              `json:"control_description"`
	Standard            string              `json:"standard"`
	ComplianceLevel     string              `json:"compliance_level"`
	Status              string              `json:"status"`
	Artifacts           []ArtifactReference `json:"artifacts"`
	EvidenceDescription string              `json:"evidence_description"`
	VerificationMethod  string              `json:"verification_method"`
	LastVerified        time.Time           `json:"last_verified"`
	VerifiedBy          string              `json:"verified_by"`
}

// ComplianceSummary aggregates mapping statuses for the report header.
type ComplianceSummary struct {
	TotalControls       int      `json:"total_controls"`
	Compliant           int      `json:"compliant"`
	PartiallyCompliant  int      `json:"partially_compliant"`
	NonCompliant        int      `json:"non_compliant"`
	ComplianceRate      float64  `json:"compliance_rate"`
	StandardsCovered    []string `json:"standards_covered"`
	LastUpdated         string   `json:"last_updated"`
}

// ComplianceReport is the full regulator-facing mapping document.
type ComplianceReport struct {
	SystemName      string            `json:"system_name"`
	SystemVersion   string            `json:"system_version"`
	Standards       []string          `json:"standards"`
	ComplianceLevel string            `json:"compliance_level"`
	ReportDate      time.Time         `json:"report_date"`
	GeneratedBy     string            `json:"generated_by"`
	ControlMappings []ControlMapping  `json:"control_mappings"`
	Summary         ComplianceSummary `json:"summary"`
	Metadata        map[string]string `json:"metadata"`
}

// TestResult summarizes one verification test suite for the mapping.
type TestResult struct {
	Status    string `json:"status"`
	Coverage  int    `json:"coverage"`
	TestCases int    `json:"test_cases"`
}

// BundleFile is one entry in the bundle manifest.
type BundleFile struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256"`
	Bytes  int64  `json:"bytes"`
}

// Manifest is the bundle.json inventory written alongside the
// artifacts. The ID is a UUID so bundles can be referenced over the
// REST API.
type Manifest struct {
	ID         string       `json:"id"`
	Algorithm  string       `json:"algorithm"`
	Prover     string       `json:"prover"`
	SpecDigest string       `json:"spec_digest"`
	CreatedAt  time.Time    `json:"created_at"`
	Files      []BundleFile `json:"files"`
}

// Bundle describes a completed bundle on disk.
type Bundle struct {
	ID       string
	Dir      string
	Manifest Manifest
}
