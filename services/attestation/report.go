// Copyright (C) 2025 SafeRL ProofStack Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package attestation

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

var reportTemplate = template.Must(template.New("attestation").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>ProofStack Attestation</title>
</head>
<body>
  <h1>ProofStack Attestation</h1>
  <p>Algorithm: {{.Algorithm}}</p>
  <p>Prover: {{.Prover}}</p>
  <p>Specification digest: <code>{{.SpecDigest}}</code></p>
  <p>Generated: {{.Generated}}</p>
  <h2>Safety Specification</h2>
  <pre>{{.Spec}}</pre>
  <h2>Lean Proof</h2>
  <pre>{{.Lean}}</pre>
  <h2>Compliance Summary</h2>
  <p>{{.Compliant}} of {{.TotalControls}} controls compliant ({{.Rate}}%) across {{.Standards}}.</p>
</body>
</html>
`))

// reportData feeds the HTML template; all string fields are escaped by
// html/template.
type reportData struct {
	Algorithm     string
	Prover        string
	SpecDigest    string
	Generated     string
	Spec          string
	Lean          string
	Compliant     int
	TotalControls int
	Rate          string
	Standards     string
}

// RenderReport produces the attestation.html content.
func RenderReport(in MapperInput, specDigest, prover, specText string, report *ComplianceReport, now time.Time) (string, error) {
	data := reportData{
		Algorithm:     in.Algorithm,
		Prover:        prover,
		SpecDigest:    specDigest,
		Generated:     now.Format(time.RFC3339),
		Spec:          specText,
		Lean:          in.LeanSource,
		Compliant:     report.Summary.Compliant,
		TotalControls: report.Summary.TotalControls,
		Rate:          fmt.Sprintf("%.0f", report.Summary.ComplianceRate),
		Standards:     strings.Join(report.Summary.StandardsCovered, ", "),
	}
	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render attestation report: %w", err)
	}
	return sb.String(), nil
}
