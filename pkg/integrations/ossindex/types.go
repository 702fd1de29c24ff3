package ossindex

// reportRequest is the component-report request body.
type reportRequest struct {
	Coordinates []string `json:"coordinates"`
}

// ComponentReport is one package's report as returned by OSS Index.
// The Coordinates field echoes the purl submitted for lookup.
type ComponentReport struct {
	Coordinates     string          `json:"coordinates"`
	Purl            string          `json:"purl,omitempty"`
	Description     string          `json:"description,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// Vulnerability is a single vulnerability record. Fields absent from the
// provider response stay unset rather than defaulted; CvssScore is a
// pointer so a missing score is distinguishable from 0.
type Vulnerability struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	CvssScore   *float64 `json:"cvssScore,omitempty"`
	CVE         string   `json:"cve,omitempty"`
	Reference   string   `json:"reference,omitempty"`
}

// Report aggregates per-package reports plus scan diagnostics.
// Results are keyed by the coordinates string each item echoes.
type Report struct {
	Results     map[string]ComponentReport `json:"results"`
	RateLimited bool                       `json:"rate_limited"`
	Errors      []string                   `json:"errors,omitempty"`
}
