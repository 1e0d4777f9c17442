package domain

// ValidationResult is the outcome of validating one descriptor file.
type ValidationResult struct {
	Path      string   `json:"path"`
	Extension string   `json:"extension,omitempty"`
	Bindings  int      `json:"bindings"`
	Cached    bool     `json:"cached,omitempty"`
	Problems  []string `json:"problems,omitempty"`
	Err       error    `json:"-"`
}

// OK reports whether the descriptor expanded cleanly.
func (r ValidationResult) OK() bool { return r.Err == nil }

// NewValidationResult records err and its flattened problems against path.
func NewValidationResult(path string, err error) ValidationResult {
	r := ValidationResult{Path: path, Err: err}
	for _, p := range Problems(err) {
		r.Problems = append(r.Problems, p.Error())
	}
	return r
}
