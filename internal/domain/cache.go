package domain

// ValidationRecord is the cached outcome of a successful validation.
type ValidationRecord struct {
	ProjectPath     string `json:"project_path"`
	Digest          string `json:"digest"`
	RegistryVersion string `json:"registry_version"`
	Extension       string `json:"extension,omitempty"`
	Bindings        int    `json:"bindings"`
}

// IsInvalidated reports whether the record no longer matches the
// descriptor digest or the registry version it was produced with.
func (r *ValidationRecord) IsInvalidated(digest, registryVersion string) bool {
	return r.Digest != digest || r.RegistryVersion != registryVersion
}
