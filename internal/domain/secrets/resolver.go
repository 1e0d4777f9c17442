// Package secrets turns secret-typed options into references the workload
// can resolve at runtime. Secret content is never read here.
package secrets

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/charmpack/charmpack/internal/domain"
	"github.com/charmpack/charmpack/internal/domain/naming"
)

const scheme = "secret:"

// secretIDPattern matches the 20-character xid form secret IDs take.
var secretIDPattern = regexp.MustCompile(`^[0-9a-v]{20}$`)

// ValidateReference checks that value has the form secret:<id> or
// secret://<model-uuid>/<id>.
func ValidateReference(value string) error {
	rest, ok := strings.CutPrefix(value, scheme)
	if !ok {
		return fmt.Errorf("missing %q prefix", scheme)
	}
	if qualified, ok := strings.CutPrefix(rest, "//"); ok {
		model, id, found := strings.Cut(qualified, "/")
		if !found {
			return fmt.Errorf("model-qualified reference must be secret://<model-uuid>/<id>")
		}
		if _, err := uuid.Parse(model); err != nil {
			return fmt.Errorf("invalid model uuid %q: %w", model, err)
		}
		rest = id
	}
	if !secretIDPattern.MatchString(rest) {
		return fmt.Errorf("invalid secret id %q", rest)
	}
	return nil
}

// Placeholder is the token the runtime substitutes with a secret's key.
func Placeholder(option, key string) string {
	return fmt.Sprintf("$(%s:%s)", option, key)
}

// BindingName is the terminal environment variable for one secret key:
// <PREFIX>_<OPTION>_<KEY>.
func BindingName(prefix, option, key string) string {
	return naming.EnvName(prefix, option) + "_" + naming.Upper(key)
}

// Resolve builds the references and bindings for every secret-typed option.
// Options whose default is not a valid reference are reported, all of them,
// as *domain.InvalidSecretReferenceError values.
func Resolve(prefix string, options []domain.ConfigOption) ([]domain.SecretReference, []domain.EnvVarBinding, []error) {
	var (
		refs     []domain.SecretReference
		bindings []domain.EnvVarBinding
		errs     []error
	)
	for _, o := range options {
		if o.Type != domain.OptionSecret {
			continue
		}
		var ref string
		if def := o.DefaultValue(); def != nil {
			s, _ := def.(string)
			if err := ValidateReference(s); err != nil {
				errs = append(errs, &domain.InvalidSecretReferenceError{Option: o.Name, Value: fmt.Sprint(def)})
				continue
			}
			ref = s
		}
		for _, key := range o.SecretKeys() {
			name := BindingName(prefix, o.Name, key)
			refs = append(refs, domain.SecretReference{
				Option:      o.Name,
				Reference:   ref,
				Key:         key,
				Placeholder: Placeholder(o.Name, key),
				Binding:     name,
			})
			bindings = append(bindings, domain.EnvVarBinding{
				Name:      name,
				Source:    domain.SourceSecret,
				Option:    o.Name,
				SecretKey: key,
			})
		}
	}
	return refs, bindings, errs
}
