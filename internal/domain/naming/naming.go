// Package naming derives environment-variable names from option names.
package naming

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

var optionNamePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// EnvName maps an option name to its environment variable under prefix:
// upper-cased, hyphens replaced with underscores, prefixed with "<PREFIX>_".
// An empty prefix yields the bare transformed name.
func EnvName(prefix, name string) string {
	v := Upper(name)
	if prefix == "" {
		return v
	}
	return prefix + "_" + v
}

// Upper upper-cases name and replaces each hyphen with an underscore.
func Upper(name string) string {
	return strings.ReplaceAll(strings.ToUpper(name), "-", "_")
}

// ValidOptionName reports whether name is kebab-case.
func ValidOptionName(name string) bool {
	return optionNamePattern.MatchString(name)
}

// Suggest proposes a kebab-case spelling for name, or "" when no sensible
// suggestion exists. "configOptionName" and "config_option_name" both become
// "config-option-name".
func Suggest(name string) string {
	var words []string
	for _, w := range camelcase.Split(name) {
		if !isWord(w) {
			continue
		}
		words = append(words, strings.ToLower(w))
	}
	s := strings.Join(words, "-")
	if s == name || !ValidOptionName(s) {
		return ""
	}
	return s
}

func isWord(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
