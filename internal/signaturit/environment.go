package signaturit

import (
	"strings"

	"github.com/MarcosLancellotti2225/HTMLgenerator/internal/foundation/normalization"
)

// Environment selects the provider API the relay forwards to.
type Environment string

const (
	Sandbox    Environment = "sandbox"
	Production Environment = "production"
)

var baseURLs = map[Environment]string{
	Sandbox:    "https://api.sandbox.signaturit.com/v3",
	Production: "https://api.signaturit.com/v3",
}

var environmentNormalizer = normalization.NewEnumNormalizer("signaturit environment", map[string]Environment{
	"sandbox":    Sandbox,
	"production": Production,
	"prod":       Production,
}, Sandbox)

// ParseEnvironment validates a raw environment name.
func ParseEnvironment(raw string) (Environment, error) {
	return environmentNormalizer.NormalizeWithValidation(raw)
}

// BaseURL is the API root of e. Unknown environments use the sandbox.
func (e Environment) BaseURL() string {
	if u, ok := baseURLs[e]; ok {
		return u
	}
	return baseURLs[Sandbox]
}

// BaseURLs returns the API roots of every environment.
func BaseURLs() []string {
	return []string{baseURLs[Sandbox], baseURLs[Production]}
}

// IsAPIURL reports whether target points below one of the known API roots.
func IsAPIURL(target string, bases []string) bool {
	for _, base := range bases {
		if target == base || strings.HasPrefix(target, strings.TrimSuffix(base, "/")+"/") {
			return true
		}
	}
	return false
}
