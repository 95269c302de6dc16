package render

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	flashPolicyOnce sync.Once
	flashPolicy     *bluemonday.Policy
)

// sanitizeFlash strips markup from flash and error messages before they are
// echoed into a page. Messages originate from backend errors and query
// parameters, so they are treated as untrusted.
func sanitizeFlash(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(flashSanitizer().Sanitize(trimmed))
}

func flashSanitizer() *bluemonday.Policy {
	flashPolicyOnce.Do(func() {
		flashPolicy = bluemonday.StrictPolicy()
	})
	return flashPolicy
}
