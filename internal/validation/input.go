package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Cache identifier patterns
var (
	namespacePattern = regexp.MustCompile(`^[a-z][a-z-]*[a-z]$`)
	controlPattern   = regexp.MustCompile(`[[:cntrl:]]`)
)

// MaxKeyLength caps user keys so composed store keys stay well below any
// practical column limit.
const MaxKeyLength = 512

// ValidateNamespaceKey validates a "namespace key" argument pair as given
// on the command line.
func ValidateNamespaceKey(namespace, key string) error {
	if err := ValidateNamespace(namespace); err != nil {
		return fmt.Errorf("invalid namespace: %w", err)
	}
	if err := ValidateKey(key); err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return nil
}

// ValidateNamespace validates the syntax of a namespace token. Membership
// in the closed namespace set is checked separately by the cache layer;
// this only rejects tokens that could never be a namespace.
func ValidateNamespace(namespace string) error {
	if namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}

	if strings.Contains(namespace, "_") {
		return fmt.Errorf("namespace cannot contain underscores (the key delimiter)")
	}

	if !namespacePattern.MatchString(namespace) {
		return fmt.Errorf("namespace must be lowercase letters and hyphens, starting and ending with a letter")
	}

	return nil
}

// ValidateKey validates a user cache key
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if len(key) > MaxKeyLength {
		return fmt.Errorf("key length cannot exceed %d characters, got %d", MaxKeyLength, len(key))
	}

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key cannot be only whitespace")
	}

	if controlPattern.MatchString(key) {
		return fmt.Errorf("key cannot contain control characters")
	}

	return nil
}
