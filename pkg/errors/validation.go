package errors

import (
	"strings"
	"unicode"
)

// MaxEntityIDLength bounds entity identifiers accepted from untrusted input.
const MaxEntityIDLength = 256

// ValidateEntityID validates an entity identifier received over the API or
// read from a dataset. It rejects names that cannot be used as cache key
// components or store fields:
//   - No empty IDs
//   - No control characters or null bytes
//   - Maximum length of MaxEntityIDLength bytes
func ValidateEntityID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPartition, "entity id cannot be empty")
	}

	if len(id) > MaxEntityIDLength {
		return New(ErrCodeInvalidPartition, "entity id too long (max %d characters)", MaxEntityIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPartition, "entity id contains invalid control characters")
		}
	}

	return nil
}

// ValidatePartition checks that groups are disjoint and that every entity ID
// is valid. maxGroups > 0 additionally bounds the number of groups, which
// keeps factorial searches affordable.
//
// The ordering core treats these properties as preconditions; this check
// belongs at trust boundaries (HTTP requests, user files).
func ValidatePartition(groups [][]string, maxGroups int) error {
	if maxGroups > 0 && len(groups) > maxGroups {
		return New(ErrCodeTooManyGroups, "partition has %d groups (max %d)", len(groups), maxGroups)
	}

	seen := make(map[string]int)
	for gi, g := range groups {
		for _, id := range g {
			if err := ValidateEntityID(id); err != nil {
				return err
			}
			if prev, ok := seen[id]; ok {
				return New(ErrCodeInvalidPartition, "entity %q appears in groups %d and %d", id, prev, gi)
			}
			seen[id] = gi
		}
	}

	return nil
}

// ValidateOrder checks that order is a permutation of 0..k-1.
func ValidateOrder(order []int, k int) error {
	if len(order) != k {
		return New(ErrCodeInvalidOrder, "order has %d entries, want %d", len(order), k)
	}

	used := make([]bool, k)
	for i, v := range order {
		if v < 0 || v >= k {
			return New(ErrCodeInvalidOrder, "order[%d] = %d out of range [0,%d)", i, v, k)
		}
		if used[v] {
			return New(ErrCodeInvalidOrder, "label %d assigned twice", v)
		}
		used[v] = true
	}

	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(format, a) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
