// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "github.com/danielhkuo/smart-voting/models"

// SecondFactor decides whether a submitted payload matches the template
// stored on the voter record. Real matchers can replace the placeholder
// without touching the voting flow.
type SecondFactor interface {
	Match(stored, payload string) bool
}

// EqualityMatcher is the placeholder matcher: exact string equality,
// no normalization or hashing.
type EqualityMatcher struct{}

func (EqualityMatcher) Match(stored, payload string) bool {
	return stored == payload
}

// template returns the stored template for a factor kind
func template(v models.Voter, kind string) (string, bool) {
	switch kind {
	case models.FactorFingerprint:
		return v.Fingerprint, true
	case models.FactorFace:
		return v.FaceData, true
	}
	return "", false
}
