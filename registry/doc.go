// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package registry owns voter records and the identity checks of the voting
flow.

# Verification Steps

A voter is checked in order before a ballot is accepted:

	v, age, err := reg.VerifyIdentifier(ctx, "V002")        // exists, age >= 18
	ok, err := reg.VerifySecondFactor(ctx, "V002", "fingerprint", payload)
	ok, err := reg.VerifySecondFactor(ctx, "V002", "face", payload) // optional

Age is recomputed from the date of birth on every check. A malformed date
of birth gives age -1 and ErrIneligible.

# Second Factors

Fingerprint and face templates are matched by EqualityMatcher, a plain
string comparison. WithSecondFactor swaps the matcher for one kind.

# Administration

Create, Update, Delete and List manage records. Create rejects an existing
identifier with ErrDuplicateIdentifier. SetVotedFlag and ToggleVotedFlag
override has_voted and require the admin secret.
*/
package registry
