// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "time"

// Month and day may be written with or without a leading zero.
const dobLayout = "2006-1-2"

// Age returns the age in whole years on today's date for a YYYY-MM-DD date
// of birth (YYYY-M-D also accepted). Malformed dates return -1.
func Age(dob string, today time.Time) int {
	born, err := time.Parse(dobLayout, dob)
	if err != nil {
		return -1
	}

	y, m, d := today.Date()
	age := y - born.Year()
	if m < born.Month() || (m == born.Month() && d < born.Day()) {
		age--
	}
	return age
}
