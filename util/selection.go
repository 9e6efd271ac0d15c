package util

import "github.com/vuzon/vuzon/types"

// SelectDestination decides which destination address a picker should
// pre-select. It scans in order, remembering the first verified email as the
// fallback and stopping early when the previously selected value is found on
// a verified row. Entries without an email are skipped entirely. An
// unverified address is never selected; when nothing is verified the
// selection is empty and hasEnabled is false so the caller can disable
// alias creation.
func SelectDestination(items []types.DestinationAddress, previous string) (selected string, hasEnabled bool) {
	firstEnabled := ""
	preserved := ""

	for _, item := range items {
		if item.Email == "" {
			continue
		}
		verified := item.Verified.Verified()
		if verified && firstEnabled == "" {
			firstEnabled = item.Email
		}
		if preserved == "" && verified && item.Email == previous {
			preserved = item.Email
			break
		}
	}

	selected = preserved
	if selected == "" {
		selected = firstEnabled
	}
	return selected, firstEnabled != ""
}
