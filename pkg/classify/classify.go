// Package classify recovers replicate groups from input filenames and
// validates their completeness before any image is decoded.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"chromaprof/internal/models"
)

// GroupKeys extracts the distinct group keys appearing in filenames that
// contain the pattern <identifier>_<key>_R<digits>. Matching is
// substring-anchored: extensions and surrounding text are ignored. The keys
// are returned in ascending numeric order so group processing is
// deterministic.
func GroupKeys(filenames []string, identifier string) []int {
	pattern := regexp.MustCompile(regexp.QuoteMeta(identifier) + `_(\d+)_R\d+`)

	seen := make(map[int]bool)
	for _, name := range filenames {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		key, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		seen[key] = true
	}

	keys := make([]int, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// ReplicateFiles returns the filenames belonging to a group, in listing
// order. A filename belongs when it contains the substring
// <identifier>_<key>_R; the replicate digit is not inspected further, so the
// count can include files like ..._R10 (see ValidateReplicates).
func ReplicateFiles(filenames []string, identifier string, key int) []string {
	prefix := replicatePrefix(identifier, key)
	var matches []string
	for _, name := range filenames {
		if strings.Contains(name, prefix) {
			matches = append(matches, name)
		}
	}
	return matches
}

// ValidateReplicates confirms that every group key has exactly
// models.ReplicatesPerGroup matching filenames. Any deviation is an error
// that aborts the whole run before processing starts.
//
// This is a coarse substring count: it does not verify that the matches are
// replicate indices 1, 2 and 3 specifically. A set like {R1, R1, R2} passes.
// The loose semantics match the replicate loader, which selects files by the
// same substring.
func ValidateReplicates(filenames []string, keys []int, identifier string) error {
	for _, key := range keys {
		count := len(ReplicateFiles(filenames, identifier, key))
		if count != models.ReplicatesPerGroup {
			return fmt.Errorf("group %d does not have exactly %d replicates (found %d)",
				key, models.ReplicatesPerGroup, count)
		}
	}
	return nil
}

func replicatePrefix(identifier string, key int) string {
	return fmt.Sprintf("%s_%d_R", identifier, key)
}
