package equipment

import "strconv"

// DecomposeID extracts the longest ASCII-letter prefix from id and parses
// the remainder as a decimal integer. The decomposition is valid iff the
// prefix is exactly three characters and is a member of AllowedTypes;
// otherwise it returns ("", 0). Callers treat an invalid decomposition as
// "ignore this message" — DecomposeID never returns an error.
func DecomposeID(id string) (equipmentType string, equipmentID int) {
	i := 0
	for i < len(id) && isASCIILetter(id[i]) {
		i++
	}

	prefix := id[:i]
	if len(prefix) != 3 {
		return "", 0
	}
	if _, ok := AllowedTypes[prefix]; !ok {
		return "", 0
	}

	remainder := id[i:]
	if remainder == "" {
		return "", 0
	}
	n, err := strconv.Atoi(remainder)
	if err != nil {
		return "", 0
	}

	return prefix, n
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
