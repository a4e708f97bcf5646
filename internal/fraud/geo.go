package fraud

import (
	"hash/fnv"
	"strings"
)

// maxPseudoDistance bounds the stand-in distance in abstract units.
const maxPseudoDistance = 500

// PseudoDistance is the default DistanceFunc: a deterministic stand-in for
// real geocoordinate distance. Identical (case- and space-insensitive)
// strings yield 0; distinct strings yield a stable, symmetric value in
// (0, 500]. Replace with haversine over geocoded coordinates once real
// location data is available.
func PseudoDistance(a, b string) float64 {
	na := normalizeLocation(a)
	nb := normalizeLocation(b)
	if na == "" || nb == "" || na == nb {
		return 0
	}

	// Order the pair so distance(a, b) == distance(b, a).
	if na > nb {
		na, nb = nb, na
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(na))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(nb))

	return float64(h.Sum64()%maxPseudoDistance) + 1
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
