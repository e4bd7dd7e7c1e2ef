// Package geo implements the geographic primitives shared by the
// recommendation engine and the reroute monitor: haversine distance,
// geohash encoding, and a geohash-bucketed index over parking options.
//
// A geohash encodes a lat/lng pair into a short base32 string where
// nearby locations share a common prefix. Precision determines the cell
// size; this project uses precision 6 (~1.2 km cells), which keeps a
// proximity query down to the center cell plus its 8 neighbors.
package geo

import (
	"strings"
)

// base32 is the geohash character set. 'a', 'i', 'l' and 'o' are
// excluded to avoid confusion with digits.
const base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

// Lookup tables for neighbor calculation. The geohash bit stream
// alternates between longitude and latitude, so the adjacent cell in a
// given direction depends on whether the hash length is even or odd.
var (
	base32Map = map[byte]int{}
	neighbors = map[string]map[byte]string{
		"n": {'e': "p0r21436x8zb9dcf5h7kjnmqesgutwvy", 'o': "bc01fg45238967deuvhjyznpkmstqrwx"},
		"s": {'e': "14365h7k9dcfesgujnmqp0r2twvyx8zb", 'o': "238967debc01fg45kmstqrwxuvhjyznp"},
		"e": {'e': "bc01fg45238967deuvhjyznpkmstqrwx", 'o': "p0r21436x8zb9dcf5h7kjnmqesgutwvy"},
		"w": {'e': "238967debc01fg45kmstqrwxuvhjyznp", 'o': "14365h7k9dcfesgujnmqp0r2twvyx8zb"},
	}
	borders = map[string]map[byte]string{
		"n": {'e': "prxz", 'o': "bcfguvyz"},
		"s": {'e': "028b", 'o': "0145hjnp"},
		"e": {'e': "bcfguvyz", 'o': "prxz"},
		"w": {'e': "0145hjnp", 'o': "028b"},
	}
)

func init() {
	for i := 0; i < len(base32); i++ {
		base32Map[base32[i]] = i
	}
}

// Encode converts latitude and longitude to a geohash string with the
// given precision. The algorithm interleaves longitude (even bits) and
// latitude (odd bits), bisecting the coordinate range at each step and
// packing every 5 bits into one base32 character.
func Encode(lat, lng float64, precision int) string {
	if precision <= 0 {
		precision = 6
	}
	if precision > 12 {
		precision = 12
	}

	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0

	var hash strings.Builder
	isEven := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLng + maxLng) / 2
			if lng >= mid {
				ch |= 1 << (4 - bit)
				minLng = mid
			} else {
				maxLng = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isEven = !isEven
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}

// Decode converts a geohash back to the center point of the encoded
// cell by replaying the binary subdivision.
func Decode(hash string) (lat, lng float64) {
	minLat, maxLat := -90.0, 90.0
	minLng, maxLng := -180.0, 180.0
	isEven := true

	for i := 0; i < len(hash); i++ {
		cd, ok := base32Map[hash[i]]
		if !ok {
			continue
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isEven {
				mid := (minLng + maxLng) / 2
				if bit == 1 {
					minLng = mid
				} else {
					maxLng = mid
				}
			} else {
				mid := (minLat + maxLat) / 2
				if bit == 1 {
					minLat = mid
				} else {
					maxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	lat = (minLat + maxLat) / 2
	lng = (minLng + maxLng) / 2
	return
}

// Neighbor returns the geohash of the adjacent cell in the given
// direction ("n", "s", "e", "w"), recursing into the parent hash when
// the last character sits on the border of its parent's cell.
func Neighbor(hash string, direction string) string {
	if len(hash) == 0 {
		return ""
	}

	hash = strings.ToLower(hash)
	lastChar := hash[len(hash)-1]
	parent := hash[:len(hash)-1]

	var t byte = 'e'
	if len(hash)%2 == 0 {
		t = 'o'
	}

	if strings.IndexByte(borders[direction][t], lastChar) >= 0 && len(parent) > 0 {
		parent = Neighbor(parent, direction)
	}

	idx := strings.IndexByte(neighbors[direction][t], lastChar)
	if idx >= 0 {
		return parent + string(base32[idx])
	}

	return hash
}

// AllNeighbors returns the center cell plus its 8 surrounding cells,
// forming the 3x3 grid scanned by proximity queries.
func AllNeighbors(hash string) []string {
	return []string{
		hash,
		Neighbor(hash, "n"),
		Neighbor(hash, "s"),
		Neighbor(hash, "e"),
		Neighbor(hash, "w"),
		Neighbor(Neighbor(hash, "n"), "e"),
		Neighbor(Neighbor(hash, "n"), "w"),
		Neighbor(Neighbor(hash, "s"), "e"),
		Neighbor(Neighbor(hash, "s"), "w"),
	}
}
