package renderer

import (
	"hash/fnv"
	"strconv"
)

// Random returns a value in [0,1) derived only from seed.
// Same seed, same value, on every machine and every render.
func Random(seed string) float64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	x := splitmix64(h.Sum64())
	return float64(x>>11) / float64(uint64(1)<<53)
}

// RandomIndexed is Random for the index-th element of a seeded family
func RandomIndexed(seed string, index int) float64 {
	return Random(seed + "#" + strconv.Itoa(index))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
