package framepack

import "strings"

// PreprocessFlags selects the transforms a loader applies to decoded images
// before they become [Frame]s.
type PreprocessFlags uint

const (
	// Binarize reduces every sample to 0 or 1 using the loader's cutoff.
	Binarize PreprocessFlags = 1 << iota
	// Delta replaces each binarized frame with its XOR against the previous
	// binarized frame. Implies Binarize. The first frame is compared against an
	// all-black frame, so it comes out unchanged rather than blank (which is
	// what packers seeding the comparison with frame 0 produce).
	Delta
	// Invert swaps black and white after all other transforms.
	Invert
)

const NoPreprocessing PreprocessFlags = 0

// Has reports whether all bits of `other` are set.
func (f PreprocessFlags) Has(other PreprocessFlags) bool {
	return f&other == other
}

func (f PreprocessFlags) String() string {
	if f == NoPreprocessing {
		return "none"
	}

	var names []string
	if f.Has(Binarize) {
		names = append(names, "binarize")
	}
	if f.Has(Delta) {
		names = append(names, "delta")
	}
	if f.Has(Invert) {
		names = append(names, "invert")
	}
	return strings.Join(names, "|")
}
