package mixer

// RouteMap is the input-track x output-channel boolean routing matrix
// (Downmix in the original design). Default construction routes track i to
// channel i for i < numChannels and nothing elsewhere.
type RouteMap struct {
	numTracks   int
	maxChannels int
	numChannels int
	m           [][]bool
}

// NewRouteMap allocates a RouteMap for numTracks inputs and up to
// maxChannels output channels, with the default identity-diagonal routing.
func NewRouteMap(numTracks, maxChannels int) *RouteMap {
	assertf(numTracks >= 0 && maxChannels >= 0, "NewRouteMap: negative dimension")
	n := numTracks
	if n > maxChannels {
		n = maxChannels
	}
	rm := &RouteMap{numTracks: numTracks, maxChannels: maxChannels, numChannels: n}
	rm.m = make([][]bool, numTracks)
	for i := range rm.m {
		rm.m[i] = make([]bool, maxChannels)
		if i < n {
			rm.m[i][i] = true
		}
	}
	return rm
}

func (rm *RouteMap) NumTracks() int   { return rm.numTracks }
func (rm *RouteMap) MaxChannels() int { return rm.maxChannels }
func (rm *RouteMap) NumChannels() int { return rm.numChannels }

// Get reports whether track feeds channel.
func (rm *RouteMap) Get(track, channel int) bool { return rm.m[track][channel] }

// Set assigns whether track feeds channel.
func (rm *RouteMap) Set(track, channel int, route bool) { rm.m[track][channel] = route }

// SetNumChannels changes the active channel count. Columns leaving the
// active range are zeroed; columns entering it start zeroed. Returns false
// (leaving the map unchanged) if n exceeds MaxChannels.
func (rm *RouteMap) SetNumChannels(n int) bool {
	if n > rm.maxChannels || n < 0 {
		return false
	}
	if n == rm.numChannels {
		return true
	}
	lo, hi := rm.numChannels, n
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := 0; i < rm.numTracks; i++ {
		for j := lo; j < hi; j++ {
			rm.m[i][j] = false
		}
	}
	rm.numChannels = n
	return true
}

// Clone returns a deep copy.
func (rm *RouteMap) Clone() *RouteMap {
	cp := &RouteMap{numTracks: rm.numTracks, maxChannels: rm.maxChannels, numChannels: rm.numChannels}
	cp.m = make([][]bool, rm.numTracks)
	for i, row := range rm.m {
		cp.m[i] = append([]bool(nil), row...)
	}
	return cp
}
