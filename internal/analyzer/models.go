package analyzer

// histograms holds per-strip pixel counts; strips are merged after the
// parallel pass.
type histograms struct {
	channels   [3][256]uint64
	luminance  [256]uint64
	pixelCount int
	colored    bool
}

func (h *histograms) merge(o *histograms) {
	for c := 0; c < 3; c++ {
		for i := 0; i < 256; i++ {
			h.channels[c][i] += o.channels[c][i]
		}
	}
	for i := 0; i < 256; i++ {
		h.luminance[i] += o.luminance[i]
	}
	h.pixelCount += o.pixelCount
	h.colored = h.colored || o.colored
}
