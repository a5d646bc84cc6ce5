package analyzer

import (
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// Rec. 601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Images below this many pixels are processed on the calling goroutine.
const parallelPixelThreshold = 100000

// binValues holds 0..255 as float64 for weighted statistics.
var binValues = func() []float64 {
	v := make([]float64, 256)
	for i := range v {
		v[i] = float64(i)
	}
	return v
}()

// metricsCalculator implements MetricsCalculator using strip-parallel
// histogram accumulation and Gonum statistics.
type metricsCalculator struct {
	pool *WorkerPool
}

// NewMetricsCalculator creates a metrics calculator backed by a worker pool
// of runtime.NumCPU() workers.
func NewMetricsCalculator() MetricsCalculator {
	pool := NewWorkerPool(0)
	pool.Start()
	return &metricsCalculator{pool: pool}
}

// Close stops the underlying worker pool.
func (mc *metricsCalculator) Close() {
	mc.pool.Close()
}

// Calculate builds channel and luminance histograms for img and reduces them
// to ImageMetrics.
func (mc *metricsCalculator) Calculate(img image.Image, format string) models.ImageMetrics {
	format = strings.ToLower(format)
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	m := models.ImageMetrics{
		Width:      width,
		Height:     height,
		PixelCount: width * height,
		Format:     format,
	}
	if width == 0 || height == 0 {
		return m
	}
	m.AspectRatio = float64(width) / float64(height)

	hist := mc.accumulate(img, bounds)

	m.Grayscale = !hist.colored

	var total float64
	for c := 0; c < 3; c++ {
		m.ChannelVariance[c] = histogramVariance(hist.channels[c][:], hist.pixelCount)
		total += m.ChannelVariance[c]
	}
	m.ColorVariance = total / 3
	m.Entropy = NormalizedEntropy(hist.luminance[:], hist.pixelCount)

	return m
}

// accumulate splits the image into horizontal strips and merges their
// histograms.
func (mc *metricsCalculator) accumulate(img image.Image, bounds image.Rectangle) *histograms {
	height := bounds.Dy()
	if bounds.Dx()*height < parallelPixelThreshold {
		h := &histograms{}
		scanStrip(img, bounds.Min.X, bounds.Max.X, bounds.Min.Y, bounds.Max.Y, h)
		return h
	}

	numWorkers := mc.pool.Size()
	if height < numWorkers {
		numWorkers = height
	}
	rowsPerWorker := (height + numWorkers - 1) / numWorkers // ceil division

	parts := make([]*histograms, numWorkers)
	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := bounds.Min.Y + i*rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > bounds.Max.Y {
			endY = bounds.Max.Y
		}
		part := &histograms{}
		parts[i] = part
		if startY >= endY {
			continue
		}
		wg.Add(1)
		mc.pool.Submit(func() {
			defer wg.Done()
			scanStrip(img, bounds.Min.X, bounds.Max.X, startY, endY, part)
		})
	}
	wg.Wait()

	total := &histograms{}
	for _, p := range parts {
		total.merge(p)
	}
	return total
}

// scanStrip accumulates rows [startY, endY) into h. Channels are read
// un-premultiplied so transparent regions do not skew the statistics.
func scanStrip(img image.Image, minX, maxX, startY, endY int, h *histograms) {
	if gray, ok := img.(*image.Gray); ok {
		for y := startY; y < endY; y++ {
			for x := minX; x < maxX; x++ {
				v := gray.GrayAt(x, y).Y
				h.channels[0][v]++
				h.channels[1][v]++
				h.channels[2][v]++
				h.luminance[v]++
				h.pixelCount++
			}
		}
		return
	}

	for y := startY; y < endY; y++ {
		for x := minX; x < maxX; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			h.channels[0][c.R]++
			h.channels[1][c.G]++
			h.channels[2][c.B]++
			h.luminance[luminanceBin(c.R, c.G, c.B)]++
			if c.R != c.G || c.G != c.B {
				h.colored = true
			}
			h.pixelCount++
		}
	}
}

func luminanceBin(r, g, b uint8) uint8 {
	l := math.Round(lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b))
	if l > 255 {
		l = 255
	}
	return uint8(l)
}

// histogramVariance is the sample variance of the values represented by a
// 256-bin histogram.
func histogramVariance(hist []uint64, n int) float64 {
	if n < 2 {
		return 0
	}
	weights := make([]float64, len(hist))
	for i, c := range hist {
		weights[i] = float64(c)
	}
	v := stat.Variance(binValues, weights)
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// NormalizedEntropy is the Shannon entropy (bits) of a 256-bin histogram
// divided by 8, the maximum for 256 bins.
func NormalizedEntropy(hist []uint64, n int) float64 {
	if n == 0 {
		return 0
	}
	p := make([]float64, len(hist))
	for i, c := range hist {
		p[i] = float64(c) / float64(n)
	}
	// stat.Entropy uses the natural logarithm.
	return stat.Entropy(p) / math.Ln2 / 8
}
