package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// maxDominantClusters bounds k for the small sampling windows this is used on.
const maxDominantClusters = 3

// DominantExtractor picks the most representative colour of a small image
// region using k-means clustering. Centroids are seeded deterministically so
// the same crop always yields the same colour.
type DominantExtractor struct {
	maxIterations int
	convergence   float64
}

// NewDominantExtractor creates a DominantExtractor with default settings.
func NewDominantExtractor() *DominantExtractor {
	return &DominantExtractor{
		maxIterations: 10,
		convergence:   0.5,
	}
}

// Dominant returns the centroid of the largest colour cluster in img.
func Dominant(img image.Image) (RGB, error) {
	return NewDominantExtractor().Extract(img)
}

// Extract returns the centroid of the largest cluster in img.
func (e *DominantExtractor) Extract(img image.Image) (RGB, error) {
	if img == nil {
		return RGB{}, fmt.Errorf("image cannot be nil")
	}

	points := collectPoints(img)
	if len(points) == 0 {
		return RGB{}, fmt.Errorf("no pixels found in image")
	}

	k := min(maxDominantClusters, len(points))
	centroids, weights := e.kmeans(points, k)

	best := 0
	for i := range weights {
		if weights[i] > weights[best] {
			best = i
		}
	}

	c := centroids[best]
	return RGB{
		R: uint8(math.Round(c.R)),
		G: uint8(math.Round(c.G)),
		B: uint8(math.Round(c.B)),
	}, nil
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// collectPoints reads every non-transparent pixel of img.
func collectPoints(img image.Image) []point3D {
	bounds := img.Bounds()
	points := make([]point3D, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			points = append(points, point3D{R: float64(c.R), G: float64(c.G), B: float64(c.B)})
		}
	}
	return points
}

// kmeans clusters points and returns centroids with their relative weights.
func (e *DominantExtractor) kmeans(points []point3D, k int) ([]point3D, []float64) {
	centroids := seedCentroids(points, k)
	k = len(centroids)
	assignments := make([]int, len(points))

	for range e.maxIterations {
		for i, p := range points {
			assignments[i] = nearestCentroid(p, centroids)
		}

		next := recalculateCentroids(points, assignments, centroids)
		movement := 0.0
		for i := range centroids {
			movement += centroids[i].distance(next[i])
		}
		centroids = next

		if movement/float64(k) < e.convergence {
			break
		}
	}

	for i, p := range points {
		assignments[i] = nearestCentroid(p, centroids)
	}

	weights := make([]float64, k)
	for _, a := range assignments {
		weights[a]++
	}
	for i := range weights {
		weights[i] /= float64(len(points))
	}

	return centroids, weights
}

// seedCentroids uses farthest-point seeding starting from the first pixel.
func seedCentroids(points []point3D, k int) []point3D {
	centroids := []point3D{points[0]}
	for len(centroids) < k {
		farthest, farthestDist := 0, -1.0
		for i, p := range points {
			d := p.distance(centroids[nearestCentroid(p, centroids)])
			if d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		if farthestDist == 0 {
			break
		}
		centroids = append(centroids, points[farthest])
	}
	return centroids
}

// nearestCentroid finds the index of the nearest centroid to a point.
func nearestCentroid(p point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0
	for i, c := range centroids {
		if d := p.distance(c); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// recalculateCentroids averages the points assigned to each cluster.
// Empty clusters keep their previous centroid.
func recalculateCentroids(points []point3D, assignments []int, prev []point3D) []point3D {
	sums := make([]point3D, len(prev))
	counts := make([]int, len(prev))
	for i, p := range points {
		c := assignments[i]
		sums[c].R += p.R
		sums[c].G += p.G
		sums[c].B += p.B
		counts[c]++
	}

	centroids := make([]point3D, len(prev))
	for i := range prev {
		if counts[i] == 0 {
			centroids[i] = prev[i]
			continue
		}
		n := float64(counts[i])
		centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
	}
	return centroids
}
