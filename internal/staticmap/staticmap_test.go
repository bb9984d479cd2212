package staticmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferenceDefault(t *testing.T) {
	got := Reference(51.5074, -0.1278)
	assert.Equal(t,
		"https://staticmap.openstreetmap.de/staticmap.php?center=51.5074,-0.1278&zoom=16&size=800x400&markers=51.5074,-0.1278,red-pushpin",
		got)
	assert.Contains(t, got, "51.5074,-0.1278")
}

func TestReferenceDeterministic(t *testing.T) {
	coords := [][2]float64{{0, 0}, {51.5074, -0.1278}, {-33.8688, 151.2093}, {89.999999, -179.5}}
	for _, c := range coords {
		assert.Equal(t, Reference(c[0], c[1]), Reference(c[0], c[1]))
	}
}

func TestReferenceCustomBuilder(t *testing.T) {
	b := Builder{BaseURL: "http://maps.local/static", Zoom: 12, Size: "640x480"}
	assert.Equal(t,
		"http://maps.local/static?center=1.5,2&zoom=12&size=640x480&markers=1.5,2",
		b.Reference(1.5, 2))
}

func TestFormatCoord(t *testing.T) {
	tests := map[float64]string{
		0:         "0",
		-0.1278:   "-0.1278",
		51.5074:   "51.5074",
		1e-7:      "0.0000001",
		179.99999: "179.99999",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatCoord(in))
	}
}
