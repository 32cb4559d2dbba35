package chart

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"
	"time"

	"meme-stock-dashboard/lib/helpers"

	"github.com/golang/freetype/truetype"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	// AverageVolume is the baseline of the generated history.
	AverageVolume = 1_000_000
	historyHours  = 24
)

// VolumePoint is one hourly sample of the volume history.
type VolumePoint struct {
	Time    time.Time `json:"time"`
	Volume  float64   `json:"volume"`
	Average float64   `json:"average"`
}

// GenerateVolumeData builds 24 hourly points ending at now, each between
// half and two and a half times the average volume.
func GenerateVolumeData(r *rand.Rand, now time.Time) []VolumePoint {
	points := make([]VolumePoint, 0, historyHours)
	for i := historyHours - 1; i >= 0; i-- {
		volume := AverageVolume * (0.5 + r.Float64()*2)
		points = append(points, VolumePoint{
			Time:    now.Add(-time.Duration(i) * time.Hour),
			Volume:  math.Round(volume),
			Average: AverageVolume,
		})
	}
	return points
}

// LoadFont parses a TrueType font file for chart labels.
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read chart font")
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse chart font")
	}
	return font, nil
}

// Renderer draws volume charts and caches them per ticker.
type Renderer struct {
	font  *truetype.Font
	now   func() time.Time
	cache *expirable.LRU[string, []byte]

	mu   sync.Mutex
	rand *rand.Rand
}

// NewRenderer creates a renderer. font may be nil to use go-chart's default.
func NewRenderer(font *truetype.Font) *Renderer {
	return &Renderer{
		font:  font,
		now:   time.Now,
		cache: newCache(cacheSize, cacheDuration),
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// VolumePNG returns the volume chart for ticker, rendering it on first use.
func (r *Renderer) VolumePNG(ticker string) ([]byte, error) {
	if data, found := r.cache.Get(ticker); found {
		return data, nil
	}

	now := r.now()
	r.mu.Lock()
	points := GenerateVolumeData(r.rand, now)
	r.mu.Unlock()

	data, err := Render(ticker, points, r.font)
	if err != nil {
		return nil, err
	}

	r.cache.Add(ticker, data)
	return data, nil
}

// Render draws the current and average volume lines as a PNG.
func Render(ticker string, points []VolumePoint, font *truetype.Font) ([]byte, error) {
	if len(points) < 2 {
		return nil, errors.New("volume chart needs at least two points")
	}

	times := make([]time.Time, len(points))
	volumes := make([]float64, len(points))
	averages := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Time
		volumes[i] = p.Volume
		averages[i] = p.Average
	}

	red := drawing.ColorFromHex("ef4444")
	gray := drawing.ColorFromHex("6b7280")

	graph := gochart.Chart{
		Title:  fmt.Sprintf("Volume Analysis - %s", ticker),
		Font:   font,
		Width:  1200,
		Height: 400,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeHourValueFormatter,
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return helpers.FormatVolume(f)
				}
				return ""
			},
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Current Volume",
				XValues: times,
				YValues: volumes,
				Style: gochart.Style{
					StrokeColor: red,
					StrokeWidth: 2,
					DotColor:    red,
					DotWidth:    4,
				},
			},
			gochart.TimeSeries{
				Name:    "Average Volume",
				XValues: times,
				YValues: averages,
				Style: gochart.Style{
					StrokeColor:     gray,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	buf := bytes.NewBuffer(nil)
	if err := graph.Render(gochart.PNG, buf); err != nil {
		return nil, errors.Wrapf(err, "render volume chart for %s", ticker)
	}
	return buf.Bytes(), nil
}
