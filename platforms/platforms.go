package platforms

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/dargueta/framepack"
	"github.com/gocarina/gocsv"
)

// DefaultName is the profile used when no platform is named.
const DefaultName = "default"

// Platform is one row of the preset table.
type Platform struct {
	Name                 string  `csv:"name"`
	MaxFileSizeBytes     int     `csv:"max_file_size_bytes"`
	SplitThresholdTarget float64 `csv:"split_threshold_target"`
	// FrameWidth and FrameHeight are the size of the player's drawing area, not
	// the whole screen.
	FrameWidth  int    `csv:"frame_width"`
	FrameHeight int    `csv:"frame_height"`
	Notes       string `csv:"notes"`
}

// Profile converts the row into the encoder's profile type.
func (p Platform) Profile() framepack.PlatformProfile {
	return framepack.PlatformProfile{
		Name:                 p.Name,
		MaxFileSizeBytes:     p.MaxFileSizeBytes,
		SplitThresholdTarget: p.SplitThresholdTarget,
		FrameWidth:           p.FrameWidth,
		FrameHeight:          p.FrameHeight,
	}
}

////////////////////////////////////////////////////////////////////////////////

//go:embed platforms.csv
var platformsRawCSV string
var platforms map[string]Platform

// Lookup returns the preset profile named `name`. An empty name selects
// [DefaultName].
func Lookup(name string) (framepack.PlatformProfile, error) {
	if name == "" {
		name = DefaultName
	}
	platform, ok := platforms[strings.ToLower(name)]
	if ok {
		return platform.Profile(), nil
	}

	return framepack.PlatformProfile{}, framepack.ErrInvalidProfile.WithMessage(
		fmt.Sprintf("no predefined platform exists with name %q", name))
}

// Default returns the profile for [DefaultName].
func Default() framepack.PlatformProfile {
	return platforms[DefaultName].Profile()
}

// All returns every preset, sorted by name.
func All() []Platform {
	result := make([]Platform, 0, len(platforms))
	for _, platform := range platforms {
		result = append(result, platform)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ParseTable reads a '|'-delimited preset table with the same columns as the
// embedded one.
func ParseTable(rawCSV string) (map[string]Platform, error) {
	csvReader := csv.NewReader(strings.NewReader(rawCSV))
	csvReader.Comma = '|'

	var rows []Platform
	if err := gocsv.UnmarshalCSV(csvReader, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode platform table: %w", err)
	}

	table := make(map[string]Platform, len(rows))
	for i, row := range rows {
		if _, exists := table[row.Name]; exists {
			return nil, fmt.Errorf(
				"duplicate definition for platform %q found on row %d", row.Name, i+1)
		}
		if err := row.Profile().Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		table[row.Name] = row
	}
	return table, nil
}

func init() {
	table, err := ParseTable(platformsRawCSV)
	if err != nil {
		panic(err)
	}
	if _, ok := table[DefaultName]; !ok {
		panic(fmt.Errorf("platform table has no %q row", DefaultName))
	}
	platforms = table
}
