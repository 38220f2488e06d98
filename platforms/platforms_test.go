package platforms_test

import (
	"testing"

	"github.com/dargueta/framepack"
	"github.com/dargueta/framepack/platforms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup__Presets(t *testing.T) {
	aplite, err := platforms.Lookup("aplite")
	require.NoError(t, err)
	assert.Equal(t, 128000, aplite.MaxFileSizeBytes)
	assert.Equal(t, 0.12, aplite.SplitThresholdTarget)
	assert.Equal(t, 144, aplite.FrameWidth)
	assert.Equal(t, 108, aplite.FrameHeight)

	def, err := platforms.Lookup("default")
	require.NoError(t, err)
	assert.Equal(t, 256000, def.MaxFileSizeBytes)
	assert.Equal(t, 0.015, def.SplitThresholdTarget)
	assert.Equal(t, def, platforms.Default())
}

func TestLookup__EmptyNameIsDefault(t *testing.T) {
	profile, err := platforms.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, platforms.DefaultName, profile.Name)
}

func TestLookup__CaseInsensitive(t *testing.T) {
	profile, err := platforms.Lookup("APLITE")
	require.NoError(t, err)
	assert.Equal(t, "aplite", profile.Name)
}

func TestLookup__Unknown(t *testing.T) {
	_, err := platforms.Lookup("gameboy")
	assert.ErrorIs(t, err, framepack.ErrInvalidProfile)
}

func TestAll__Sorted(t *testing.T) {
	all := platforms.All()
	require.Len(t, all, 2)
	assert.Equal(t, "aplite", all[0].Name)
	assert.Equal(t, "default", all[1].Name)
}

func TestParseTable__Errors(t *testing.T) {
	header := "name|max_file_size_bytes|split_threshold_target|frame_width|frame_height|notes\n"

	_, err := platforms.ParseTable(header + "a|10|0.1|1|1|\na|20|0.1|1|1|\n")
	assert.ErrorContains(t, err, "duplicate")

	_, err = platforms.ParseTable(header + "a|10|0.7|1|1|\n")
	assert.ErrorIs(t, err, framepack.ErrInvalidProfile)

	table, err := platforms.ParseTable(header + "tiny|64|0.2|16|16|test\n")
	require.NoError(t, err)
	assert.Equal(t, 64, table["tiny"].MaxFileSizeBytes)
}
