package cmd

import (
	"openrate/pkg/number"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRate(t *testing.T) {
	bps, err := parseRate("2.5")
	require.Nil(t, err)
	assert.EqualValues(t, 250, bps)

	for _, rate := range []string{"5%", "abc", "2,5", ""} {
		_, err := parseRate(rate)
		assert.NotNil(t, err, rate)
	}

	_, err = parseRate("2.555")
	assert.Equal(t, number.ErrFractionalUnits, err)
}

func TestParseUnits(t *testing.T) {
	units, err := parseUnits("1.5", 8)
	require.Nil(t, err)
	assert.EqualValues(t, 150000000, units)

	_, err = parseUnits("1,5", 8)
	assert.NotNil(t, err)

	_, err = parseUnits("0.000000001", 8)
	assert.Equal(t, number.ErrFractionalUnits, err)
}
