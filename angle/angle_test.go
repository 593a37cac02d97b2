package angle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// rawStep is the size of one raw unit in degrees
const rawStep = 360.0 / turn

func TestToRaw(t *testing.T) {
	testCases := []struct {
		deg float64
		raw uint32
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{180, 0x80000000},
		{90, 0x40000000},
		{-90, 0xC0000000},
		{270, 0xC0000000},
		{45, 0x20000000},
		{-360, 0},
		{360 - rawStep/4, 0},
	}

	for _, tc := range testCases {
		require.Equalf(t, tc.raw, ToRaw(tc.deg), "ToRaw(%v)", tc.deg)
	}
}

func TestFromRaw(t *testing.T) {
	require.Equal(t, 0.0, FromRaw(0))
	require.Equal(t, 180.0, FromRaw(0x80000000))
	require.Equal(t, 270.0, FromRaw(0xC0000000))
	require.Less(t, FromRaw(math.MaxUint32), 360.0)
}

func TestRawRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 0.1, 1.0 / 3, 12.3456789, 89.999, 180.00001, 271.5, 359.9999, -0.25, -123.456, 1000.5} {
		got := FromRaw(ToRaw(deg))
		diff := math.Abs(got - Normalize(deg))
		diff = math.Min(diff, 360-diff)
		require.LessOrEqualf(t, diff, rawStep, "round trip of %v gave %v", deg, got)
	}
}

func TestRawRoundTripIsLossy(t *testing.T) {
	// 0.1 degree is not a multiple of the raw step
	require.NotEqual(t, 0.1, FromRaw(ToRaw(0.1)))
}

func TestNormalize(t *testing.T) {
	require.Equal(t, 0.0, Normalize(360))
	require.Equal(t, 350.0, Normalize(-10))
	require.Equal(t, 10.0, Normalize(730))
	require.Equal(t, 0.0, Normalize(math.NaN()))
	require.Equal(t, 0.0, Normalize(math.Inf(1)))
	n := Normalize(-1e-20)
	require.True(t, n >= 0 && n < 360)
}

func TestFold(t *testing.T) {
	testCases := []struct {
		in, out float64
	}{
		{0, 0},
		{45, 45},
		{90, 90},
		{100, 80},
		{180, 0},
		{270, -90},
		{300, -60},
		{359, -1},
		{-60, -60},
		{-100, -80},
		{460, 80},
	}

	for _, tc := range testCases {
		require.InDeltaf(t, tc.out, Fold(tc.in), 1e-9, "Fold(%v)", tc.in)
	}
}

func TestFoldIdempotentAndBounded(t *testing.T) {
	for deg := -720.0; deg <= 720; deg += 7.25 {
		once := Fold(deg)
		require.GreaterOrEqual(t, once, -90.0)
		require.LessOrEqual(t, once, 90.0)
		require.InDeltaf(t, once, Fold(once), 1e-9, "Fold not idempotent at %v", deg)
	}
}

func TestWrap180(t *testing.T) {
	require.Equal(t, 180.0, Wrap180(180))
	require.Equal(t, -90.0, Wrap180(270))
	require.Equal(t, -10.0, Wrap180(-10))
	require.Equal(t, 10.0, Wrap180(370))
}

func TestSexagesimal(t *testing.T) {
	testCases := []struct {
		name    string
		deg     float64
		d, m, s int
	}{
		{"whole", 10, 10, 0, 0},
		{"half", 10.5, 10, 30, 0},
		{"seconds carry", 10.99987, 11, 0, 0},
		{"minutes carry", 10.9999, 11, 0, 0},
		{"below half second", 10.999861, 10, 59, 59},
		{"second carry only", 20.5 + 59.6/3600, 20, 31, 0},
		{"negative", -33.8675, -33, 52, 3},
		{"negative under one degree", -0.5, 0, 30, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, m, s := Sexagesimal(tc.deg)
			require.Equal(t, []int{tc.d, tc.m, tc.s}, []int{d, m, s})
		})
	}
}

func TestToDMS(t *testing.T) {
	v := ToDMS(-0.5)
	require.Equal(t, DMS{Deg: 0, Min: 30, Sec: 0, Negative: true}, v)
	require.Equal(t, "-0°30'00\"", v.String())
	require.Equal(t, "151°12'36\"", ToDMS(151.21).String())
}

func TestFormatPair(t *testing.T) {
	require.Equal(t, "80000000,40000000", FormatPair(ToRaw(180), ToRaw(90)))
	require.Equal(t, "00000000,0000ABCD", FormatPair(0, 0xabcd))
}

func TestParsePair(t *testing.T) {
	a, b, err := ParsePair([]byte("80000000,C0000000#"))
	require.NoError(t, err)
	require.Equal(t, uint32(0x80000000), a)
	require.Equal(t, uint32(0xC0000000), b)

	a, b, err = ParsePair([]byte("12ab4500,00ff0000#"))
	require.NoError(t, err)
	require.Equal(t, uint32(0x12AB4500), a)
	require.Equal(t, uint32(0x00FF0000), b)

	for _, bad := range []string{"", "80000000,C0000000", "80000000;C0000000#", "8000000G,C0000000#", "80000000,C000000x#"} {
		_, _, err := ParsePair([]byte(bad))
		require.Errorf(t, err, "ParsePair(%q)", bad)
	}
}
