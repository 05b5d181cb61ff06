package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bweide/sensim/internal/daytime"
)

func TestCompareInt32(t *testing.T) {
	threshold := Int32Value(10)
	cases := []struct {
		op   string
		raw  string
		want bool
	}{
		{"<", "5", true},
		{"<", "15", false},
		{"<=", "10", true},
		{">", "15", true},
		{">=", "10", true},
		{"==", "10", true},
		{"!=", "10", false},
	}
	for _, tc := range cases {
		got, err := threshold.Compare(tc.op, tc.raw)
		require.NoError(t, err, "%s %s", tc.raw, tc.op)
		assert.Equal(t, tc.want, got, "%s %s 10", tc.raw, tc.op)
	}

	_, err := threshold.Compare("<", "not-a-number")
	assert.Error(t, err)
	_, err = threshold.Compare("~", "5")
	assert.Error(t, err)
}

func TestCompareFloatBoolString(t *testing.T) {
	got, err := Float32Value(21.5).Compare(">", "22.0")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = BoolValue(true).Compare("==", "true")
	require.NoError(t, err)
	assert.True(t, got)

	// false orders before true.
	got, err = BoolValue(true).Compare("<", "false")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = StringValue("open").Compare("!=", "closed")
	require.NoError(t, err)
	assert.True(t, got)

	_, err = BoolValue(true).Compare("==", "maybe")
	assert.Error(t, err)
}

func TestCompareUplinkRefUnsupported(t *testing.T) {
	_, err := UplinkRefValue("dev", 0).Compare("==", "1")
	assert.ErrorIs(t, err, ErrUnsupportedThreshold)
}

func TestTimeConditionPlainWindow(t *testing.T) {
	c := TimeCondition{SpanStart: daytime.Of(12, 0, 0), SpanEnd: daytime.Of(16, 0, 0)}
	assert.True(t, c.Matches(daytime.Of(15, 0, 0)))
	assert.False(t, c.Matches(daytime.Of(11, 59, 59)))
	assert.False(t, c.Matches(daytime.Of(16, 0, 1)))
	// Strict bounds.
	assert.False(t, c.Matches(daytime.Of(12, 0, 0)))
	assert.False(t, c.Matches(daytime.Of(16, 0, 0)))
}

func TestTimeConditionWrapAround(t *testing.T) {
	c := TimeCondition{SpanStart: daytime.Of(22, 0, 0), SpanEnd: daytime.Of(2, 0, 0)}
	assert.True(t, c.Matches(daytime.Of(23, 30, 0)))
	assert.True(t, c.Matches(daytime.Of(1, 0, 0)))
	assert.False(t, c.Matches(daytime.Of(12, 0, 0)))
}

func TestTimeConditionEmptyWindow(t *testing.T) {
	// start == end leaves all three strict predicates unsatisfiable.
	c := TimeCondition{SpanStart: daytime.Of(8, 0, 0), SpanEnd: daytime.Of(8, 0, 0)}
	for _, probe := range []daytime.Time{
		daytime.Of(8, 0, 0), daytime.Of(7, 0, 0), daytime.Of(9, 0, 0), daytime.Of(0, 0, 0),
	} {
		assert.False(t, c.Matches(probe), "window must match nothing, matched %s", probe)
	}
}

func TestSensorRefs(t *testing.T) {
	r := New("r1", []Condition{
		DeviceCondition{SensorID: "s-a", SensorNumber: 0, Operator: ">", Threshold: Int32Value(1)},
		TimeCondition{SpanStart: daytime.Of(1, 0, 0), SpanEnd: daytime.Of(2, 0, 0)},
		DeviceCondition{SensorID: "s-b", SensorNumber: 3, Operator: "<", Threshold: Int32Value(9)},
	}, []string{"&", "&"}, nil)

	refs := r.SensorRefs()
	require.Len(t, refs, 2)
	assert.Equal(t, SensorRef{ID: "s-a", Number: 0}, refs[0])
	assert.Equal(t, SensorRef{ID: "s-b", Number: 3}, refs[1])
}

func TestFold(t *testing.T) {
	got, err := Fold([]bool{true, false, true}, []string{"^", "^"})
	require.NoError(t, err)
	assert.False(t, got, "(true ^ false) ^ true")

	got, err = Fold([]bool{true, false, true}, []string{"|", "&"})
	require.NoError(t, err)
	assert.True(t, got, "(true | false) & true")

	got, err = Fold([]bool{false, true, true}, []string{"&", "|"})
	require.NoError(t, err)
	assert.True(t, got, "(false & true) | true")

	got, err = Fold(nil, nil)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = Fold([]bool{true, true}, []string{"nand"})
	assert.Error(t, err)

	_, err = Fold([]bool{true, true}, nil)
	assert.Error(t, err)
}
