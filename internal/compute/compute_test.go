package compute

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrime(t *testing.T) {
	primes := []int{2, 3, 5, 7, 11, 13, 97, 7919}
	for _, p := range primes {
		assert.True(t, IsPrime(p), "%d should be prime", p)
	}
	composites := []int{-7, 0, 1, 4, 9, 15, 25, 49, 7917}
	for _, c := range composites {
		assert.False(t, IsPrime(c), "%d should not be prime", c)
	}
}

func TestPrimeSum(t *testing.T) {
	tests := []struct {
		count int
		want  int64
	}{
		{count: -1, want: 0},
		{count: 0, want: 0},
		{count: 1, want: 2},
		{count: 5, want: 28},
		{count: 10, want: 129},
		{count: 100, want: 24133},
	}
	for _, tt := range tests {
		got, err := PrimeSum(tt.count)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "PrimeSum(%d)", tt.count)
	}

	_, err := PrimeSum(MaxPrimeCount + 1)
	assert.ErrorIs(t, err, ErrTooManyPrimes)
}

func TestArithmetic(t *testing.T) {
	sum, err := Add(2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)

	diff, err := Subtract(2, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(-3), diff)

	prod, err := Multiply(-4, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(-24), prod)

	quot, err := Divide(7, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, quot, 1e-9)

	_, err = Divide(1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestArithmeticOverflow(t *testing.T) {
	_, err := Add(math.MaxInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = Subtract(math.MinInt64, 1)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = Multiply(math.MaxInt64, 2)
	assert.ErrorIs(t, err, ErrOverflow)
	_, err = Multiply(-1, math.MinInt64)
	assert.ErrorIs(t, err, ErrOverflow)

	v, err := Multiply(0, math.MinInt64)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestStudents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "1001", "first_name": "Ann", "pref": "Chicken", "programme": "Computer Science (Major)"},
		{"id": "1002", "first_name": "Ben", "pref": "Fish", "programme": "Computer Science (Major)"},
		{"id": "1003", "first_name": "Cat", "pref": "Chicken", "programme": "Information Technology (Special)"},
		{"id": 1004, "first_name": "Dan"}
	]`), 0o600))

	students, err := LoadStudents(path)
	require.NoError(t, err)
	require.Len(t, students, 4)

	s, ok := students.Find("1002")
	require.True(t, ok)
	assert.Equal(t, "Ben", s["first_name"])

	s, ok = students.Find("1004")
	require.True(t, ok)
	assert.Equal(t, "Dan", s["first_name"])

	_, ok = students.Find("9999")
	assert.False(t, ok)

	stats := students.Stats()
	assert.Equal(t, map[string]int{"Chicken": 2, "Fish": 1, "null": 1}, stats.PreferenceCounts)
	assert.Equal(t, map[string]int{
		"Computer Science (Major)":         2,
		"Information Technology (Special)": 1,
		"null":                             1,
	}, stats.ProgrammeCounts)
}

func TestLoadStudents_Errors(t *testing.T) {
	_, err := LoadStudents(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "a list"}`), 0o600))
	_, err = LoadStudents(path)
	assert.Error(t, err)
}
