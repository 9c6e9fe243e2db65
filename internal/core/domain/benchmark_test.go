package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBenchmark(t *testing.T) {
	t.Run("keeps declared order", func(t *testing.T) {
		b, err := NewBenchmark([]BenchmarkEntry{
			{Name: "Joe Parker", Title: "Superintendent"},
			{Name: "Travis Hopkins", Title: "President/Owner"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Joe Parker", "Travis Hopkins"}, b.Names())
		assert.Equal(t, 2, b.Len())
	})

	t.Run("trims names and titles", func(t *testing.T) {
		b, err := NewBenchmark([]BenchmarkEntry{{Name: "  Bo Harris ", Title: " General Manager "}})
		require.NoError(t, err)
		title, ok := b.Title("Bo Harris")
		assert.True(t, ok)
		assert.Equal(t, "General Manager", title)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewBenchmark([]BenchmarkEntry{{Name: "   ", Title: "Owner"}})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		_, err := NewBenchmark([]BenchmarkEntry{
			{Name: "Bo Harris", Title: "GM"},
			{Name: "Bo Harris", Title: "Owner"},
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDefaultBenchmark(t *testing.T) {
	b := DefaultBenchmark()
	assert.Equal(t, 6, b.Len())
	assert.True(t, b.Contains("Katie Brinker"))
	assert.False(t, b.Contains("katie brinker"))

	title, ok := b.Title("Forrest Salts")
	assert.True(t, ok)
	assert.Equal(t, "Assistant Superintendent", title)
}

func TestBenchmark_EntriesIsCopy(t *testing.T) {
	b := DefaultBenchmark()
	entries := b.Entries()
	entries[0].Name = "Mutated"
	assert.Equal(t, "Travis Hopkins", b.Names()[0])
}

func TestBenchmark_Nil(t *testing.T) {
	var b *Benchmark
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Names())
	assert.False(t, b.Contains("Bo Harris"))
}

func TestHealthStatus_Healthy(t *testing.T) {
	assert.True(t, HealthStatus{Status: "healthy"}.Healthy())
	assert.False(t, HealthStatus{Status: "degraded"}.Healthy())
}

func TestContactNames(t *testing.T) {
	names := ContactNames([]Contact{{Name: "A"}, {Name: "B"}})
	assert.Equal(t, []string{"A", "B"}, names)
	assert.Empty(t, ContactNames(nil))
}
