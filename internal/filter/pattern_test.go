package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	t.Run("plain word behaves as a substring match", func(t *testing.T) {
		// Arrange
		p, err := CompilePattern("secret")
		require.NoError(t, err)

		// Assert
		assert.True(t, p.Matches("a secret plan"))
		assert.False(t, p.Matches("nothing to see"))
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		// Arrange
		p, err := CompilePattern("secret")
		require.NoError(t, err)

		// Assert
		assert.True(t, p.Matches("SECRET"))
		assert.True(t, p.Matches("SeCrEt"))
	})

	t.Run("regular expression syntax is honored", func(t *testing.T) {
		// Arrange
		p, err := CompilePattern(`\d{3}-\d{4}`)
		require.NoError(t, err)

		// Assert
		assert.True(t, p.Matches("code 123-4567 here"))
		assert.False(t, p.Matches("12-34"))
	})

	t.Run("empty pattern is rejected", func(t *testing.T) {
		// Act
		_, err := CompilePattern("")

		// Assert
		assert.Error(t, err)
	})

	t.Run("malformed expression is rejected", func(t *testing.T) {
		// Act
		_, err := CompilePattern("[unterminated")

		// Assert
		assert.Error(t, err)
	})

	t.Run("string returns the original expression", func(t *testing.T) {
		// Arrange
		p, err := CompilePattern("abc")
		require.NoError(t, err)

		// Assert
		assert.Equal(t, "abc", p.String())
	})
}

func TestPattern_FindAll(t *testing.T) {
	t.Run("returns byte offsets of every occurrence", func(t *testing.T) {
		// Arrange
		p, err := CompilePattern("ab")
		require.NoError(t, err)

		// Act
		spans := p.FindAll("ab-xx-ab")

		// Assert
		assert.Equal(t, [][]int{{0, 2}, {6, 8}}, spans)
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		// Arrange
		p, err := CompilePattern("zz")
		require.NoError(t, err)

		// Assert
		assert.Nil(t, p.FindAll("ab-xx-ab"))
	})
}

func TestCompilePatterns(t *testing.T) {
	t.Run("fails on the first malformed pattern", func(t *testing.T) {
		// Act
		_, err := CompilePatterns([]string{"fine", "[broken"})

		// Assert
		assert.Error(t, err)
	})

	t.Run("compiles all patterns in order", func(t *testing.T) {
		// Act
		patterns, err := CompilePatterns([]string{"one", "two"})

		// Assert
		require.NoError(t, err)
		require.Len(t, patterns, 2)
		assert.Equal(t, "one", patterns[0].String())
		assert.Equal(t, "two", patterns[1].String())
	})
}

func TestRuneOffset(t *testing.T) {
	// Each kana is 3 bytes, so byte offset 6 is rune offset 2
	assert.Equal(t, 2, runeOffset("あいう", 6))
	assert.Equal(t, 0, runeOffset("abc", 0))
	assert.Equal(t, 3, runeOffset("abc", 3))
}
