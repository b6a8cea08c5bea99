package di_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolypto/apiens/di"
)

func TestInjectFlags(t *testing.T) {
	tests := []struct {
		flags    di.InjectFlags
		expected string
	}{
		{di.Default, "Default"},
		{di.Self, "Self"},
		{di.SkipSelf, "SkipSelf"},
		{di.Optional, "Optional"},
		{di.Self | di.Optional, "Self|Optional"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.flags.String())
	}

	assert.True(t, (di.Self | di.Optional).Has(di.Self))
	assert.False(t, di.Self.Has(di.Optional))
}

func TestResolvable(t *testing.T) {
	t.Run("rejects non-functions", func(t *testing.T) {
		assert.Panics(t, func() { di.NewResolvable(42) })
		assert.Panics(t, func() { di.NewResolvable(nil) })
	})

	t.Run("Kwarg replaces an existing name", func(t *testing.T) {
		r := di.NewResolvable(func(user *tUser) *tUser { return user }).
			Kwarg("user", di.Dep("first")).
			Kwarg("user", di.Dep("second"))

		require.Len(t, r.DepsKw, 1)
		assert.Equal(t, "second", r.DepsKw[0].Token)
	})

	t.Run("Merge unions dependencies", func(t *testing.T) {
		r := di.NewResolvable(func(a, b string) string { return a + b }).
			Kwarg("a", di.Dep("A"))
		other := di.NewResolvable(func(a, b string) string { return a + b }).
			Kwarg("b", di.Dep("B")).
			Depends(di.Dep("side"))

		r.Merge(other)
		require.Len(t, r.DepsKw, 2)
		require.Len(t, r.DepsNopass, 1)
	})

	t.Run("argument count mismatch is an invoke error", func(t *testing.T) {
		root := di.New()
		defer root.Close()

		// Function takes two arguments but only one is supplied.
		_, err := root.ResolveAndInvoke(di.NewResolvable(func(a, b string) string { return a + b }), "only")
		require.Error(t, err)

		var invoke di.InvokeError
		assert.ErrorAs(t, err, &invoke)
	})

	t.Run("argument type mismatch is reported", func(t *testing.T) {
		root := di.New()
		defer root.Close()

		_, err := root.ResolveAndInvoke(di.NewResolvable(func(n int) int { return n }), "not a number")
		require.Error(t, err)

		var mismatch di.TypeMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("panicking constructor becomes an error", func(t *testing.T) {
		root := di.New()
		defer root.Close()

		_, err := root.ResolveAndInvoke(di.NewResolvable(func() string { panic("boom") }))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("no return value yields nil", func(t *testing.T) {
		root := di.New()
		defer root.Close()

		ran := false
		result, err := root.ResolveAndInvoke(di.NewResolvable(func() { ran = true }))
		require.NoError(t, err)
		assert.Nil(t, result)
		assert.True(t, ran)
	})
}

func TestDescribe(t *testing.T) {
	t.Run("describing twice merges", func(t *testing.T) {
		fn := func(a, b string) string { return a + b }

		di.Describe(fn).Kwarg("a", di.Dep("A"))
		di.Describe(fn).Kwarg("b", di.Dep("B"))

		r, ok := di.ResolvableOf(fn)
		require.True(t, ok)
		assert.Len(t, r.DepsKw, 2)
	})

	t.Run("IsResolvable", func(t *testing.T) {
		assert.True(t, di.IsResolvable(di.NewResolvable(func() {})))
		assert.False(t, di.IsResolvable(func(unique int) {}))
	})
}
