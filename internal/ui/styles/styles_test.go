package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNoColorRendersPlain(t *testing.T) {
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })

	require.True(t, NoColor())
	require.Equal(t, "name", Render(HeaderStyle, "name"))
	require.Equal(t, "^", SortArrow(false))
	require.Equal(t, "v", SortArrow(true))
	require.Equal(t, "+ saved", SuccessMsg("saved"))
	require.Equal(t, "Error: boom", ErrorMsg("boom"))
}

func TestIndent(t *testing.T) {
	t.Parallel()

	require.Equal(t, "  a\n\n  b", Indent("a\n\nb", 2))
}
