package fault

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestKindOfUnwrapsChains(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("render header: %w", Navigation("restore", errBoom))
	require.True(t, Is(err, KindNavigation))
	require.False(t, Is(err, KindNotFound))
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, "render header: restore: navigation: boom", err.Error())

	require.Equal(t, KindInternal, KindOf(errBoom))
	require.False(t, Is(nil, KindInternal))
}

func TestKindStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusOK, KindNavigation.Status())
	require.Equal(t, http.StatusNotFound, KindNotFound.Status())
	require.Equal(t, http.StatusNotFound, KindMedia.Status())
	require.Equal(t, http.StatusInternalServerError, KindInternal.Status())
}

func TestFromPanic(t *testing.T) {
	t.Parallel()

	require.Nil(t, FromPanic(nil))

	nav := Navigation("dispatch", errBoom)
	require.True(t, Is(FromPanic(nav), KindNavigation))

	require.Equal(t, KindInternal, KindOf(FromPanic("navigation exploded")))
	require.Equal(t, KindInternal, KindOf(FromPanic(42)))
}
