package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	t.Run("typed errors keep their kind through wrapping", func(t *testing.T) {
		base := New(NotFound, "role not found")
		wrapped := fmt.Errorf("load role: %w", base)

		require.Equal(t, NotFound, KindOf(wrapped))
		require.ErrorIs(t, wrapped, base)
	})

	t.Run("untyped errors are internal", func(t *testing.T) {
		require.Equal(t, Internal, KindOf(errors.New("boom")))
		require.Equal(t, "internal error", MessageOf(errors.New("secret detail")))
	})

	t.Run("nil has no kind", func(t *testing.T) {
		require.Equal(t, Kind(""), KindOf(nil))
	})
}

func TestPrecondition(t *testing.T) {
	t.Parallel()

	err := Precondition("expired", "invitation has expired")
	require.Equal(t, FailedPrecondition, KindOf(err))
	require.Equal(t, "expired", ReasonOf(err))
	require.Equal(t, "failed-precondition(expired): invitation has expired", err.Error())
}

func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	cases := map[Kind]int{
		InvalidArgument:    http.StatusBadRequest,
		NotFound:           http.StatusNotFound,
		FailedPrecondition: http.StatusPreconditionFailed,
		AlreadyExists:      http.StatusConflict,
		Unauthenticated:    http.StatusUnauthorized,
		PermissionDenied:   http.StatusForbidden,
		Internal:           http.StatusInternalServerError,
	}
	for kind, status := range cases {
		require.Equal(t, status, kind.HTTPStatus(), kind)
	}
}
