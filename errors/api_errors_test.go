package errors_test

import (
	goerrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "github.com/shopkit-dev/shopctl/errors"
)

func TestFromStatusClassification(t *testing.T) {
	assert.Equal(t, apperr.KindCredential, apperr.FromStatus("op", 401, "").Kind)
	assert.Equal(t, apperr.KindCredential, apperr.FromStatus("op", 403, "nope").Kind)
	assert.Equal(t, apperr.KindValidation, apperr.FromStatus("op", 422, "bad slug").Kind)
	assert.Equal(t, apperr.KindUnknown, apperr.FromStatus("op", 422, "").Kind)
	assert.Equal(t, apperr.KindUnknown, apperr.FromStatus("op", 500, "boom").Kind)
}

func TestErrorStringPrefersServerMessage(t *testing.T) {
	withMessage := apperr.FromStatus("products.create", 422, "slug already in use")
	assert.Contains(t, withMessage.Error(), "slug already in use")

	statusOnly := apperr.FromStatus("products.create", 500, "")
	assert.Contains(t, statusOnly.Error(), "500")

	network := apperr.Network("products.create", goerrors.New("connection refused"))
	assert.Contains(t, network.Error(), "connection refused")
}

func TestAsAPIErrorUnwrapsThroughWrapping(t *testing.T) {
	inner := apperr.FromStatus("orders.get", 401, "")
	wrapped := fmt.Errorf("loading order: %w", inner)

	apiErr, ok := apperr.AsAPIError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 401, apiErr.Status)
	assert.True(t, apperr.IsCredential(wrapped))
	assert.False(t, apperr.IsCredential(goerrors.New("plain")))
}
