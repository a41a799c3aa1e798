package obs

import (
	"context"
	"testing"

	"trainer-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), utils.TracingConfig{}, "trainer-booking")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
