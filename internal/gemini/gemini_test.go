package gemini

import (
	"context"
	"testing"

	"github.com/lehigh-university-libraries/ftva-etl/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTextWithoutAPIKey(t *testing.T) {
	_, err := New("").ExtractText(context.Background(), providers.Config{Model: "gemini-1.5-flash", Prompt: "find names"})
	require.Error(t, err)
	assert.Equal(t, "gemini API key not set", err.Error())
}
