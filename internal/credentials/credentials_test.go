package credentials

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestDescriptor_SingleRequiredProperty(t *testing.T) {
	require.Len(t, InfuraAPI.Properties, 1)

	p := InfuraAPI.Properties[0]
	assert.Equal(t, "projectId", p.Name)
	assert.Equal(t, TypeString, p.Type)
	assert.True(t, p.Required)
	assert.Empty(t, p.Default)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, New("").Validate(), ErrMissingProjectID)
	assert.ErrorIs(t, New("   ").Validate(), ErrMissingProjectID)
	assert.NoError(t, New(secret).Validate())
	// presence is the only check
	assert.NoError(t, New("not/a-real id").Validate())
}

func TestCredentials_NeverRendered(t *testing.T) {
	c := New(secret)

	assert.NotContains(t, c.String(), secret)
	assert.NotContains(t, fmt.Sprintf("%v %+v %#v %s", c, c, c, c), secret)

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(b), secret)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Info().Object("credentials", c).Msg("configured")
	assert.NotContains(t, buf.String(), secret)
	assert.Contains(t, buf.String(), `"projectIdSet":true`)
}

func TestRedact(t *testing.T) {
	c := New(secret)
	assert.Equal(t, "https://mainnet.infura.io/v3/[REDACTED]", c.Redact("https://mainnet.infura.io/v3/"+secret))
	assert.Equal(t, "unchanged", New("").Redact("unchanged"))
}
