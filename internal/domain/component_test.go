package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComponent_EveryVariantHasMatchingDefaults(t *testing.T) {
	for i, typ := range ComponentTypes {
		c, err := NewComponent(typ, i)
		require.NoError(t, err, typ)
		assert.Equal(t, typ, c.Type)
		assert.Equal(t, i, c.Order)
		assert.True(t, c.IsVisible)
		assert.NotEmpty(t, c.ID)
		require.NotNil(t, c.Content)
		assert.Equal(t, typ, c.Content.ComponentType())
	}
}

func TestNewComponent_UnknownType(t *testing.T) {
	_, err := NewComponent(ComponentType("carousel"), 0)
	assert.True(t, errors.Is(err, ErrUnknownComponentType))
}

func TestNewComponent_IDHasTimestampAndSuffix(t *testing.T) {
	c, err := NewComponent(ComponentHero, 0)
	require.NoError(t, err)
	parts := strings.SplitN(c.ID, "-", 2)
	require.Len(t, parts, 2)
	assert.NotEmpty(t, parts[0])
	assert.Len(t, parts[1], 9)

	other, _ := NewComponent(ComponentHero, 0)
	assert.NotEqual(t, c.ID, other.ID)
}

func TestComponentPalette_CoversAllTypes(t *testing.T) {
	palette := ComponentPalette()
	require.Len(t, palette, len(ComponentTypes))
	for i, item := range palette {
		assert.Equal(t, ComponentTypes[i], item.Type)
		assert.NotEmpty(t, item.Label)
	}
}

func TestComponent_JSONRoundTripKeepsVariant(t *testing.T) {
	c, err := NewComponent(ComponentPricing, 2)
	require.NoError(t, err)
	c.Styles.BackgroundColor = "#000000"

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded Component
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, c, decoded)
	_, ok := decoded.Content.(PricingContent)
	assert.True(t, ok)
}

func TestComponent_UnmarshalRejectsForeignContent(t *testing.T) {
	raw := `{"id":"x","type":"spacer","order":0,"isVisible":true,"styles":{},"content":{"title":"Hi","buttonText":"Go"}}`
	var c Component
	err := json.Unmarshal([]byte(raw), &c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContentMismatch))
}

func TestComponent_UnmarshalRejectsUnknownType(t *testing.T) {
	raw := `{"id":"x","type":"marquee","order":0,"content":{}}`
	var c Component
	err := json.Unmarshal([]byte(raw), &c)
	assert.True(t, errors.Is(err, ErrUnknownComponentType))
}

func TestComponent_UnmarshalDefaultsMissingVisibilityAndContent(t *testing.T) {
	raw := `{"id":"x","type":"text","order":3}`
	var c Component
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.True(t, c.IsVisible)
	text, ok := c.Content.(TextContent)
	require.True(t, ok)
	assert.Equal(t, "left", text.Alignment)
}

func TestParseComponentType(t *testing.T) {
	typ, err := ParseComponentType(" Hero ")
	require.NoError(t, err)
	assert.Equal(t, ComponentHero, typ)

	_, err = ParseComponentType("banner")
	assert.True(t, errors.Is(err, ErrUnknownComponentType))
}

func TestComponent_CloneIsDeep(t *testing.T) {
	c, err := NewComponent(ComponentServices, 0)
	require.NoError(t, err)
	cp := c.Clone()

	svc := cp.Content.(ServicesContent)
	svc.Items[0].Name = "changed"

	assert.NotEqual(t, "changed", c.Content.(ServicesContent).Items[0].Name)
}
