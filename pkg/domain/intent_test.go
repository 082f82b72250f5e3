package domain_test

import (
	"testing"

	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		token string
		want  domain.Intent
		err   bool
	}{
		{"SPACE", domain.NoEntity{}, false},
		{"POLYANET", domain.SimpleEntity{Route: domain.RoutePolyanets}, false},
		{"UP_COMETH", domain.AttributedEntity{Route: domain.RouteComeths, Attribute: domain.AttributeDirection, Value: "up"}, false},
		{"LEFT_COMETH", domain.AttributedEntity{Route: domain.RouteComeths, Attribute: domain.AttributeDirection, Value: "left"}, false},
		{"RED_SOLOON", domain.AttributedEntity{Route: domain.RouteSoloons, Attribute: domain.AttributeColor, Value: "red"}, false},
		{"PURPLE_SOLOON", domain.AttributedEntity{Route: domain.RouteSoloons, Attribute: domain.AttributeColor, Value: "purple"}, false},
		{"SIDEWAYS_COMETH", domain.NoEntity{}, true},
		{"RED_COMETH", domain.NoEntity{}, true},
		{"UP_SOLOON", domain.NoEntity{}, true},
		{"FOO_BAR", domain.NoEntity{}, true},
		{"LEFT_UP_COMETH", domain.NoEntity{}, true},
		{"UP_cometh", domain.NoEntity{}, true},
		{"BLACKHOLE", domain.NoEntity{}, true},
		{"", domain.NoEntity{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := domain.ParseToken(tt.token)
			assert.Equal(t, tt.want, got)
			if tt.err {
				assert.ErrorIs(t, err, domain.ErrUnrecognizedContent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseToken_LowercasesAttribute(t *testing.T) {
	got, err := domain.ParseToken("White_SOLOON")
	assert.NoError(t, err)
	assert.Equal(t, domain.AttributedEntity{Route: domain.RouteSoloons, Attribute: domain.AttributeColor, Value: "white"}, got)
}

func TestToken_RoundTrip(t *testing.T) {
	for _, token := range []string{"SPACE", "POLYANET", "DOWN_COMETH", "BLUE_SOLOON"} {
		intent, err := domain.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, token, domain.Token(intent))
	}
}

func TestAttributeKind_Accepts(t *testing.T) {
	assert.True(t, domain.AttributeDirection.Accepts("right"))
	assert.False(t, domain.AttributeDirection.Accepts("blue"))
	assert.True(t, domain.AttributeColor.Accepts("blue"))
	assert.False(t, domain.AttributeKind("size").Accepts("big"))
}
