package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_Validate(t *testing.T) {
	t.Run("Rectangular", func(t *testing.T) {
		g := domain.Grid{{"SPACE", "POLYANET"}, {"SPACE", "SPACE"}}
		assert.NoError(t, g.Validate())
		assert.Equal(t, 2, g.Rows())
		assert.Equal(t, 2, g.Columns())
	})

	t.Run("Empty", func(t *testing.T) {
		assert.ErrorIs(t, domain.Grid{}.Validate(), domain.ErrInvalidGrid)
		assert.ErrorIs(t, domain.Grid(nil).Validate(), domain.ErrInvalidGrid)
	})

	t.Run("Zero Width", func(t *testing.T) {
		assert.ErrorIs(t, domain.Grid{{}}.Validate(), domain.ErrInvalidGrid)
	})

	t.Run("Ragged", func(t *testing.T) {
		g := domain.Grid{{"SPACE", "SPACE"}, {"SPACE"}}
		assert.ErrorIs(t, g.Validate(), domain.ErrInvalidGrid)
	})
}

func TestGrid_CellsRowMajor(t *testing.T) {
	g := domain.NewGrid(2, 3)
	cells := g.Cells()
	require.Len(t, cells, 6)
	assert.Equal(t, domain.Coordinate{Row: 0, Column: 0}, cells[0])
	assert.Equal(t, domain.Coordinate{Row: 0, Column: 2}, cells[2])
	assert.Equal(t, domain.Coordinate{Row: 1, Column: 0}, cells[3])
	assert.True(t, g.Contains(domain.Coordinate{Row: 1, Column: 2}))
	assert.False(t, g.Contains(domain.Coordinate{Row: 2, Column: 0}))
	assert.Equal(t, "SPACE", g.At(cells[5]))
}

func TestCreationRequest_Body(t *testing.T) {
	at := domain.Coordinate{Row: 3, Column: 7}

	t.Run("Simple", func(t *testing.T) {
		req, ok := domain.NewCreationRequest("cand-1", at, domain.SimpleEntity{Route: domain.RoutePolyanets})
		require.True(t, ok)
		data, err := json.Marshal(req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"candidateId":"cand-1","row":3,"column":7}`, string(data))
	})

	t.Run("Cometh", func(t *testing.T) {
		intent := domain.AttributedEntity{Route: domain.RouteComeths, Attribute: domain.AttributeDirection, Value: "left"}
		req, ok := domain.NewCreationRequest("cand-1", at, intent)
		require.True(t, ok)
		data, err := json.Marshal(req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"candidateId":"cand-1","row":3,"column":7,"direction":"left"}`, string(data))
		assert.Equal(t, "comeths(3,7) direction=left", req.String())
	})

	t.Run("Soloon", func(t *testing.T) {
		intent := domain.AttributedEntity{Route: domain.RouteSoloons, Attribute: domain.AttributeColor, Value: "white"}
		req, _ := domain.NewCreationRequest("cand-1", at, intent)
		assert.Equal(t, "white", req.Body()["color"])
		assert.NotContains(t, req.Body(), "direction")
	})

	t.Run("No Entity", func(t *testing.T) {
		_, ok := domain.NewCreationRequest("cand-1", at, domain.NoEntity{})
		assert.False(t, ok)
	})
}
