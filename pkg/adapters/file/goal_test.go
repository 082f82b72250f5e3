package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/megaverse/pkg/adapters/file"
	"github.com/aretw0/megaverse/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoal_SaveAndLoad(t *testing.T) {
	grid := domain.Grid{
		{"SPACE", "POLYANET", "SPACE"},
		{"RIGHT_COMETH", "SPACE", "BLUE_SOLOON"},
	}

	for _, name := range []string{"goal.json", "goal.yaml", "nested/dir/goal.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, file.Save(path, grid))

			got, err := file.New(path).FetchGoal(context.Background())
			require.NoError(t, err)
			assert.Equal(t, grid, got)

			// Overwrite keeps a single file and no temp leftovers.
			require.NoError(t, file.Save(path, domain.Grid{{"POLYANET"}}))
			got, err = file.New(path).FetchGoal(context.Background())
			require.NoError(t, err)
			assert.Equal(t, domain.Grid{{"POLYANET"}}, got)

			entries, err := os.ReadDir(filepath.Dir(path))
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestGoal_ReadsRemoteShapedJSONAsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goal.txt")
	require.NoError(t, os.WriteFile(path, []byte(`{"goal":[["SPACE","POLYANET"]]}`), 0644))

	got, err := file.New(path).FetchGoal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Grid{{"SPACE", "POLYANET"}}, got)
}

func TestGoal_Errors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"missing.yaml": "",
		"nogoal.yaml":  "other: 1\n",
		"ragged.yaml":  "goal:\n  - [SPACE, SPACE]\n  - [SPACE]\n",
		"broken.json":  "{",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if content != "" {
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			}
			_, err := file.New(path).FetchGoal(context.Background())
			assert.ErrorIs(t, err, domain.ErrGoalUnavailable)
		})
	}

	assert.ErrorIs(t, file.Save(filepath.Join(dir, "x.yaml"), domain.Grid{}), domain.ErrInvalidGrid)
}
