package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

func writeQueriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestEvaluateCmd_Use(t *testing.T) {
	assert.Equal(t, "evaluate", evaluateCmd.Use)
}

func TestEvaluateCmd_RequiresQueriesFlag(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"evaluate"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "queries")
}

func TestEvaluateCmd_SkipsCommentsAndBlanks(t *testing.T) {
	_, _, eval, cleanup := setupTestServices()
	defer cleanup()
	eval.report = domain.EvalReport{
		AverageLatency: 3 * time.Millisecond,
		AverageScore:   0.61,
		PerQuery: []domain.QueryResult{
			{Query: "finance jobs", Latency: 3 * time.Millisecond, Results: 2, MeanScore: 0.61},
		},
	}

	path := writeQueriesFile(t, "# retrieval smoke set\n\nfinance jobs\n\n# done\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"evaluate", "--queries", path})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, 1, eval.lastCount)
	assert.Contains(t, buf.String(), "Average score:   0.6100")
}

func TestEvaluateCmd_EmptyQueryFile(t *testing.T) {
	_, _, _, cleanup := setupTestServices()
	defer cleanup()

	path := writeQueriesFile(t, "# only comments\n\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"evaluate", "--queries", path})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no queries found")
}

func TestEvaluateCmd_JSONOutput(t *testing.T) {
	_, _, eval, cleanup := setupTestServices()
	defer cleanup()
	eval.report = domain.EvalReport{
		AverageScore: 0.5,
		PerQuery:     []domain.QueryResult{{Query: "finance jobs", Results: 1, MeanScore: 0.5}},
	}

	path := writeQueriesFile(t, "finance jobs\n")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"evaluate", "--queries", path, "--json"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"query_results"`)
	assert.Contains(t, buf.String(), `"query": "finance jobs"`)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "pathfinder version")
}

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch [csv-file]", watchCmd.Use)
}
