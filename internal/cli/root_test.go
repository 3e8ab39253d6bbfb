package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nonibytes/recall/internal/cliutil"
)

type session struct {
	t  *testing.T
	db string
}

func newSession(t *testing.T) *session {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return &session{t: t, db: filepath.Join(dir, "cards.db")}
}

// run executes one CLI invocation and returns stdout
func (s *session) run(stdin string, args ...string) (string, error) {
	s.t.Helper()

	var out, errOut bytes.Buffer
	st := cliutil.NewState()
	st.In = strings.NewReader(stdin)
	st.Out = &out
	st.Err = &errOut

	root := NewRootCmd(st)
	root.SetArgs(append([]string{"--db", s.db}, args...))
	err := root.Execute()
	return out.String(), err
}

func (s *session) mustRun(stdin string, args ...string) string {
	s.t.Helper()
	out, err := s.run(stdin, args...)
	require.NoError(s.t, err, "recall %s", strings.Join(args, " "))
	return out
}

func lines(s string) []string {
	return strings.Fields(s)
}

func TestCLIRoundTrip(t *testing.T) {
	s := newSession(t)

	s.mustRun("", "init")

	out := s.mustRun(`{"front":"犬","back":"dog","deck":"JP/N5","tag":["noun"],"srsLevel":2}

{"front":"食べる","back":"to eat","deck":"JP/N5","tag":["verb"],"srsLevel":0}
{"front":"hola","back":"hello","deck":"ES"}
`, "put")
	assert.Equal(t, []string{"1", "2", "3"}, lines(out))

	out = s.mustRun("", "search", "deck:JP", "--format", "ids")
	assert.Equal(t, []string{"1", "2"}, lines(out))

	out = s.mustRun("", "search", "deck:JP -sortBy:srsLevel", "--format", "ids")
	assert.Equal(t, []string{"1", "2"}, lines(out))

	out = s.mustRun("", "search", "--sort", "srsLevel", "--format", "ids", "--limit", "1", "deck:JP")
	assert.Equal(t, []string{"2"}, lines(out))

	out = s.mustRun("", "search", "is:leech", "--format", "json", "--fields", "front")
	var page struct {
		Data  []map[string]any `json:"data"`
		Count int              `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "食べる", page.Data[0]["front"])
	assert.NotContains(t, page.Data[0], "back")

	s.mustRun("", "update", "3", "--set", "deck=ES/A1", "--set", "tag=greeting")
	out = s.mustRun("", "get", "3")
	assert.Contains(t, out, `"deck": "ES/A1"`)
	assert.Contains(t, out, `"greeting"`)

	s.mustRun("", "tag", "add", "core", "--ids", "1,2")
	out = s.mustRun("", "discover", "tag", "--format", "json")
	assert.Contains(t, out, `"value": "core"`)

	out = s.mustRun("", "delete", "--where", "tag=verb")
	assert.Contains(t, out, "Deleted 1 cards")

	out = s.mustRun("", "search", "--format", "ids", "--sort", "id")
	assert.Equal(t, []string{"1", "3"}, lines(out))
}

func TestCLITemplateFile(t *testing.T) {
	s := newSession(t)
	s.mustRun("", "init")

	file := filepath.Join(t.TempDir(), "cards.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
- front: "@template\n{{Word}}"
  back: "@template\n{{FrontSide}} = {{Meaning}}"
  deck: JP
  data:
    - key: Word
      value: 猫
    - key: Meaning
      value: cat
`), 0o644))

	out := s.mustRun("", "put", "--file", file)
	assert.Equal(t, []string{"1"}, lines(out))

	out = s.mustRun("", "render", "1")
	assert.Equal(t, "猫\n---\n猫 = cat\n", out)
}

func TestCLIErrors(t *testing.T) {
	s := newSession(t)
	s.mustRun("", "init")

	_, err := s.run("{bad json}\n{\"front\":\"a\",\"deck\":\"d\"}\nnope\n", "put")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "line 3")

	_, err = s.run("", "get", "42")
	assert.Error(t, err)

	_, err = s.run("", "delete")
	assert.Error(t, err)

	_, err = s.run("", "delete", "--where", "")
	assert.Error(t, err)

	_, err = s.run("", "update", "1", "--set", "srsLevel=-1")
	assert.Error(t, err)

	_, err = s.run("", "search", "--format", "paths")
	assert.Error(t, err)
}

func TestCLIExplain(t *testing.T) {
	s := newSession(t)

	out := s.mustRun("", "explain", "deck:JP is:starred -sortBy:created")
	var e struct {
		Tree   map[string]any `json:"tree"`
		Keys   []string       `json:"keys"`
		Is     []string       `json:"is"`
		SortBy string         `json:"sortBy"`
		Desc   bool           `json:"desc"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, map[string]any{"deck": map[string]any{"$substr": "JP"}}, e.Tree)
	assert.Equal(t, []string{"deck"}, e.Keys)
	assert.Equal(t, []string{"starred"}, e.Is)
	assert.Equal(t, "created", e.SortBy)
	assert.True(t, e.Desc)
}
