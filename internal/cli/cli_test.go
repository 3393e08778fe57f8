package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"

	"marcserializer/pkg/alephseq"
	"marcserializer/pkg/marc"
)

const fixture = "000000001 FMT   L BK\n" +
	"000000001 LDR   L 00000cam^a2200000^i^4500\n" +
	"000000001 001   L 000000001\n" +
	"000000001 24510 L $$aTitle$$cAuthor\n" +
	"000000002 LDR   L 00000nam^a2200000^i^4500\n" +
	"000000002 001   L 000000002\n" +
	"000000002 500   L $$aNote\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: nil},
		{name: "one argument", args: []string{"alephseq"}},
		{name: "json flag only", args: []string{"--json", "alephseq"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := run(t, tt.args...)
			require.Equal(t, 1, code)
			require.Empty(t, stdout)
			require.Equal(t, usage, stderr)
		})
	}
}

func TestRun_UnsupportedRecordType(t *testing.T) {
	code, stdout, stderr := run(t, "foo", "")
	require.Equal(t, 255, code)
	require.Empty(t, stdout)
	require.True(t, strings.HasPrefix(stderr, usage))
	require.True(t, strings.HasSuffix(stderr, "\nUnsupported record type\n"))
}

func TestRun_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.seq")

	code, _, stderr := run(t, "alephseq", path)
	require.Equal(t, 255, code)
	require.Equal(t, `File "`+path+`" does not exist`+"\n", stderr)
}

func TestRun_Text(t *testing.T) {
	code, stdout, stderr := run(t, "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 0, code)
	require.Empty(t, stderr)
	require.Equal(t, "LDR    00000cam^a2200000^i^4500\n"+
		"001    000000001\n"+
		"245 10 ‡aTitle‡cAuthor\n"+
		"LDR    00000nam^a2200000^i^4500\n"+
		"001    000000002\n"+
		"500    ‡aNote\n"+
		"\n", stdout)
}

func TestRun_JSON(t *testing.T) {
	code, stdout, _ := run(t, "--json", "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n\n"), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], `{"leader":"00000cam^a2200000^i^4500","fields":[{"tag":"001","value":"000000001"}`))

	var record marc.Record
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &record))
	require.Equal(t, "Note", record.Fields()[1].Subfields[0].Value)
}

func TestRun_JSONIndentFromConfig(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "output:\n  format: json\n  json_indent: \"  \"\n")

	code, stdout, _ := run(t, "--config", cfg, "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 0, code)
	require.True(t, strings.HasPrefix(stdout, "{\n  \"leader\": \"00000cam^a2200000^i^4500\",\n"))
}

func TestRun_AlephSeqOutput(t *testing.T) {
	code, stdout, _ := run(t, "--output", "alephseq", "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 0, code)

	input, err := alephseq.ReadAll(strings.NewReader(fixture))
	require.NoError(t, err)
	output, err := alephseq.ReadAll(strings.NewReader(strings.TrimSuffix(stdout, "\n")))
	require.NoError(t, err)
	require.Equal(t, input, output)
	require.Contains(t, stdout, "000000002 FMT   L BK\n")
}

func TestRun_HTMLOutput(t *testing.T) {
	code, stdout, _ := run(t, "--output", "html", "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 0, code)
	require.Equal(t, 2, strings.Count(stdout, "<table>"))
	require.Contains(t, stdout, "<td>245</td>")
}

func TestRun_BadOutputFormat(t *testing.T) {
	code, stdout, stderr := run(t, "--output", "marcxml", "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "output.format")
}

func TestRun_BadFlag(t *testing.T) {
	code, _, stderr := run(t, "--colour", "alephseq", "in.seq")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "unknown flag")
}

func TestRun_ReaderError(t *testing.T) {
	input := "000000001 001   L 000000001\n000000002 50\n"

	code, stdout, stderr := run(t, "alephseq", writeFile(t, "in.seq", input))
	require.Equal(t, 2, code)
	require.Equal(t, "LDR    \n001    000000001\n", stdout)
	require.Contains(t, stderr, "Error: ")
	require.Contains(t, stderr, "could not parse tag")
}

func TestRun_LogLevel(t *testing.T) {
	t.Setenv("MARCSER_LOG_LEVEL", "")

	code, _, stderr := run(t, "--log-level", "debug", "alephseq", writeFile(t, "in.seq", fixture))
	require.Equal(t, 0, code)
	require.Equal(t, 2, strings.Count(stderr, "record decoded"))
	require.Contains(t, stderr, "conversion finished")
}

func TestRun_Catalog(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "catalog")
	cfg := writeFile(t, "config.yaml", "catalog:\n  data_dir: "+dataDir+"\n")
	input := writeFile(t, "in.seq", fixture)

	code, stdout, stderr := run(t, "--config", cfg, "import", input)
	require.Equal(t, 0, code, stderr)
	id, count, ok := strings.Cut(strings.TrimSuffix(stdout, "\n"), "\t")
	require.True(t, ok)
	_, err := ksuid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, "2", count)

	code, stdout, _ = run(t, "--config", cfg, "get", "000000002")
	require.Equal(t, 0, code)
	require.Equal(t, "LDR    00000nam^a2200000^i^4500\n001    000000002\n500    ‡aNote\n", stdout)

	code, _, stderr = run(t, "--config", cfg, "get", "000000003")
	require.Equal(t, 2, code)
	require.Contains(t, stderr, "record not found")

	code, stdout, _ = run(t, "--config", cfg, "export")
	require.Equal(t, 0, code)
	records, err := alephseq.ReadAll(strings.NewReader(stdout))
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "000000001", alephseq.Identifier(records[0]))
}

func TestRun_ImportMissingFile(t *testing.T) {
	cfg := writeFile(t, "config.yaml", "catalog:\n  data_dir: "+filepath.Join(t.TempDir(), "catalog")+"\n")

	code, _, stderr := run(t, "--config", cfg, "import", filepath.Join(t.TempDir(), "missing.seq"))
	require.Equal(t, 255, code)
	require.Contains(t, stderr, "does not exist")
}
