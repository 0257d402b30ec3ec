package combination

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/combo/internal/errors"
)

func strPtr(s string) *string { return &s }

// parseMessage returns the ComboError message for a failed parse.
func parseMessage(t *testing.T, f Format, line string) string {
	t.Helper()
	_, err := f.Parse(line)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrParse), "want PARSE_ERROR, got %v", err)
	return errors.As(err).Message
}

func TestParse_WithURL(t *testing.T) {
	got, err := DefaultFormat.Parse("1-1-2-step_back-2; Long;  Yes;  No;  No; https://example.com")
	require.NoError(t, err)

	want := Combination{
		Description: "1-1-2-step_back-2",
		Distance:    Long,
		Defense:     Yes,
		Faint:       No,
		Body:        No,
		URL:         strPtr("https://example.com"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_FiveFields(t *testing.T) {
	got, err := ShortFormat.Parse("A; Long; Yes; No; No")
	require.NoError(t, err)

	want := Combination{Description: "A", Distance: Long, Defense: Yes, Faint: No, Body: No}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_EmptyURL(t *testing.T) {
	got, err := DefaultFormat.Parse("A; Long; Yes; No; No;")
	require.NoError(t, err)
	assert.Nil(t, got.URL)
	assert.Equal(t, "", got.Link())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "field count",
			line: "1-1-2-step_back-2; Long;  Yes",
			want: `Expect 6 elements delimited by ; in "1-1-2-step_back-2; Long;  Yes"`,
		},
		{
			name: "distance",
			line: "1-1-2-step_back-2; XXX;  Yes;  No;  No;",
			want: `Unknown distance "XXX" in "1-1-2-step_back-2; XXX;  Yes;  No;  No;"`,
		},
		{
			name: "defense keeps leading whitespace",
			line: "1-1-2-step_back-2; Long;  XXX;  No;  No;",
			want: `Unknown defense "  XXX" in "1-1-2-step_back-2; Long;  XXX;  No;  No;"`,
		},
		{
			name: "faint keeps leading whitespace",
			line: "1-1-2-step_back-2; Long;  Yes;  XXX;  No;",
			want: `Unknown faint "  XXX" in "1-1-2-step_back-2; Long;  Yes;  XXX;  No;"`,
		},
		{
			name: "body keeps leading whitespace",
			line: "1-1-2-step_back-2; Long;  Yes;  No;  XXX;",
			want: `Unknown body "  XXX" in "1-1-2-step_back-2; Long;  Yes;  No;  XXX;"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMessage(t, DefaultFormat, tt.line))
		})
	}
}

func TestParse_FieldCountNamesShortFormat(t *testing.T) {
	msg := parseMessage(t, ShortFormat, "A; Long; Yes; No; No; https://x")
	assert.Equal(t, `Expect 5 elements delimited by ; in "A; Long; Yes; No; No; https://x"`, msg)
}

func TestParse_CaseInsensitive(t *testing.T) {
	for _, d := range []string{"LONG", "long", "Long", " lOnG "} {
		got, err := ShortFormat.Parse("A;" + d + ";yes;no;no")
		require.NoError(t, err, d)
		assert.Equal(t, Long, got.Distance, d)
	}
	for _, v := range []string{"YES", "yes", "Yes"} {
		got, err := ShortFormat.Parse("A;short;" + v + ";" + v + ";" + v)
		require.NoError(t, err, v)
		assert.Equal(t, Yes, got.Defense)
		assert.Equal(t, Yes, got.Faint)
		assert.Equal(t, Yes, got.Body)
	}
}

func TestLoad_Testdata(t *testing.T) {
	records, err := Load(filepath.Join("testdata", "combinations.txt"))
	require.NoError(t, err)
	require.Len(t, records, 4)

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Description
	}
	want := []string{"1-2", "1-1-2-step_back-2", "jab-body-cross", "slip-2-3-2"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("descriptions mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, Short, records[2].Distance)
	assert.Equal(t, Yes, records[2].Faint)
	assert.Equal(t, "https://example.com/slip", records[3].Link())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrIO))
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
}

func TestLoad_FirstBadLineAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	data := "good; long; yes; no; no;\nbad; middle; yes; no; no;\nlater; short; no; no; no;\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	records, err := Load(path)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.Contains(t, err.Error(), `Unknown distance "middle"`)
}

func TestRead_SkipsBlankAndComments(t *testing.T) {
	src := "\n   \n# c\n  #c2\nA; short; no; no; no\n"
	records, err := ShortFormat.Read(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].Description)
}

func TestRead_EmptyInput(t *testing.T) {
	records, err := DefaultFormat.Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestRead_LongLine(t *testing.T) {
	long := strings.Repeat("jab, ", 14000) + "cross"
	input := "1-2; short; no; no; no;\n" + long + "; long; no; no; no;\n"

	got, err := DefaultFormat.Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, long, got[1].Description)
	assert.Equal(t, Long, got[1].Distance)
}

func TestRead_LastLineWithoutNewline(t *testing.T) {
	got, err := DefaultFormat.Read(strings.NewReader("1-2; short; no; no; no;\n1-1-2; long; yes; no; no;"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1-1-2", got[1].Description)
}

func TestFormatFor(t *testing.T) {
	f, err := FormatFor(5)
	require.NoError(t, err)
	assert.Equal(t, ShortFormat, f)

	f, err = FormatFor(0)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, f)

	_, err = FormatFor(7)
	require.Error(t, err)
}
