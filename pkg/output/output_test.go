package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	prevWriter, prevNoColor := Writer, color.NoColor
	Writer, color.NoColor = buf, true
	t.Cleanup(func() {
		Writer, color.NoColor = prevWriter, prevNoColor
	})
	return buf
}

func TestStatusLines(t *testing.T) {
	tests := []struct {
		name     string
		print    func(format string, a ...interface{})
		expected string
	}{
		{"success", Success, "✓ wrote 3 rows\n"},
		{"error", Error, "✗ wrote 3 rows\n"},
		{"info", Info, "wrote 3 rows\n"},
		{"warn", Warn, "⚠ wrote 3 rows\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStatus(t)
			tt.print("wrote %d rows", 3)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestTable_Render(t *testing.T) {
	captureStatus(t)

	table := NewTable([]string{"#", "NAME", "TYPE"})
	table.AddRow([]string{"1", "sign", "Int8"})
	table.AddRow([]string{"2", "category_ids", "Array(UInt32)"})

	var buf bytes.Buffer
	table.Render(&buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "#  NAME          TYPE           ", lines[0])
	assert.Equal(t, "-  ------------  -------------  ", lines[1])
	assert.Equal(t, "1  sign          Int8           ", lines[2])
	assert.Equal(t, "2  category_ids  Array(UInt32)  ", lines[3])
}
