package printer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentLayout(t *testing.T) {
	doc := NewDocument(Width58mm).
		KeyValue("Subtotal:", "300.00").
		ItemLine(2, "Margherita Pizza", "240.00").
		ItemLine(1, "An Extremely Long Dish Name That Cannot Fit", "60.00")

	data := doc.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte{ESC, '@'}))

	lines := strings.Split(string(data[2:]), "\n")
	assert.Equal(t, "Subtotal:                 300.00", lines[0])
	assert.Equal(t, "2x Margherita Pizza       240.00", lines[1])
	assert.Len(t, lines[2], Width58mm)
	assert.True(t, strings.HasSuffix(lines[2], " 60.00"))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"Thank you!", "Visit again."}, wrap("Thank you! Visit again.", 12))
	assert.Equal(t, []string{"abcd", "ef"}, wrap("abcdef", 4))
	assert.Equal(t, []string{""}, wrap("   ", 10))
}

func TestNewPrinterTypes(t *testing.T) {
	p, err := New(Config{Type: "none"})
	require.NoError(t, err)
	assert.Equal(t, "none", p.Type())
	assert.False(t, p.IsConnected(context.Background()))

	_, err = New(Config{Type: "usb"})
	assert.Error(t, err)

	_, err = New(Config{Type: "network"})
	assert.Error(t, err)

	_, err = New(Config{Type: "bluetooth"})
	assert.Error(t, err)
}

func TestFilePrinterAppendsJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spool.bin")
	p, err := New(Config{Type: "file", Address: path})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.Print(ctx, []byte("one")))
	require.NoError(t, p.Print(ctx, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "onetwo", string(data))
	assert.True(t, p.IsConnected(ctx))
}

func TestMemoryPrinter(t *testing.T) {
	p := &MemoryPrinter{}
	require.NoError(t, p.Print(context.Background(), []byte("job")))
	assert.Len(t, p.Jobs(), 1)

	p.Err = errors.New("paper out")
	assert.Error(t, p.Print(context.Background(), []byte("job")))
	assert.False(t, p.IsConnected(context.Background()))
}
