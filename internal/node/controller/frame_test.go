package controller

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frameLine(t *testing.T, values map[string]float64) string {
	t.Helper()
	frame, err := EncodeFrame(values)
	require.NoError(t, err)
	return string(frame)
}

func TestEncodeDecodeFrame(t *testing.T) {
	values := map[string]float64{"temp": 21.5, "rh": 40}

	frame, err := EncodeFrame(values)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(frame, []byte("\n")))

	decoded, err := DecodeFrame(bytes.TrimSpace(frame))
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestDecodeFrame_ParseFailures(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{name: "no checksum", line: `{"temp":21.5}`},
		{name: "bad checksum hex", line: `{"temp":21.5}*ZZ`},
		{name: "checksum mismatch", line: `{"temp":21.5}*00`},
		{name: "short checksum", line: `{"temp":21.5}*0`},
		{name: "not json", line: "garbage*" + strings.ToUpper(hexByte(Checksum([]byte("garbage"))))},
		{name: "null payload", line: "null*" + strings.ToUpper(hexByte(Checksum([]byte("null"))))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame([]byte(tt.line))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParseFailure)
		})
	}
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0x0f]})
}

func TestFrameLink_ReadSample(t *testing.T) {
	input := frameLine(t, map[string]float64{"temp": 20}) +
		"corrupted-frame*00\n" +
		frameLine(t, map[string]float64{"temp": 21})

	link := NewFrameLink(strings.NewReader(input), 0)
	ctx := context.Background()

	s, err := link.ReadSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, s.Payload["temp"])

	_, err = link.ReadSample(ctx)
	assert.ErrorIs(t, err, ErrParseFailure)

	s, err = link.ReadSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21.0, s.Payload["temp"])

	// конец потока - фатальная ошибка канала, не ошибка разбора
	_, err = link.ReadSample(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.EOF)
	assert.False(t, errors.Is(err, ErrParseFailure))
}

func TestFrameLink_FrameTooLong(t *testing.T) {
	long := `{"v":` + strings.Repeat("1", 100) + "}*00\n"
	input := long + frameLine(t, map[string]float64{"ok": 1})

	link := NewFrameLink(strings.NewReader(input), 32)
	ctx := context.Background()

	_, err := link.ReadSample(ctx)
	assert.ErrorIs(t, err, ErrParseFailure)

	s, err := link.ReadSample(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Payload["ok"])
}

func TestFrameLink_CancelledContext(t *testing.T) {
	link := NewFrameLink(strings.NewReader(""), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := link.ReadSample(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

type rwc struct {
	io.Reader
	bytes.Buffer
	closed bool
}

func (c *rwc) Read(p []byte) (int, error)  { return c.Reader.Read(p) }
func (c *rwc) Write(p []byte) (int, error) { return c.Buffer.Write(p) }
func (c *rwc) Close() error                { c.closed = true; return nil }

func TestFrameLink_WriteParamsAndClose(t *testing.T) {
	dev := &rwc{Reader: strings.NewReader("")}
	link := NewFrameLink(dev, 0)

	require.NoError(t, link.WriteParams(context.Background(), map[string]float64{"speed": 10}))

	written := dev.String()
	require.True(t, strings.HasPrefix(written, "SET "))
	decoded, err := DecodeFrame([]byte(strings.TrimSpace(strings.TrimPrefix(written, "SET "))))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"speed": 10}, decoded)

	require.NoError(t, link.Close())
	require.NoError(t, link.Close())
	assert.True(t, dev.closed)

	_, err = link.ReadSample(context.Background())
	assert.ErrorIs(t, err, ErrLinkClosed)
}

func TestFrameLink_WriteParamsReadOnly(t *testing.T) {
	link := NewFrameLink(strings.NewReader(""), 0)
	err := link.WriteParams(context.Background(), map[string]float64{"speed": 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only")
}
