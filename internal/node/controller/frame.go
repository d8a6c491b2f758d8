package controller

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/iudanet/fieldlink/internal/models"
)

// DefaultMaxFrameSize максимальный размер кадра по умолчанию
const DefaultMaxFrameSize = 4096

// FrameLink реализует Reader и ParamWriter поверх построчного канала.
//
// Кадр семпла: `<json-объект показаний>*<XOR checksum, 2 hex>\n`,
// например `{"temp":21.5}*5A`. Команда параметров пишется в том же формате
// с префиксом "SET ".
type FrameLink struct {
	r       *bufio.Reader
	w       io.Writer
	closer  io.Closer
	maxSize int
	writeMu sync.Mutex
	closed  bool
	closeMu sync.Mutex
}

// NewFrameLink создает канал поверх rw. Если rw реализует io.Closer,
// Close закрывает его (это разблокирует ожидающее чтение).
func NewFrameLink(rw io.Reader, maxFrameSize int) *FrameLink {
	if maxFrameSize <= 0 {
		maxFrameSize = DefaultMaxFrameSize
	}

	link := &FrameLink{
		r:       bufio.NewReaderSize(rw, maxFrameSize),
		maxSize: maxFrameSize,
	}
	if w, ok := rw.(io.Writer); ok {
		link.w = w
	}
	if c, ok := rw.(io.Closer); ok {
		link.closer = c
	}

	return link
}

// ReadSample читает следующий кадр
func (l *FrameLink) ReadSample(ctx context.Context) (*models.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	line, err := l.readLine()
	if err != nil {
		if l.isClosed() {
			return nil, ErrLinkClosed
		}
		return nil, err
	}

	payload, err := DecodeFrame(line)
	if err != nil {
		return nil, err
	}

	return &models.Sample{Payload: payload}, nil
}

// readLine читает строку целиком. Слишком длинная строка дочитывается
// до перевода строки и возвращается как ошибка разбора.
func (l *FrameLink) readLine() ([]byte, error) {
	var buf []byte
	tooLong := false

	for {
		chunk, err := l.r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(chunk) > l.maxSize {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if tooLong {
			return nil, fmt.Errorf("%w: frame exceeds %d bytes", ErrParseFailure, l.maxSize)
		}

		return bytes.TrimRight(buf, "\r\n"), nil
	}
}

// WriteParams отправляет команду установки параметров
func (l *FrameLink) WriteParams(ctx context.Context, params map[string]float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.w == nil {
		return fmt.Errorf("controller link is read-only")
	}

	frame, err := EncodeFrame(params)
	if err != nil {
		return err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if _, err := l.w.Write(append([]byte("SET "), frame...)); err != nil {
		return fmt.Errorf("failed to write params frame: %w", err)
	}

	return nil
}

// Close закрывает канал
func (l *FrameLink) Close() error {
	l.closeMu.Lock()
	if l.closed {
		l.closeMu.Unlock()
		return nil
	}
	l.closed = true
	l.closeMu.Unlock()

	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *FrameLink) isClosed() bool {
	l.closeMu.Lock()
	defer l.closeMu.Unlock()
	return l.closed
}

// DecodeFrame проверяет checksum и разбирает показания
func DecodeFrame(line []byte) (map[string]float64, error) {
	idx := bytes.LastIndexByte(line, '*')
	if idx < 0 || len(line)-idx-1 != 2 {
		return nil, fmt.Errorf("%w: missing checksum", ErrParseFailure)
	}

	body, sum := line[:idx], line[idx+1:]

	want, err := hex.DecodeString(string(sum))
	if err != nil {
		return nil, fmt.Errorf("%w: malformed checksum %q", ErrParseFailure, sum)
	}
	if got := Checksum(body); got != want[0] {
		return nil, fmt.Errorf("%w: checksum mismatch: got %02X, want %02X", ErrParseFailure, got, want[0])
	}

	var payload map[string]float64
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailure, err)
	}
	if payload == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrParseFailure)
	}

	return payload, nil
}

// EncodeFrame кодирует значения в кадр с checksum и переводом строки
func EncodeFrame(values map[string]float64) ([]byte, error) {
	body, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal frame: %w", err)
	}

	return fmt.Appendf(body, "*%02X\n", Checksum(body)), nil
}

// Checksum XOR всех байт тела кадра
func Checksum(body []byte) byte {
	var sum byte
	for _, b := range body {
		sum ^= b
	}
	return sum
}
