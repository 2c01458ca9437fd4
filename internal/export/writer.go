package export

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/orgball2608/deface/internal/domain"
)

type Format string

const (
	JSON   Format = "json"
	NDJSON Format = "ndjson"
	Pretty Format = "pretty"
	None   Format = "none"
)

var Formats = []Format{JSON, NDJSON, Pretty, None}

func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Writer emits records as JSON text. json and pretty wrap the records in a
// list with one record per element; ndjson writes one record per line.
type Writer struct {
	out    io.Writer
	format Format
}

var _ Sink = (*Writer)(nil)

func NewWriter(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

func (w *Writer) Name() string {
	return "writer:" + string(w.format)
}

func (w *Writer) Emit(ctx context.Context, _ domain.ExportRun, timeline []domain.Post) error {
	if w.format == None {
		return nil
	}

	out := bufio.NewWriter(w.out)
	list := w.format != NDJSON
	if list {
		out.WriteString("[\n")
	}
	for i, post := range timeline {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := w.encode(post)
		if err != nil {
			return fmt.Errorf("failed to encode post at %d: %w", post.Timestamp, err)
		}
		out.Write(data)
		if list && i < len(timeline)-1 {
			out.WriteString(",\n")
		} else {
			out.WriteByte('\n')
		}
	}
	if list {
		out.WriteString("]\n")
	}
	return out.Flush()
}

func (w *Writer) encode(post domain.Post) ([]byte, error) {
	data, err := domain.EncodePost(post)
	if err != nil || w.format != Pretty {
		return data, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
