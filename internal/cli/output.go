package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"marcserializer/internal/config"
	"marcserializer/pkg/alephseq"
	"marcserializer/pkg/marc"
	"marcserializer/pkg/render"
)

type recordWriter struct {
	write func(*marc.Record) error
}

func newRecordWriter(w io.Writer, output config.Output) (*recordWriter, error) {
	switch output.Format {
	case config.FormatText:
		return &recordWriter{write: func(record *marc.Record) error {
			_, err := io.WriteString(w, record.String())
			return err
		}}, nil

	case config.FormatJSON:
		indent := output.JSONIndent
		if indent == "" && isTerminal(w) {
			indent = "  "
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", indent)
		return &recordWriter{write: func(record *marc.Record) error {
			return enc.Encode(record)
		}}, nil

	case config.FormatAlephSeq:
		aw := alephseq.NewWriter(w)
		return &recordWriter{write: aw.Write}, nil

	case config.FormatHTML:
		return &recordWriter{write: func(record *marc.Record) error {
			_, err := io.WriteString(w, render.HTML(record))
			return err
		}}, nil

	default:
		return nil, fmt.Errorf("unsupported output format %q", output.Format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
