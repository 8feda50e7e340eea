package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"perimeleon/pmexport/pkg/model"
)

// Report summarizes a finished run.
type Report struct {
	RunID      string                     `json:"run_id"`
	StartedAt  time.Time                  `json:"started_at"`
	Duration   time.Duration              `json:"duration_ns"`
	Source     string                     `json:"source"`
	Households int                        `json:"households"`
	Members    int                        `json:"members"`
	ByStatus   map[model.MemberStatus]int `json:"members_by_status"`
	Skipped    []SkippedRecord            `json:"skipped"`
	Files      []FileReport               `json:"files"`
}

// SkippedRecord identifies a record dropped for a decode error.
type SkippedRecord struct {
	Index    int    `json:"index"`
	NativeID string `json:"native_id,omitempty"`
	Error    string `json:"error"`
}

// FileReport describes one written output file.
type FileReport struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Entries  int    `json:"entries"`
	Bytes    int    `json:"bytes"`
}

// WriteText prints the human readable summary:
//
//	3 households found
//	7 members found
//	  Communing: 5
//	  Non-communing: 2
//	1 record skipped
//	  record 2 [_id=64b7...]: decode error [...]
//	wrote households.json (3 entries, 2048 bytes)
func (r *Report) WriteText(w io.Writer) error {
	p := &textPrinter{w: w}
	p.printf("%d households found\n", r.Households)
	p.printf("%d members found\n", r.Members)
	for _, status := range model.EnumValues(model.EnumMemberStatus) {
		if n := r.ByStatus[model.MemberStatus(status)]; n > 0 {
			p.printf("  %s: %d\n", model.MemberStatus(status).Label(), n)
		}
	}
	if n := len(r.Skipped); n > 0 {
		p.printf("%d %s skipped\n", n, plural(n, "record", "records"))
		for _, s := range r.Skipped {
			if s.NativeID != "" {
				p.printf("  record %d [_id=%s]: %s\n", s.Index, s.NativeID, s.Error)
			} else {
				p.printf("  record %d: %s\n", s.Index, s.Error)
			}
		}
	}
	for _, f := range r.Files {
		p.printf("wrote %s (%d %s, %d bytes)\n", f.Location, f.Entries, plural(f.Entries, "entry", "entries"), f.Bytes)
	}
	p.printf("done in %s\n", r.Duration.Round(time.Millisecond))
	return p.err
}

// WriteJSON prints the report as a JSON object.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

type textPrinter struct {
	w   io.Writer
	err error
}

func (p *textPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
