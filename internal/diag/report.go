package diag

import (
	"encoding/json"
	"fmt"

	"github.com/veltra-lang/veltc/internal/ast"
)

// Level distinguishes a hard error from a warning. Only errors halt the
// pass pipeline between passes; warnings never do.
type Level int

const (
	LevelError Level = iota
	LevelWarning
)

func (l Level) String() string {
	if l == LevelWarning {
		return "warning"
	}
	return "error"
}

// Report is the canonical structured diagnostic. Every pass produces these
// instead of returning a bare error, so a caller can render, filter, or
// serialize them uniformly.
type Report struct {
	Code    Code           `json:"code"`
	Level   Level          `json:"-"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     string         `json:"fix,omitempty"`
}

// reportJSON mirrors Report but carries Level as a string, since Level
// itself has no JSON tag (json marshaling needs a stable textual form for
// the taxonomy, not the Go iota).
type reportJSON struct {
	Code    Code           `json:"code"`
	Level   string         `json:"level"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *ast.Span      `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     string         `json:"fix,omitempty"`
}

// New builds a Report, defaulting the level from the code's registered
// warning status.
func New(code Code, phase string, span ast.Span, message string) *Report {
	lvl := LevelError
	if IsWarning(code) {
		lvl = LevelWarning
	}
	return &Report{Code: code, Level: lvl, Phase: phase, Message: message, Span: &span}
}

// WithData attaches structured data to a report, returning it for chaining.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}

// WithFix attaches a suggested fix string.
func (r *Report) WithFix(fix string) *Report {
	r.Fix = fix
	return r
}

// Error implements the error interface so a *Report can be returned from
// any function signature that expects one.
func (r *Report) Error() string {
	if r.Span != nil {
		return fmt.Sprintf("%s: [%s] %s", r.Span.Start.String(), r.Code, r.Message)
	}
	return fmt.Sprintf("[%s] %s", r.Code, r.Message)
}

// MarshalJSON renders Level as a string for the on-disk/wire form.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		Code:    r.Code,
		Level:   r.Level.String(),
		Phase:   r.Phase,
		Message: r.Message,
		Span:    r.Span,
		Data:    r.Data,
		Fix:     r.Fix,
	})
}
