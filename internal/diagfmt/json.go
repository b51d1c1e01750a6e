package diagfmt

import (
	"encoding/json"
	"errors"
	"io"

	"sjtc/internal/diag"
)

// LocationJSON is a template location.
type LocationJSON struct {
	File string `json:"file"`
	Line int    `json:"line,omitempty"`
	Text string `json:"text,omitempty"`
}

// ListingLineJSON is one line of generated code.
type ListingLineJSON struct {
	No        int    `json:"no"`
	Text      string `json:"text"`
	Highlight bool   `json:"highlight,omitempty"`
}

// DiagnosticJSON is the JSON form of one error.
type DiagnosticJSON struct {
	Severity  string            `json:"severity"`
	Code      string            `json:"code,omitempty"`
	Title     string            `json:"title,omitempty"`
	Message   string            `json:"message"`
	Location  *LocationJSON     `json:"location,omitempty"`
	Secondary *LocationJSON     `json:"secondary,omitempty"`
	Chain     []string          `json:"chain,omitempty"`
	CycleAt   *int              `json:"cycle_at,omitempty"`
	Fragment  string            `json:"fragment,omitempty"`
	Listing   []ListingLineJSON `json:"listing,omitempty"`
	Imprecise bool              `json:"imprecise,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(loc diag.Location, opts JSONOpts) *LocationJSON {
	if loc.File == "" {
		return nil
	}
	return &LocationJSON{
		File: FormatPath(loc.File, opts.PathMode, opts.BaseDir),
		Line: loc.Line,
		Text: loc.Text,
	}
}

// BuildDiagnostic converts err to its JSON form.
func BuildDiagnostic(err error, opts JSONOpts) DiagnosticJSON {
	var de *diag.Error
	if !errors.As(err, &de) {
		return DiagnosticJSON{Severity: diag.SevError.String(), Message: err.Error()}
	}

	out := DiagnosticJSON{
		Severity:  de.Severity().String(),
		Code:      de.Code.ID(),
		Title:     de.Code.Title(),
		Message:   de.Message,
		Location:  makeLocation(de.Primary, opts),
		Fragment:  de.Fragment,
		Imprecise: de.Imprecise,
	}
	if de.Secondary != nil {
		out.Secondary = makeLocation(*de.Secondary, opts)
	}
	if len(de.Chain) > 0 {
		out.Chain = make([]string, len(de.Chain))
		for i, l := range de.Chain {
			out.Chain[i] = FormatPath(l, opts.PathMode, opts.BaseDir)
		}
	}
	if de.CycleAt >= 0 {
		at := de.CycleAt
		out.CycleAt = &at
	}
	if de.Listing != nil && !opts.OmitListing {
		out.Listing = make([]ListingLineJSON, len(de.Listing.Lines))
		for i, ln := range de.Listing.Lines {
			out.Listing[i] = ListingLineJSON{No: ln.No, Text: ln.Text, Highlight: ln.Highlight}
		}
	}
	return out
}

// BuildDiagnosticsOutput collects errs without serializing them.
func BuildDiagnosticsOutput(errs []error, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(errs))}
	for _, err := range errs {
		if err == nil {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, BuildDiagnostic(err, opts))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes errs as one indented JSON document.
func JSON(w io.Writer, errs []error, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(errs, opts))
}
