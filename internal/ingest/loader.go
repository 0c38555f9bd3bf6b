package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"inbox-dashboard/internal/apperrors"
	"inbox-dashboard/internal/logger"
	"inbox-dashboard/internal/model"
)

// Loader turns uploaded exports into reports.
type Loader struct {
	logger   *logger.Logger
	maxBytes int64
}

func NewLoader(maxBytes int64, logger *logger.Logger) *Loader {
	return &Loader{logger: logger, maxBytes: maxBytes}
}

// ValidateFileName rejects anything that is not a .json file.
func ValidateFileName(name string) error {
	if !strings.HasSuffix(strings.ToLower(strings.TrimSpace(name)), ".json") {
		return apperrors.NewValidation("Bitte eine JSON-Datei auswählen!")
	}
	return nil
}

// ReadUpload reads the whole upload, failing when it exceeds the size limit.
func (l *Loader) ReadUpload(r io.Reader) (string, error) {
	limited := io.LimitReader(r, l.maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return "", apperrors.NewIO("Fehler beim Lesen der Datei", err)
	}
	if int64(len(data)) > l.maxBytes {
		return "", apperrors.NewIO("Fehler beim Lesen der Datei", fmt.Errorf("upload exceeds %d bytes", l.maxBytes))
	}
	return string(data), nil
}

// LoadFromText parses an inbox export. Syntax errors fail hard; missing or
// mistyped domain fields fall back to their zero values.
func (l *Loader) LoadFromText(text string) (*model.EmailReport, error) {
	data := []byte(text)
	if err := checkSyntax(data); err != nil {
		return nil, apperrors.NewParse("Fehler beim Laden der JSON-Datei", err)
	}

	report := model.NewEmailReport()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		l.logger.Warn("Upload is valid JSON but not an object, using empty report")
		return report, nil
	}

	var wire wireReport
	if err := json.Unmarshal(data, &wire); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, apperrors.NewParse("Fehler beim Laden der JSON-Datei", err)
		}
		l.logger.Warnf("Ignoring mistyped field %q in upload: %v", typeErr.Field, err)
	}

	wire.apply(report)
	l.logger.Infof("Parsed report: %d emails, %d newsletters, %d large emails",
		report.TotalEmails, len(report.Newsletters), len(report.LargeEmails))
	return report, nil
}

// checkSyntax reports the first JSON syntax error with its byte offset.
func checkSyntax(data []byte) error {
	if json.Valid(data) {
		return nil
	}
	var v interface{}
	err := json.Unmarshal(data, &v)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%s (offset %d)", syntaxErr.Error(), syntaxErr.Offset)
	}
	if err == nil {
		err = errors.New("invalid JSON")
	}
	return err
}

// wireReport accepts total_emails as any JSON number, e.g. 10.0.
type wireReport struct {
	TotalEmails  float64                 `json:"total_emails"`
	TotalSizeMB  float64                 `json:"total_size_mb"`
	AnalysisDate string                  `json:"analysis_date"`
	Newsletters  []model.NewsletterEntry `json:"newsletters"`
	LargeEmails  []model.EmailEntry      `json:"large_emails"`
}

func (w *wireReport) apply(r *model.EmailReport) {
	if w.TotalEmails > 0 {
		r.TotalEmails = int(math.Round(w.TotalEmails))
	}
	if w.TotalSizeMB > 0 {
		r.TotalSizeMB = w.TotalSizeMB
	}
	r.AnalysisDate = w.AnalysisDate
	if w.Newsletters != nil {
		r.Newsletters = w.Newsletters
	}
	if w.LargeEmails != nil {
		r.LargeEmails = w.LargeEmails
	}
}
