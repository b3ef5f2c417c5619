package report

import (
	"encoding/json"
	"io"

	"github.com/QuesmaOrg/worklog/internal/worklog"
)

// RenderJSON generates indented JSON output
func RenderJSON(rep *worklog.Report) ([]byte, error) {
	return json.MarshalIndent(rep, "", "  ")
}

// WriteJSON writes the report as indented JSON followed by a newline.
func WriteJSON(w io.Writer, rep *worklog.Report) error {
	data, err := RenderJSON(rep)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
