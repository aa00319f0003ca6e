// Package report renders host records into the CSV and Markdown artifacts.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"

	"patchreport/internal/models"
)

const markdownNote = "*Note: This report covers Rocky Linux servers and ClamAV status only. " +
	"Other systems (Firewalls, vSphere, etc.) require separate validation methods.*"

// CSV renders the header row and one row per host. Rows end in CRLF while
// field contents, embedded line breaks included, are written verbatim.
func CSV(reports *models.HostReports) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCSVRow(&buf, models.Columns); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	for _, record := range reports.Records() {
		if err := writeCSVRow(&buf, record.Row()); err != nil {
			return nil, errors.Wrapf(err, "write csv row for %s", record.Host)
		}
	}
	return buf.Bytes(), nil
}

// writeCSVRow leaves UseCRLF off so quoted fields keep bare \r and \n as is,
// then swaps the record terminator for CRLF.
func writeCSVRow(buf *bytes.Buffer, fields []string) error {
	var row bytes.Buffer
	w := csv.NewWriter(&row)
	if err := w.Write(fields); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(row.Bytes(), []byte("\n")))
	buf.WriteString("\r\n")
	return nil
}

// Markdown renders a dated title, a pipe table and the coverage note.
func Markdown(reports *models.HostReports, generatedAt time.Time) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Monthly Patching Report - %s\n\n", generatedAt.Format("2006-01-02"))

	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(models.Columns)
	for _, record := range reports.Records() {
		row := record.Row()
		for i := range row {
			row[i] = markdownCell(row[i])
		}
		table.Append(row)
	}
	table.Render()

	buf.WriteString("\n---\n\n")
	buf.WriteString(markdownNote)
	return buf.Bytes()
}

var lineBreaks = strings.NewReplacer("\r\n", "<br>", "\r", "<br>", "\n", "<br>")

// markdownCell keeps a multi-line value inside a single table row.
func markdownCell(value string) string {
	return lineBreaks.Replace(value)
}
