// Package output renders a report in one of the supported formats: styled
// text grouped by file, JSON, JUnit XML, or GitHub workflow annotations.
//
// Renderers only read the report. Severity filtering happens before
// rendering through types.Report.Filter.
package output
