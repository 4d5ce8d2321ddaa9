package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/codeguard/pkg/types"
	"github.com/beevik/etree"
)

// JUnitRenderer writes one test suite per file. Error-severity violations
// are failures; warnings and info are attached as system output.
type JUnitRenderer struct {
	Root string
}

// Render writes the report
func (r *JUnitRenderer) Render(w io.Writer, report *types.Report) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", "codeguard")
	suites.CreateAttr("tests", strconv.Itoa(len(report.Violations)))
	suites.CreateAttr("failures", strconv.Itoa(report.Counts.Error))
	suites.CreateAttr("time", fmt.Sprintf("%.3f", report.Duration.Seconds()))

	order, groups := report.ByPath()
	for _, path := range order {
		shown := displayPath(r.Root, path)
		vs := groups[path]

		suite := suites.CreateElement("testsuite")
		suite.CreateAttr("name", shown)
		suite.CreateAttr("tests", strconv.Itoa(len(vs)))
		suite.CreateAttr("failures", strconv.Itoa(countSeverity(vs, types.SeverityError)))

		for _, v := range vs {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("classname", shown)
			tc.CreateAttr("name", fmt.Sprintf("%s:%s", v.RuleID, position(v)))

			body := v.Message
			if v.Context != "" {
				body += "\n" + v.Context
			}
			if v.Severity == types.SeverityError {
				failure := tc.CreateElement("failure")
				failure.CreateAttr("message", v.Message)
				failure.CreateAttr("type", v.RuleID)
				failure.SetText(body)
				continue
			}
			tc.CreateElement("system-out").SetText(fmt.Sprintf("[%s] %s", v.Severity, body))
		}
	}

	if len(order) == 0 {
		suite := suites.CreateElement("testsuite")
		suite.CreateAttr("name", "codeguard")
		suite.CreateAttr("tests", "1")
		suite.CreateAttr("failures", "0")
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", "codeguard")
		tc.CreateAttr("name", fmt.Sprintf("%d files analyzed", report.FilesAnalyzed))
	}

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}

func countSeverity(vs []types.Violation, s types.Severity) int {
	n := 0
	for _, v := range vs {
		if v.Severity == s {
			n++
		}
	}
	return n
}
