package tests_test

import (
	"fmt"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"
)

// expectIssueRow returns a comparator verifying the ranked issue table has a
// row pairing the given tier and category.
func expectIssueRow(tier, category string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for _, line := range strings.Split(stdout, "\n") {
			if strings.Contains(line, " "+tier+" ") && strings.Contains(line, " "+category+" ") {
				return
			}
		}

		testing.Log(fmt.Sprintf("no %s issue at tier %s in output:\n%s", category, tier, stdout))
		testing.Fail()
	}
}

// expectNoIssueRow returns a comparator verifying no issue table row carries
// the given category.
func expectNoIssueRow(category string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for _, line := range strings.Split(stdout, "\n") {
			if !strings.Contains(line, "│") {
				continue
			}

			if strings.Contains(line, " "+category+" ") {
				testing.Log(fmt.Sprintf("unexpected %s issue row:\n%s", category, stdout))
				testing.Fail()

				return
			}
		}
	}
}

// expectMetric returns a comparator verifying the metrics table shows the
// given value for the given metric.
func expectMetric(name, valueSubstr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		for _, line := range strings.Split(stdout, "\n") {
			if strings.Contains(line, name) && strings.Contains(line, valueSubstr) {
				return
			}
		}

		testing.Log(fmt.Sprintf("metric %q with value %q not found in output:\n%s", name, valueSubstr, stdout))
		testing.Fail()
	}
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectMissing returns a comparator verifying the output does not contain a substring.
func expectMissing(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}
