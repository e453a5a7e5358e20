package validation

import (
	"strings"
	"testing"

	"github.com/ginjaninja78/pos-receipt-converter/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wellFormed() []string {
	return []string{"0001", "A", "I1", "Apple", "1.00", "2", "2.00", "0", "0", "2.00",
		"0", "0", "2.00", "0", "CASH", "", "2.00", "0", "0", "0"}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		rules  []string
	}{
		{
			name:   "well-formed record",
			fields: wellFormed(),
			rules:  nil,
		},
		{
			name:   "short record",
			fields: []string{"0001", "A", "I1"},
			rules:  []string{RuleFieldCount},
		},
		{
			name: "non-numeric grand total",
			fields: func() []string {
				f := wellFormed()
				f[types.FieldGrandTotalUSD] = "abc"
				return f
			}(),
			rules: []string{RuleNumeric},
		},
		{
			name: "short record with bad price",
			fields: func() []string {
				return []string{"0001", "A", "I1", "Apple", "x"}
			}(),
			rules: []string{RuleFieldCount, RuleNumeric},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := Check(types.TransactionRecord{Fields: tt.fields, LineNumber: 4})

			var rules []string
			for _, issue := range issues {
				rules = append(rules, issue.Rule)
				assert.Equal(t, 4, issue.LineNumber)
			}
			assert.Equal(t, tt.rules, rules)
		})
	}
}

func TestCollector(t *testing.T) {
	var c Collector

	c.Observe(types.TransactionRecord{Fields: wellFormed(), LineNumber: 1})
	c.Observe(types.TransactionRecord{Fields: []string{"x", "y", "z", "w", "bad"}, LineNumber: 2})
	c.Observe(types.TransactionRecord{Fields: []string{""}, LineNumber: 3})

	assert.Equal(t, 3, c.Records)
	assert.Len(t, c.Issues, 3)
	assert.Equal(t, 2, c.MalformedRecords())
}

func TestIssueError(t *testing.T) {
	issue := &Issue{Rule: RuleNumeric, Field: "Unit Price", Value: "x", Message: "bad", LineNumber: 7}
	assert.Equal(t, "[WARNING] Line 7, Field 'Unit Price': bad (value: 'x')", issue.Error())

	short := &Issue{Rule: RuleFieldCount, Message: "expected 20 fields, found 1", LineNumber: 2}
	assert.Equal(t, "[WARNING] Line 2: expected 20 fields, found 1", short.Error())
}

func TestFormatIssues(t *testing.T) {
	assert.Equal(t, "No record issues.", FormatIssues(nil))

	out := FormatIssues([]*Issue{{Message: "one", LineNumber: 1}, {Message: "two", LineNumber: 2}})
	require.True(t, strings.HasPrefix(out, "Found 2 record issue(s):\n"))
	assert.Contains(t, out, "2. [WARNING] Line 2: two")
}
