// Package prompt renders the analyst instruction sent to the chat model.
//
// The template is embedded at compile time and bound to the Data struct, so
// every placeholder resolves to a typed field rather than a map key.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/iWorld-y/sales_assistant/app/sales_assistant/pkg/search"
)

// NoDataMarker replaces the company data block when the search returned nothing.
const NoDataMarker = "No data found."

// TaskHeaders are the six enumerated analysis tasks, in order.
var TaskHeaders = []string{
	"Company Overview",
	"Competitive Analysis",
	"Key Leaders and Public Statements",
	"Strategic Insights",
	"Actionable Recommendations",
	"Supporting Resources",
}

// ErrSubstitution is returned when a placeholder cannot be bound.
var ErrSubstitution = errors.New("template substitution failed")

//go:embed report.tmpl
var reportTemplateRaw string

var reportTemplate = template.Must(template.New("report").
	Option("missingkey=error").
	Funcs(template.FuncMap{
		"inc":    func(i int) int { return i + 1 },
		"noData": func() string { return NoDataMarker },
	}).
	Parse(reportTemplateRaw))

// Data is the record bound to the report template. Optional fields left
// empty render as empty strings.
type Data struct {
	ProductName        string
	ProductCategory    string
	CompanyURL         string
	Competitors        string
	CompetitorsURL     string
	TargetCustomer     string
	ValueProposition   string
	CompanyInformation []search.Result
}

// Assemble renders the report prompt. It has no side effects.
func Assemble(d Data) (string, error) {
	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSubstitution, err)
	}
	return sb.String(), nil
}

// Placeholders lists the top-level field names the template references.
func Placeholders() []string {
	seen := make(map[string]struct{})
	walk(reportTemplate.Tree.Root, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func walk(node parse.Node, seen map[string]struct{}) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			walk(c, seen)
		}
	case *parse.ActionNode:
		walk(n.Pipe, seen)
	case *parse.PipeNode:
		if n == nil {
			return
		}
		for _, cmd := range n.Cmds {
			walk(cmd, seen)
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			walk(arg, seen)
		}
	case *parse.FieldNode:
		seen[n.Ident[0]] = struct{}{}
	case *parse.IfNode:
		walkBranch(&n.BranchNode, seen)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, seen)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, seen)
	}
}

func walkBranch(b *parse.BranchNode, seen map[string]struct{}) {
	walk(b.Pipe, seen)
	walk(b.List, seen)
	walk(b.ElseList, seen)
}
