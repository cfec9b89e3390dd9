package htmlrender

import (
	"errors"
	"fmt"
	"text/template/parse"
)

// ValidationError reports a template field that has no matching variable.
type ValidationError struct {
	TemplateName string
	FieldPath    string
	Err          error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("template '%s' validation error: '%s' - '%v'", e.TemplateName, e.FieldPath, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

var errMissingVariable = errors.New("variable not provided")

// treeLookup resolves an associated template name to its parse tree, or nil.
type treeLookup func(name string) *parse.Tree

// validateTemplateFields checks that every top-level field the template reads
// from the root data is present in vars. Templates invoked with the root data
// are checked too when lookup resolves them.
func validateTemplateFields(name string, tree *parse.Tree, vars Vars, lookup treeLookup) error {
	if tree == nil {
		return nil
	}

	for _, field := range uniqueFields(extractTemplateFields(tree.Root, lookup)) {
		if _, ok := vars[field]; !ok {
			return &ValidationError{
				TemplateName: name,
				FieldPath:    field,
				Err:          errMissingVariable,
			}
		}
	}
	return nil
}

// extractTemplateFields returns the first identifier of every field read from
// the root data: dot fields outside range and with bodies, and $ chains
// anywhere. A {{template}} call passing the root data is followed once per name.
func extractTemplateFields(node parse.Node, lookup treeLookup) []string {
	var fields []string
	followed := make(map[string]bool)

	var visit func(node parse.Node, atRoot bool)
	visit = func(node parse.Node, atRoot bool) {
		if node == nil {
			return
		}

		switch n := node.(type) {
		case *parse.FieldNode:
			if atRoot && len(n.Ident) > 0 {
				fields = append(fields, n.Ident[0])
			}
		case *parse.VariableNode:
			if len(n.Ident) > 1 && n.Ident[0] == "$" {
				fields = append(fields, n.Ident[1])
			}
		case *parse.ListNode:
			if n == nil {
				return
			}
			for _, child := range n.Nodes {
				visit(child, atRoot)
			}
		case *parse.ActionNode:
			visit(n.Pipe, atRoot)
		case *parse.PipeNode:
			if n == nil {
				return
			}
			for _, cmd := range n.Cmds {
				visit(cmd, atRoot)
			}
		case *parse.CommandNode:
			for _, arg := range n.Args {
				visit(arg, atRoot)
			}
		case *parse.ChainNode:
			visit(n.Node, atRoot)
		case *parse.IfNode:
			visit(n.Pipe, atRoot)
			visit(n.List, atRoot)
			visit(n.ElseList, atRoot)
		case *parse.RangeNode:
			visit(n.Pipe, atRoot)
			visit(n.List, false)
			visit(n.ElseList, atRoot)
		case *parse.WithNode:
			visit(n.Pipe, atRoot)
			visit(n.List, false)
			visit(n.ElseList, atRoot)
		case *parse.TemplateNode:
			visit(n.Pipe, atRoot)
			if lookup == nil || followed[n.Name] || !passesRoot(n.Pipe, atRoot) {
				return
			}
			followed[n.Name] = true
			if tree := lookup(n.Name); tree != nil {
				visit(tree.Root, true)
			}
		}
	}

	visit(node, true)
	return fields
}

// passesRoot reports whether pipe evaluates to the root data: a bare dot at
// root level, or $.
func passesRoot(pipe *parse.PipeNode, atRoot bool) bool {
	if pipe == nil || len(pipe.Decl) > 0 || len(pipe.Cmds) != 1 || len(pipe.Cmds[0].Args) != 1 {
		return false
	}

	switch arg := pipe.Cmds[0].Args[0].(type) {
	case *parse.DotNode:
		return atRoot
	case *parse.VariableNode:
		return len(arg.Ident) == 1 && arg.Ident[0] == "$"
	}
	return false
}

func uniqueFields(fields []string) []string {
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
