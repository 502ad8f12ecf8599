package cli

import (
	"fmt"
	"strings"

	"github.com/gbasic-lang/gbc/ast"
)

// Dump renders prog as an indented tree, used by --dump-ast. It favors
// readability over round-tripping: each node prints a short kind label
// and the handful of fields that distinguish it.
func Dump(prog *ast.Program) string {
	var b strings.Builder
	for _, stmt := range prog.Statements {
		dumpStmt(&b, stmt, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpStmt(b *strings.Builder, stmt ast.Statement, depth int) {
	indent(b, depth)
	switch s := stmt.(type) {
	case *ast.LetStmt:
		fmt.Fprintf(b, "Let %s\n", s.Name.Name)
		dumpExpr(b, s.Value, depth+1)
	case *ast.FunctionDecl:
		fmt.Fprintf(b, "Function %s(%d params)\n", s.Name.Name, len(s.Params))
		for _, stmt := range s.Body.Statements {
			dumpStmt(b, stmt, depth+1)
		}
	case *ast.IfStmt:
		b.WriteString("If\n")
		dumpExpr(b, s.Cond, depth+1)
		for _, stmt := range s.Then.Statements {
			dumpStmt(b, stmt, depth+1)
		}
		if s.Else != nil {
			indent(b, depth)
			b.WriteString("Else\n")
			for _, stmt := range s.Else.Statements {
				dumpStmt(b, stmt, depth+1)
			}
		}
	case *ast.WhileStmt:
		b.WriteString("While\n")
		dumpExpr(b, s.Cond, depth+1)
		for _, stmt := range s.Body.Statements {
			dumpStmt(b, stmt, depth+1)
		}
	case *ast.ForStmt:
		fmt.Fprintf(b, "For %s\n", s.Var.Name)
		dumpExpr(b, s.Iterable, depth+1)
		for _, stmt := range s.Body.Statements {
			dumpStmt(b, stmt, depth+1)
		}
	case *ast.MatchStmt:
		b.WriteString("Match\n")
		dumpExpr(b, s.Subject, depth+1)
		for _, arm := range s.Arms {
			indent(b, depth+1)
			b.WriteString("Arm\n")
			for _, stmt := range arm.Body.Statements {
				dumpStmt(b, stmt, depth+2)
			}
		}
	case *ast.ReturnStmt:
		b.WriteString("Return\n")
		if s.Value != nil {
			dumpExpr(b, s.Value, depth+1)
		}
	case *ast.BreakStmt:
		b.WriteString("Break\n")
	case *ast.ContinueStmt:
		b.WriteString("Continue\n")
	case *ast.ExpressionStmt:
		b.WriteString("ExpressionStmt\n")
		dumpExpr(b, s.Expr, depth+1)
	case *ast.BlockStmt:
		b.WriteString("Block\n")
		for _, stmt := range s.Block.Statements {
			dumpStmt(b, stmt, depth+1)
		}
	default:
		fmt.Fprintf(b, "%T\n", stmt)
	}
}

func dumpExpr(b *strings.Builder, expr ast.Expression, depth int) {
	indent(b, depth)
	switch e := expr.(type) {
	case *ast.Literal:
		fmt.Fprintf(b, "Literal %v\n", literalValue(e))
	case *ast.IdentifierExpr:
		fmt.Fprintf(b, "Identifier %s\n", e.Name.Name)
	case *ast.BinaryOpExpr:
		fmt.Fprintf(b, "BinaryOp %v\n", e.Op)
		dumpExpr(b, e.Left, depth+1)
		dumpExpr(b, e.Right, depth+1)
	case *ast.UnaryOpExpr:
		fmt.Fprintf(b, "UnaryOp %v\n", e.Op)
		dumpExpr(b, e.Operand, depth+1)
	case *ast.CallExpr:
		b.WriteString("Call\n")
		dumpExpr(b, e.Callee, depth+1)
		for _, a := range e.Args {
			dumpExpr(b, a, depth+1)
		}
	case *ast.IndexExpr:
		b.WriteString("Index\n")
		dumpExpr(b, e.Object, depth+1)
		dumpExpr(b, e.Index, depth+1)
	case *ast.MethodChainExpr:
		fmt.Fprintf(b, "MethodChain %s\n", e.Base)
		for _, step := range e.Chain {
			indent(b, depth+1)
			fmt.Fprintf(b, ".%s(%d args)\n", step.Method.Name, len(step.Args))
		}
	case *ast.FieldAccessExpr:
		fmt.Fprintf(b, "FieldAccess .%s\n", e.Field.Name)
		dumpExpr(b, e.Object, depth+1)
	case *ast.ArrayExpr:
		fmt.Fprintf(b, "Array(%d elements)\n", len(e.Elements))
		for _, el := range e.Elements {
			dumpExpr(b, el, depth+1)
		}
	case *ast.AssignmentExpr:
		b.WriteString("Assignment\n")
		dumpExpr(b, e.Target, depth+1)
		dumpExpr(b, e.Value, depth+1)
	case *ast.StringInterpExpr:
		fmt.Fprintf(b, "StringInterp(%d parts)\n", len(e.Parts))
	case *ast.RangeExpr:
		b.WriteString("Range\n")
		dumpExpr(b, e.Start, depth+1)
		dumpExpr(b, e.End, depth+1)
	default:
		fmt.Fprintf(b, "%T\n", expr)
	}
}

func literalValue(l *ast.Literal) any {
	switch l.Kind {
	case ast.LitInt:
		return l.Int
	case ast.LitFloat:
		return l.Float
	case ast.LitString:
		return l.String
	case ast.LitBool:
		return l.Bool
	default:
		return nil
	}
}
