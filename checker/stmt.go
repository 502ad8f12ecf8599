package checker

import (
	"github.com/gbasic-lang/gbc/ast"
	"github.com/gbasic-lang/gbc/diag"
	"github.com/gbasic-lang/gbc/gbtypes"
)

// The checker does no loopDepth tracking: break/continue have no type of
// their own, the parser accepts them wherever a statement is expected,
// and a break/continue outside a loop is reported by the IR generator.

func (c *Checker) checkStmt(stmt ast.Statement) *diag.Error {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return c.checkLet(s)
	case *ast.FunctionDecl:
		return c.checkFunctionBody(s)
	case *ast.IfStmt:
		return c.checkIf(s)
	case *ast.ForStmt:
		return c.checkFor(s)
	case *ast.WhileStmt:
		return c.checkWhile(s)
	case *ast.MatchStmt:
		return c.checkMatch(s)
	case *ast.ReturnStmt:
		if s.Value != nil {
			_, err := c.checkExpr(s.Value)
			return err
		}
		return nil
	case *ast.BreakStmt, *ast.ContinueStmt:
		return nil
	case *ast.ExpressionStmt:
		_, err := c.checkExpr(s.Expr)
		return err
	case *ast.BlockStmt:
		return c.checkBlock(s.Block)
	default:
		return diag.NewInternal("checker: unhandled statement type %T", stmt)
	}
}

func (c *Checker) checkBlock(b *ast.Block) *diag.Error {
	c.scopes.PushScope()
	defer c.scopes.PopScope()
	for _, stmt := range b.Statements {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkLet(s *ast.LetStmt) *diag.Error {
	valueType, err := c.checkExpr(s.Value)
	if err != nil {
		return err
	}
	if s.TypeAnn != nil && !s.TypeAnn.CompatibleWith(valueType) {
		return diag.NewType(s.Spn, "cannot assign value of type %s to '%s' of declared type %s", valueType, s.Name.Name, s.TypeAnn)
	}
	bound := valueType
	if s.TypeAnn != nil {
		bound = *s.TypeAnn
	}
	c.scopes.Insert(s.Name.Name, bound, true)
	return nil
}

func (c *Checker) checkFunctionBody(fn *ast.FunctionDecl) *diag.Error {
	c.scopes.PushScope()
	defer c.scopes.PopScope()
	for _, p := range fn.Params {
		t := gbtypes.TUnknown
		if p.TypeAnn != nil {
			t = *p.TypeAnn
		}
		c.scopes.Insert(p.Name.Name, t, true)
	}
	for _, stmt := range fn.Body.Statements {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkIf(s *ast.IfStmt) *diag.Error {
	condType, err := c.checkExpr(s.Cond)
	if err != nil {
		return err
	}
	if !condType.CompatibleWith(gbtypes.TBool) {
		return diag.NewType(s.Cond.Span(), "if condition must be Bool, found %s", condType)
	}
	if err := c.checkBlock(s.Then); err != nil {
		return err
	}
	if s.Else != nil {
		return c.checkBlock(s.Else)
	}
	return nil
}

func (c *Checker) checkWhile(s *ast.WhileStmt) *diag.Error {
	condType, err := c.checkExpr(s.Cond)
	if err != nil {
		return err
	}
	if !condType.CompatibleWith(gbtypes.TBool) {
		return diag.NewType(s.Cond.Span(), "while condition must be Bool, found %s", condType)
	}
	return c.checkBlock(s.Body)
}

// checkFor special-cases a Range iterable per spec §4.3: the loop
// variable's type is Int regardless of what a generic expression check
// on the range would infer, since a Range is not itself a real value.
func (c *Checker) checkFor(s *ast.ForStmt) *diag.Error {
	var elemType gbtypes.Type
	if r, ok := s.Iterable.(*ast.RangeExpr); ok {
		if _, err := c.checkExpr(r.Start); err != nil {
			return err
		}
		if _, err := c.checkExpr(r.End); err != nil {
			return err
		}
		elemType = gbtypes.TInt
	} else {
		iterType, err := c.checkExpr(s.Iterable)
		if err != nil {
			return err
		}
		switch iterType.Kind {
		case gbtypes.Array:
			elemType = *iterType.Elem
		default:
			elemType = gbtypes.TInt
		}
	}

	c.scopes.PushScope()
	defer c.scopes.PopScope()
	c.scopes.Insert(s.Var.Name, elemType, true)
	for _, stmt := range s.Body.Statements {
		if err := c.checkStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkMatch(s *ast.MatchStmt) *diag.Error {
	subjectType, err := c.checkExpr(s.Subject)
	if err != nil {
		return err
	}
	for _, arm := range s.Arms {
		c.scopes.PushScope()
		switch pat := arm.Pattern.(type) {
		case *ast.LiteralPattern:
			litType := literalType(pat.Lit)
			if !litType.CompatibleWith(subjectType) {
				c.scopes.PopScope()
				return diag.NewType(pat.Span(), "match pattern of type %s does not match subject of type %s", litType, subjectType)
			}
		case *ast.IdentifierPattern:
			c.scopes.Insert(pat.Name.Name, subjectType, true)
		case *ast.WildcardPattern:
			// matches unconditionally, binds nothing
		}
		for _, stmt := range arm.Body.Statements {
			if err := c.checkStmt(stmt); err != nil {
				c.scopes.PopScope()
				return err
			}
		}
		c.scopes.PopScope()
	}
	return nil
}

func literalType(l *ast.Literal) gbtypes.Type {
	switch l.Kind {
	case ast.LitInt:
		return gbtypes.TInt
	case ast.LitFloat:
		return gbtypes.TFloat
	case ast.LitString:
		return gbtypes.TString
	case ast.LitBool:
		return gbtypes.TBool
	default:
		return gbtypes.TUnknown
	}
}
