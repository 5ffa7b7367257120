package query

// Expression is a boolean expression that can be evaluated against a record
type Expression interface {
	Evaluate(record map[string]interface{}) bool
}

// Condition is a simple filter (leaf node)
type Condition struct {
	Filter *Filter
}

func (c *Condition) Evaluate(record map[string]interface{}) bool {
	return c.Filter.Match(record)
}

// AndExpression represents Logical AND
type AndExpression struct {
	Left  Expression
	Right Expression
}

func (a *AndExpression) Evaluate(record map[string]interface{}) bool {
	return a.Left.Evaluate(record) && a.Right.Evaluate(record)
}

// OrExpression represents Logical OR
type OrExpression struct {
	Left  Expression
	Right Expression
}

func (o *OrExpression) Evaluate(record map[string]interface{}) bool {
	return o.Left.Evaluate(record) || o.Right.Evaluate(record)
}

// NotExpression negates its operand
type NotExpression struct {
	Operand Expression
}

func (n *NotExpression) Evaluate(record map[string]interface{}) bool {
	return !n.Operand.Evaluate(record)
}

// All folds expressions with AND; nil when there are none.
func All(exprs ...Expression) Expression {
	var out Expression
	for _, e := range exprs {
		if out == nil {
			out = e
			continue
		}
		out = &AndExpression{Left: out, Right: e}
	}
	return out
}

// Any folds expressions with OR; nil when there are none.
func Any(exprs ...Expression) Expression {
	var out Expression
	for _, e := range exprs {
		if out == nil {
			out = e
			continue
		}
		out = &OrExpression{Left: out, Right: e}
	}
	return out
}
