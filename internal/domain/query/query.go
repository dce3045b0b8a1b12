package query

// AllFields is the field code meaning "search every field".
const AllFields = "AllFields"

// Query is an abstract search query: a Term or a Group.
type Query interface {
	isQuery()
}

// Operator joins the members of a Group.
type Operator string

// Boolean operators.
const (
	And Operator = "AND"
	Or  Operator = "OR"
	Not Operator = "NOT"
)

// IsValid checks if the operator is one of the supported values.
func (o Operator) IsValid() bool {
	return o == And || o == Or || o == Not
}

// Term is a free-text string scoped to a field code.
type Term struct {
	field string
	text  string
}

// NewTerm creates a term. An empty field means AllFields.
func NewTerm(field, text string) Term {
	if field == "" {
		field = AllFields
	}
	return Term{field: field, text: text}
}

func (Term) isQuery() {}

// Field returns the field code.
func (t Term) Field() string { return t.field }

// Text returns the unescaped search text.
func (t Term) Text() string { return t.text }

// Group is an ordered list of sub-queries joined by an operator.
type Group struct {
	queries  []Query
	operator Operator
	negated  bool
}

// NewGroup creates a group. An invalid operator falls back to And.
func NewGroup(op Operator, negated bool, queries ...Query) Group {
	if !op.IsValid() {
		op = And
	}
	return Group{queries: queries, operator: op, negated: negated}
}

func (Group) isQuery() {}

// Queries returns the member queries in order.
func (g Group) Queries() []Query { return g.queries }

// Operator returns the join operator.
func (g Group) Operator() Operator { return g.operator }

// IsNegated reports whether the whole group is excluded.
func (g Group) IsNegated() bool { return g.negated }
