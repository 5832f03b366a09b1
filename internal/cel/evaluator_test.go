package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jtx/pkg/accesslog"
	"github.com/oakwood-commons/jtx/pkg/tree"
)

func sampleNode() *tree.Node {
	v := tree.ObjectValue(
		tree.F("a", tree.ObjectValue(tree.F("b", tree.IntValue(1)), tree.F("c", tree.StringValue("two")))),
		tree.F("list", tree.ArrayValue(tree.IntValue(10), tree.IntValue(20))),
	)
	return tree.Annotate(v, accesslog.Log{
		"a.b":    {Count: 5},
		"list.1": {Count: 2},
	})
}

func TestEvaluate_PlainData(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	tests := []struct {
		name string
		expr string
		data any
		want any
	}{
		{"field", "_.name", map[string]any{"name": "test"}, "test"},
		{"number", "_.count", map[string]any{"count": 42}, int64(42)},
		{"index", "_[1]", []any{"first", "second"}, "second"},
		{"nested", "_.user.email", map[string]any{"user": map[string]any{"email": "x@y"}}, "x@y"},
		{"string ext", `_.s.upperAscii()`, map[string]any{"s": "abc"}, "ABC"},
		{"map macro", "_.map(x, x * 2)", []any{1, 2}, []any{int64(2), int64(4)}},
		{"map literal", `{"k": 1}`, nil, map[string]any{"k": int64(1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.expr, tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	_, err = eval.Evaluate("_.(", nil)
	assert.ErrorContains(t, err, "compilation error")

	_, err = eval.Evaluate("_.missing", map[string]any{})
	assert.ErrorContains(t, err, "eval error")
}

func TestEvaluateNode_WrappedForm(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)
	n := sampleNode()

	got, err := eval.EvaluateNode("_.value.a.value.b.accessed", n)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	got, err = eval.EvaluateNode("_.value.a.value.c.value", n)
	require.NoError(t, err)
	assert.Equal(t, "two", got)

	got, err = eval.EvaluateNode("_.value.list.value.filter(x, x.accessed > 1).map(x, x.value)", n)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(20)}, got)
}

func TestEvaluateNode_FilteredTree(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	n := sampleNode()
	filtered := tree.Filter(n, accesslog.Log{"a.b": {Count: 5}}, tree.ModeAccessed)
	got, err := eval.EvaluateNode(`has(_.value.list)`, filtered)
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestFunctions(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	funcs := eval.Functions()
	assert.Contains(t, funcs, "size")
	assert.Contains(t, funcs, "filter")
	assert.Contains(t, funcs, "upperAscii")
	for _, f := range funcs {
		assert.False(t, isOperator(f), f)
	}
	for i := 1; i < len(funcs); i++ {
		assert.LessOrEqual(t, funcs[i-1], funcs[i])
	}
}
