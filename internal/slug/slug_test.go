package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize_ReplacementTable(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dot", "/datum.proc", "/datumdotproc"},
		{"angle brackets around colon", "/datum/proc/<T>:foo", "/datum/proc/greaterTlesscolonfoo"},
		{"query and amp", "/a?b&c", "/aquerybampc"},
		{"asterisk caret equals plus", "/x*y^z=w+v", "/xasteriskycaretzequalswplusv"},
		{"parens and squares", "/f(a)[b]", "/fleftparenarightparenleftsquarebrightsquare"},
		{"tilde vert exclaim", "/~a|b!", "/tildeavertbexclaim"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_PercentDecodesBeforeTable(t *testing.T) {
	// %20 decodes to a space, which is not reserved; %25 decodes to a
	// literal percent that the table then replaces.
	require.Equal(t, "/a b", Sanitize("/a%20b"))
	require.Equal(t, "/amodulob", Sanitize("/a%25b"))
}

func TestSanitize_DoubledSeparator(t *testing.T) {
	require.Equal(t, "/proc/slashweird", Sanitize("/proc//weird"))
}

func TestSanitize_TrailingIndexSegment(t *testing.T) {
	require.Equal(t, "/list/index_page", Sanitize("/list/index"))
}

func TestSanitize_OperatorHyphens(t *testing.T) {
	require.Equal(t, "/datum/proc/operatorminusminus", Sanitize("/datum/proc/operator--"))
	// Hyphens survive in non-operator paths.
	require.Equal(t, "/getting-started", Sanitize("/getting-started"))
}

func TestSanitize_StripsCurlyBraces(t *testing.T) {
	require.Equal(t, "/ab", Sanitize("/{a}b"))
}

func TestSanitize_IdempotentOnSafeInput(t *testing.T) {
	safe := "/DM/vars/something"
	require.Equal(t, safe, Sanitize(safe))
	require.Equal(t, Sanitize(safe), Sanitize(Sanitize(safe)))
}

func TestSanitize_Deterministic(t *testing.T) {
	in := "/datum/proc/<T>:foo"
	first := Sanitize(in)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Sanitize(in))
	}
}
