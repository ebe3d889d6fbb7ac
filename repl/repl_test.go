package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"cxxlint/internal/config"
)

const commaForm = `(translation-unit file="main.cxx"
  (var name="a" type="int")
  (function name="f" type="void" loc=<1:6>
    (compound
      (binary op="," loc=<2:4> begin=<2:3> end=<2:6>
        (decl-ref name="a" loc=<2:3>)
        (decl-ref name="a" loc=<2:6>)))))
`

func run(input string) string {
	var out bytes.Buffer
	Start(strings.NewReader(input), &out, config.Default())
	return out.String()
}

func TestEvalAfterBalancedForm(t *testing.T) {
	out := run(commaForm)
	assert.Contains(t, out, "W3001")
	assert.Contains(t, out, "main.cxx:2:4")
	assert.Contains(t, out, CONTINUE)
	assert.Contains(t, out, "1 warning")
}

func TestCleanForm(t *testing.T) {
	out := run(`(translation-unit file="main.cxx" (var name="a" type="int"))` + "\n")
	assert.Contains(t, out, "no findings")
}

func TestMalformedForm(t *testing.T) {
	out := run(`(translation-unit file="main.cxx" (bogus))` + "\n")
	assert.Contains(t, out, "E0100")
}

func TestCommands(t *testing.T) {
	out := run(":disable commaoperator\n" + commaForm + ":checks\n:enable nothing\n:quit\n" + commaForm)
	assert.Contains(t, out, "commaoperator off")
	assert.Contains(t, out, "no findings")
	assert.Contains(t, out, `unknown check "nothing"`)
	assert.NotContains(t, out, "W3001")
}

func TestASTToggle(t *testing.T) {
	out := run(":ast\n" + commaForm)
	assert.Contains(t, out, "ast printing on")
	assert.Contains(t, out, "AST:")
}

func TestDepthIgnoresStringsAndComments(t *testing.T) {
	assert.Equal(t, 1, depth(`(a name="(" ; )`+"\n"))
	assert.Equal(t, 0, depth(`(a name="\")")`))
	assert.Equal(t, 0, depth(`)`))
}
