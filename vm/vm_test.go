package vm_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/rami3l/tallow/vm"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func init() { logrus.SetLevel(logrus.DebugLevel) }

type testPair struct{ input, output string }

func assertEval(t *testing.T, errSubstr string, pairs ...testPair) {
	t.Helper()
	for _, pair := range pairs {
		val, err := vm.NewVM().Interpret(pair.input)
		switch {
		case errSubstr == "":
			assert.NoError(t, err)
		case err != nil:
			assert.ErrorContains(t, err, errSubstr)
			continue
		default:
			t.Fatalf("expected an error containing %q, got none", errSubstr)
		}
		assert.Equal(t, pair.output, fmt.Sprintf("%s", val))
	}
}

func TestArithmetic(t *testing.T) {
	assertEval(t, "",
		testPair{"1 + 2 * 3", "7"},
		testPair{"(-1 + 2) * 3 - -4", "7"},
		testPair{"2 + 2", "4"},
		testPair{"11.4 + 5.14 / 19198.10", "11.400267734827926"},
	)
}

func TestComparisonAndEquality(t *testing.T) {
	assertEval(t, "",
		testPair{"-6 * (-4 + -3) == 6*4 + 2 * ((((9))))", "true"},
		testPair{"!(5 - 4 > 3 * 2 == !nil)", "true"},
		testPair{"nil == false", "false"},
		testPair{"nil == nil", "true"},
		testPair{"1 == 1.0", "true"},
		testPair{"1 != 2", "true"},
		testPair{"1 <= 1", "true"},
		testPair{"2 >= 3", "false"},
	)
}

func TestTruthiness(t *testing.T) {
	assertEval(t, "",
		testPair{"!nil", "true"},
		testPair{"!false", "true"},
		testPair{"!true", "false"},
		testPair{"!0", "false"}, // 0 is truthy.
		testPair{"!!0", "true"},
	)
}

func TestDivisionByZeroIsNotAnError(t *testing.T) {
	val, err := vm.NewVM().Interpret("1 / 0")
	assert.NoError(t, err)
	assert.Equal(t, "+Inf", fmt.Sprintf("%s", val))

	val, err = vm.NewVM().Interpret("-1 / 0")
	assert.NoError(t, err)
	assert.Equal(t, "-Inf", fmt.Sprintf("%s", val))

	val, err = vm.NewVM().Interpret("0 / 0")
	assert.NoError(t, err)
	assert.True(t, math.IsNaN(float64(val.(vm.VNum))))
}

func TestNaNIsNeverEqualToItselfThroughOpEqual(t *testing.T) {
	assertEval(t, "",
		testPair{"0 / 0 == 0 / 0", "false"},
		testPair{"(0 / 0) != (0 / 0)", "true"},
	)
}

func TestRuntimeTypeErrors(t *testing.T) {
	assertEval(t, "Operands must be numbers.",
		testPair{"1 + true", ""},
		testPair{"1 < nil", ""},
		testPair{`true * false`, ""},
	)
	assertEval(t, "Operand must be a number.", testPair{"-nil", ""})
}

func TestCompileErrors(t *testing.T) {
	assertEval(t, "Expect ')' after expression.", testPair{"(1 + 2", ""})
	assertEval(t, "Expect expression.", testPair{"", ""})
	assertEval(t, "Expect end of expression.", testPair{"1 2", ""})
}

func TestLongArithmeticChains(t *testing.T) {
	assertEval(t, "", testPair{
		heredoc.Doc(`
			4/1 - 4/3 + 4/5 - 4/7 + 4/9 - 4/11
				+ 4/13 - 4/15 + 4/17 - 4/19 + 4/21 - 4/23
		`),
		"3.058402765927333",
	})
}

func TestConstantBudgetOverflow(t *testing.T) {
	src := "0"
	for i := 0; i < 300; i++ {
		src += fmt.Sprintf(" + %d", i)
	}
	_, err := vm.NewVM().Interpret(src)
	assert.ErrorContains(t, err, "Too many constants in one chunk.")
}
