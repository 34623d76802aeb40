package codegen

import (
	"fmt"
	"math"

	"github.com/pflow-xyz/go-regalloc/expr"
)

// Execute runs a three-address instruction sequence over a register file,
// reading leaf operands from the given variable bindings. It returns the
// value left in the destination register of the final instruction.
//
// This is how the tests check that an allocation is semantics-preserving;
// it is also exposed for callers that want to spot-check emitted code.
func Execute(instructions []Instruction, bindings map[string]float64) (float64, error) {
	if len(instructions) == 0 {
		return 0, fmt.Errorf("no instructions to execute")
	}

	registers := make(map[string]float64)
	for _, in := range instructions {
		operands := make([]float64, len(in.Operands))
		for i, o := range in.Operands {
			v, err := operandValue(o, registers, bindings)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", in, err)
			}
			operands[i] = v
		}

		var result float64
		if len(operands) == 1 {
			if in.Op != "-" {
				return 0, fmt.Errorf("%s: unknown unary operator %q", in, in.Op)
			}
			result = -operands[0]
		} else {
			var err error
			result, err = applyBinary(in.Op, operands[0], operands[1])
			if err != nil {
				return 0, fmt.Errorf("%s: %w", in, err)
			}
		}
		registers[in.Dest] = result
	}

	return registers[instructions[len(instructions)-1].Dest], nil
}

func operandValue(o Operand, registers, bindings map[string]float64) (float64, error) {
	if o.Register != "" {
		v, ok := registers[o.Register]
		if !ok {
			return 0, fmt.Errorf("read of unset register %s", o.Register)
		}
		return v, nil
	}
	if v, ok := expr.ParseNumber(o.Text); ok {
		return v, nil
	}
	v, ok := bindings[o.Text]
	if !ok {
		return 0, fmt.Errorf("unbound variable %q", o.Text)
	}
	return v, nil
}

func applyBinary(op string, left, right float64) (float64, error) {
	switch op {
	case "+":
		return left + right, nil
	case "-":
		return left - right, nil
	case "*":
		return left * right, nil
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return left / right, nil
	case "^":
		return math.Pow(left, right), nil
	default:
		return 0, fmt.Errorf("unknown operator %q", op)
	}
}
