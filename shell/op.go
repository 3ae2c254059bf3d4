package shell

import (
	"strings"

	sortedmap "MVDB/map"
)

type OpType string

const (
	OpSet     OpType = "set"
	OpGet     OpType = "get"
	OpHas     OpType = "has"
	OpPop     OpType = "pop"
	OpPopItem OpType = "popitem"
	OpDel     OpType = "del"
	OpLen     OpType = "len"
	OpValues  OpType = "values"
	OpKeys    OpType = "keys"
	OpMin     OpType = "min"
	OpMax     OpType = "max"
	OpShow    OpType = "show"
	OpWrite   OpType = "write"
)

// openBound stands for a missing range end in values and keys.
const openBound = "-"

type Op struct {
	Type  OpType
	Key   string
	Value string
	// pop only: Value is the default
	HasDefault bool
	Range      sortedmap.Range[string]
}

// arity is the accepted argument counts per op, min then max.
var arity = map[OpType][2]int{
	OpSet:     {2, 2},
	OpGet:     {1, 1},
	OpHas:     {1, 1},
	OpPop:     {1, 2},
	OpPopItem: {0, 0},
	OpDel:     {1, 1},
	OpLen:     {0, 0},
	OpValues:  {0, 2},
	OpKeys:    {0, 2},
	OpMin:     {0, 0},
	OpMax:     {0, 0},
	OpShow:    {0, 0},
	OpWrite:   {1, 1},
}

// quiet ops print nothing on success.
func (t OpType) quiet() bool {
	return t == OpSet || t == OpDel || t == OpWrite
}

// ParseOp reads one command line. Blank lines yield ok == false.
func ParseOp(line string) (op Op, err Err, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Op{}, OK, false
	}
	op.Type = OpType(strings.ToLower(fields[0]))
	args := fields[1:]
	bounds, known := arity[op.Type]
	if !known {
		return op, ErrUnknownOp, true
	}
	if len(args) < bounds[0] || len(args) > bounds[1] {
		return op, ErrArgs, true
	}

	switch op.Type {
	case OpSet:
		op.Key, op.Value = args[0], args[1]
	case OpPop:
		op.Key = args[0]
		if len(args) == 2 {
			op.Value, op.HasDefault = args[1], true
		}
	case OpGet, OpHas, OpDel, OpWrite:
		op.Key = args[0]
	case OpValues, OpKeys:
		switch len(args) {
		case 1:
			return op, ErrArgs, true
		case 2:
			op.Range = sortedmap.Bounds(bound(args[0]), bound(args[1]))
		}
	}
	return op, OK, true
}

func bound(s string) *string {
	if s == openBound {
		return nil
	}
	return &s
}
