// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

// Operator describes the binary Boolean operations available through Apply
// and AppEx. Layout and truth tables are adapted from rudd's Operator
// type (github.com/dalzilio/rudd, operator.go).
type Operator int

const (
	OPand Operator = iota
	OPxor
	OPor
	OPnand
	OPnor
	OPimp
	OPbiimp
	OPdiff
	opnot // unary, never passed to apply/appquant
)

var opnames = [9]string{
	OPand:   "and",
	OPxor:   "xor",
	OPor:    "or",
	OPnand:  "nand",
	OPnor:   "nor",
	OPimp:   "imp",
	OPbiimp: "biimp",
	OPdiff:  "diff",
	opnot:   "not",
}

func (op Operator) String() string {
	return opnames[op]
}

// opres gives the result of applying op to the two Boolean constants, indexed
// [op][left][right].
var opres = [9][2][2]int{
	OPand:   {0: [2]int{0: 0, 1: 0}, 1: [2]int{0: 0, 1: 1}},
	OPxor:   {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 1, 1: 0}},
	OPor:    {0: [2]int{0: 0, 1: 1}, 1: [2]int{0: 1, 1: 1}},
	OPnand:  {0: [2]int{0: 1, 1: 1}, 1: [2]int{0: 1, 1: 0}},
	OPnor:   {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 0, 1: 0}},
	OPimp:   {0: [2]int{0: 1, 1: 1}, 1: [2]int{0: 0, 1: 1}},
	OPbiimp: {0: [2]int{0: 1, 1: 0}, 1: [2]int{0: 0, 1: 1}},
	OPdiff:  {0: [2]int{0: 0, 1: 0}, 1: [2]int{0: 1, 1: 0}},
}
