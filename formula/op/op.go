package op

type Op rune

const (
	Invalid Op = 0

	EOF Op = 1 << iota
	Ident
	Cell
	Number
	Literal
	Add
	Sub
	Mul
	Div
	Pow
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	Comma
	Begin
	End
	RangeRef
)

const (
	groupTok Op = 1 << 30
)

const (
	BegGrp = groupTok | Begin
	EndGrp = groupTok | End
)

var mapping = map[Op]string{
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Pow:      "^",
	Div:      "/",
	Eq:       "=",
	Ne:       "<>",
	Lt:       "<",
	Le:       "<=",
	Gt:       ">",
	Ge:       ">=",
	RangeRef: ":",
}

func Symbol(oper Op) string {
	return mapping[oper]
}

func IsComparison(oper Op) bool {
	switch oper {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	default:
		return false
	}
}
