package parse

import "fmt"

type (
	tokenType string
	// LineInfo is a shared struct that is used for tracking where a
	// declaration originated from in the source file.
	LineInfo struct {
		Line   int64
		Column int64
	}
	token struct {
		LineInfo
		Kind      tokenType
		StringVal string
	}
)

const (
	tokenOpenParen  tokenType = "("
	tokenCloseParen tokenType = ")"
	tokenOpenCurly  tokenType = "{"
	tokenCloseCurly tokenType = "}"
	tokenOpenAngle  tokenType = "<"
	tokenCloseAngle tokenType = ">"
	tokenComma      tokenType = ","
	tokenColon      tokenType = ":"
	tokenQuestion   tokenType = "?"
	tokenUnion      tokenType = "|"
	tokenIntersect  tokenType = "&"
	tokenArrow      tokenType = "->"
	tokenClass      tokenType = "class"
	tokenInterface  tokenType = "interface"
	tokenRaises     tokenType = "raises"
	tokenIdentifier tokenType = "identifier"
	tokenComment    tokenType = "comment"
	tokenEOS        tokenType = "<EOS>"
)

var keywords = map[string]tokenType{
	string(tokenClass):     tokenClass,
	string(tokenInterface): tokenInterface,
	string(tokenRaises):    tokenRaises,
}

func (tk *token) String() string {
	switch tk.Kind {
	case tokenIdentifier:
		return fmt.Sprintf("<%v>", tk.StringVal)
	case tokenComment:
		return fmt.Sprintf("# %v", tk.StringVal)
	default:
		return string(tk.Kind)
	}
}
