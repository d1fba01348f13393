package parser

import "github.com/cwbudde/go-dws/pkg/token"

// Strategy is the action a RecoveryEngine chooses for a given parser error.
type Strategy int

const (
	// StrategyDropUntil consumes tokens until one in Set is next, then
	// consumes that token too.
	StrategyDropUntil Strategy = iota
	// StrategyAdd treats the error as recovered by pretending the expected
	// token was present, without consuming input.
	StrategyAdd
	// StrategyIgnore continues parsing from the current position.
	StrategyIgnore
	// StrategyUnrecoverable aborts the whole parse after recording the
	// diagnostic.
	StrategyUnrecoverable
)

// Recovery is the action the engine returns for one error occurrence.
type Recovery struct {
	Strategy Strategy
	Set      []token.Type // used by StrategyDropUntil
}

// ErrorKind enumerates the parameterized ParserErrorType values from
// spec.md §7. Context further narrows kinds that fork on where they
// occurred (e.g. ExpectedIdentifier in a function-parameter position vs a
// value-definition position).
type ErrorKind int

const (
	ExpectedTypeIdentifierDefinition ErrorKind = iota
	ExpectedTypeIdentifierFunction
	ExpectedParameterType
	ExpectedIdentifierFuncDef
	ExpectedIdentifierValue
	ExpectedFunctionApplication
	ExpectedFunctionArgumentEOF
	ExpectedFunctionArgumentOther
	ExpectedLeftParen
	ExpectedRightParen
	ExpectedRightParenFuncApp
	ExpectedLeftBrace
	ExpectedRightBrace
	ExpectedArrow
	ExpectedEqualAssignment
	ExpectedSemicolonStatement
	ExpectedSemicolonFunctionCall
	ExpectedOperator
	ExpectedExpression
	ExpectedTopLevelStatementEOF
	ExpectedTopLevelStatementKeyword
	ExpectedTopLevelStatementOther
	ExpectedBlockBodyPartEOF
	ExpectedBlockBodyPartOther
	InternalParserError
)

// Sync token sets named in spec.md §4.1's recovery table.
var (
	syncSemicolon = []token.Type{token.SEMI}
	syncRBrace    = []token.Type{token.RBRACE}
)

// RecoveryEngine maps a parser error to a Recovery action. It is pluggable
// per spec.md §4.1; DefaultRecoveryEngine implements the policy table
// given there verbatim.
type RecoveryEngine interface {
	Recover(kind ErrorKind) Recovery
}

// DefaultRecoveryEngine implements spec.md §4.1's policy table.
type DefaultRecoveryEngine struct{}

func (DefaultRecoveryEngine) Recover(kind ErrorKind) Recovery {
	switch kind {
	case ExpectedTypeIdentifierDefinition:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedTypeIdentifierFunction:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	case ExpectedParameterType:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	case ExpectedIdentifierFuncDef:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	case ExpectedIdentifierValue:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedFunctionApplication:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedFunctionArgumentEOF:
		return Recovery{Strategy: StrategyUnrecoverable}
	case ExpectedFunctionArgumentOther:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedLeftParen, ExpectedRightParen, ExpectedLeftBrace, ExpectedRightBrace:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	case ExpectedRightParenFuncApp:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedArrow:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	case ExpectedEqualAssignment:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedSemicolonStatement, ExpectedSemicolonFunctionCall, ExpectedOperator:
		return Recovery{Strategy: StrategyIgnore}
	case ExpectedExpression:
		return Recovery{Strategy: StrategyUnrecoverable}
	case ExpectedTopLevelStatementEOF:
		return Recovery{Strategy: StrategyUnrecoverable}
	case ExpectedTopLevelStatementKeyword:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	case ExpectedTopLevelStatementOther:
		return Recovery{Strategy: StrategyDropUntil, Set: syncSemicolon}
	case ExpectedBlockBodyPartEOF:
		return Recovery{Strategy: StrategyUnrecoverable}
	case ExpectedBlockBodyPartOther:
		return Recovery{Strategy: StrategyDropUntil, Set: syncRBrace}
	default:
		return Recovery{Strategy: StrategyUnrecoverable}
	}
}

func kindMessage(kind ErrorKind, got token.Token) (string, string) {
	switch kind {
	case ExpectedTypeIdentifierDefinition:
		return "ExpectedTypeIdentifier", "expected a type (Int, Bool, or String) in value definition, got " + got.Type.String()
	case ExpectedTypeIdentifierFunction:
		return "ExpectedTypeIdentifier", "expected a type (Int, Bool, or String) in function/parameter position, got " + got.Type.String()
	case ExpectedParameterType:
		return "ExpectedParameterType", "expected a parameter type, got " + got.Type.String()
	case ExpectedIdentifierFuncDef:
		return "ExpectedIdentifier", "expected an identifier in function/parameter definition, got " + got.Type.String()
	case ExpectedIdentifierValue:
		return "ExpectedIdentifier", "expected an identifier in value/call/assignment position, got " + got.Type.String()
	case ExpectedFunctionApplication:
		return "ExpectedFunctionApplication", "expected a function call, got " + got.Type.String()
	case ExpectedFunctionArgumentEOF:
		return "ExpectedFunctionArgument", "expected a function argument, reached end of file"
	case ExpectedFunctionArgumentOther:
		return "ExpectedFunctionArgument", "expected a function argument, got " + got.Type.String()
	case ExpectedLeftParen:
		return "ExpectedLeftParen", "expected '(', got " + got.Type.String()
	case ExpectedRightParen, ExpectedRightParenFuncApp:
		return "ExpectedRightParen", "expected ')', got " + got.Type.String()
	case ExpectedLeftBrace:
		return "ExpectedLeftBrace", "expected '{', got " + got.Type.String()
	case ExpectedRightBrace:
		return "ExpectedRightBrace", "expected '}', got " + got.Type.String()
	case ExpectedArrow:
		return "ExpectedArrowInFunctionDefinition", "expected '->', got " + got.Type.String()
	case ExpectedEqualAssignment:
		return "ExpectedEqualInAssignment", "expected '=', got " + got.Type.String()
	case ExpectedSemicolonStatement:
		return "ExpectedSemicolonToEndStatement", "expected ';' to end statement, got " + got.Type.String()
	case ExpectedSemicolonFunctionCall:
		return "ExpectedSemicolonToEndFunctionCall", "expected ';' to end function call, got " + got.Type.String()
	case ExpectedOperator:
		return "ExpectedOperator", "expected an operator, got " + got.Type.String()
	case ExpectedExpression:
		return "ExpectedExpression", "expected an expression, got " + got.Type.String()
	case ExpectedTopLevelStatementEOF:
		return "ExpectedTopLevelStatement", "expected a top-level statement, reached end of file"
	case ExpectedTopLevelStatementKeyword, ExpectedTopLevelStatementOther:
		return "ExpectedTopLevelStatement", "expected a top-level statement, got " + got.Type.String()
	case ExpectedBlockBodyPartEOF:
		return "ExpectedBlockBodyPart", "expected a statement, reached end of file"
	case ExpectedBlockBodyPartOther:
		return "ExpectedBlockBodyPart", "expected a statement, got " + got.Type.String()
	default:
		return "InternalParserError", "unreachable: internal parser error"
	}
}
