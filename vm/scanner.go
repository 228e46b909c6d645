package vm

type Scanner struct {
	start, curr, line int
	src               []rune
}

func NewScanner(src string) *Scanner { return NewScannerAt(src, 1) }

// NewScannerAt returns a Scanner whose first line is numbered line.
func NewScannerAt(src string, line int) *Scanner {
	return &Scanner{src: []rune(src), line: line}
}

func (s *Scanner) ScanToken() Token {
	s.skipWhitespace()
	s.start = s.curr
	if s.isAtEnd() {
		return s.makeToken(TEOF)
	}

	c := s.advance()
	switch {
	case isDigit(c): // Number literal.
		// Consume the integral part.
		for isDigit(s.peek()) {
			s.advance()
		}

		// Consume the fractional part if it exists.
		if s.peek() == '.' && isDigit(s.peekNext()) {
			s.advance()
			for isDigit(s.peek()) {
				s.advance()
			}
		}

		return s.makeToken(TNum)

	case isAlpha(c): // Mnemonic.
		for isAlpha(s.peek()) || isDigit(s.peek()) {
			s.advance()
		}
		return s.makeToken(TIdent)
	}

	switch c {
	case '\n':
		tk := s.makeToken(TNewline)
		s.line++
		return tk
	case '-':
		return s.makeToken(TMinus)
	}

	return s.errorToken("unexpected character")
}

// skipWhitespace makes the Scanner skip consecutive blanks and comments, stopping at newlines.
func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()

		case '/': // Skip comments.
			if s.peekNext() != '/' {
				return
			}
			// Skip until the end of the line.
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}

		default:
			return
		}
	}
}

func (s *Scanner) advance() (res rune) {
	res = s.src[s.curr]
	s.curr++
	return
}

func (s *Scanner) peek() (res rune) {
	if s.isAtEnd() {
		return
	}
	return s.src[s.curr]
}

func (s *Scanner) peekNext() (res rune) {
	if s.isAtEnd() || s.curr+1 >= len(s.src) {
		return
	}
	return s.src[s.curr+1]
}

func (s *Scanner) isAtEnd() bool { return s.curr >= len(s.src) }

func (s *Scanner) makeToken(ty TokenType) Token {
	return Token{Type: ty, Runes: s.src[s.start:s.curr], Line: s.line}
}

func (s *Scanner) errorToken(reason string) Token {
	return Token{Type: TErr, Runes: []rune(reason), Line: s.line}
}

func isDigit(c rune) bool { return '0' <= c && c <= '9' }

func isAlpha(c rune) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

type Token struct {
	Type TokenType
	// Lexeme, or the error message for TErr.
	Runes []rune
	Line  int
}

func (tk Token) String() string { return string(tk.Runes) }

//go:generate stringer -type=TokenType
type TokenType int

const (
	TIdent TokenType = iota
	TNum
	TMinus
	TNewline
	TErr
	TEOF
)
