package parser

// Unescape decodes the backslash escapes Apache writes into log items:
// \xHH becomes the byte 0xHH, \t \n \r \b \v \f become control characters,
// and any other escaped character stands for itself. It works on bytes so
// the result may be any byte sequence.
func Unescape(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) || s[i+1] == '\n' {
			out = append(out, c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'x':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
				i += 2
			} else {
				out = append(out, 'x')
			}
		case 't':
			out = append(out, '\t')
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 'b':
			out = append(out, '\b')
		case 'v':
			out = append(out, '\v')
		case 'f':
			out = append(out, '\f')
		default:
			out = append(out, e)
		}
	}
	return out
}

// Escape renders b the way Apache's ap_escape_logitem does: quotes,
// backslashes and non-printable bytes are escaped, everything else is copied.
// Unescape(Escape(b)) returns b.
func Escape(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch {
		case c == '"' || c == '\\':
			out = append(out, '\\', c)
		case c == '\b':
			out = append(out, '\\', 'b')
		case c == '\n':
			out = append(out, '\\', 'n')
		case c == '\r':
			out = append(out, '\\', 'r')
		case c == '\t':
			out = append(out, '\\', 't')
		case c == '\v':
			out = append(out, '\\', 'v')
		case c < 0x20 || c >= 0x7f:
			out = append(out, '\\', 'x', hexdigits[c>>4], hexdigits[c&0xf])
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
