package turn

import "strings"

// LineBuffer is a compose buffer for line-oriented input. A line ending in a
// backslash is the multi-line modifier: the backslash is dropped, a line break
// is kept and the buffer is not committed.
type LineBuffer struct {
	b strings.Builder
}

var _ Buffer = (*LineBuffer)(nil)

// Feed adds one input line (without its terminator) and reports whether the
// buffer should now be submitted.
func (l *LineBuffer) Feed(line string) bool {
	line = strings.TrimRight(line, "\r")
	if strings.HasSuffix(line, `\`) {
		l.b.WriteString(strings.TrimSuffix(line, `\`))
		l.InsertNewline()
		return false
	}
	l.b.WriteString(line)
	return true
}

func (l *LineBuffer) InsertNewline() {
	l.b.WriteByte('\n')
}

func (l *LineBuffer) Value() string {
	return l.b.String()
}

func (l *LineBuffer) Reset() {
	l.b.Reset()
}

// StringBuffer is a fixed, single-shot buffer, used for one-off questions.
type StringBuffer struct {
	Text string
}

var _ Buffer = (*StringBuffer)(nil)

func (s *StringBuffer) Value() string {
	return s.Text
}

func (s *StringBuffer) Reset() {
	s.Text = ""
}
