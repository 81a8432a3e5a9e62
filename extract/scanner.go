package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vtu-tools/automarks/core"
)

var (
	// A marks row: three 1-3 digit numbers, a status token, an ISO date.
	marksRowRe = regexp.MustCompile(`(\d{1,3})\s+(\d{1,3})\s+(\d{1,3})\s+(P|F|A|W|X|NE)\s+(\d{4}-\d{2}-\d{2})`)

	// A subject starts with letters+3digits at line start. The optional
	// trailing code letter is handled separately (see matchSubjectStart):
	// it belongs to the code only when followed by whitespace or end of
	// line, otherwise it is the first letter of a glued subject name.
	subjectStartRe = regexp.MustCompile(`^([A-Z]{3,6}\d{3})(.*)$`)
)

// matchSubjectStart matches a subject-start line and splits it into the
// subject code and the remainder. Go's regexp has no lookahead, so the
// original trailing-letter rule — absorb one capital into the code only if
// whitespace or end-of-line follows — is an explicit check on the remainder.
func matchSubjectStart(line string) (code, rest string, ok bool) {
	m := subjectStartRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	code, rest = m[1], m[2]
	if len(rest) > 0 && rest[0] >= 'A' && rest[0] <= 'Z' &&
		(len(rest) == 1 || rest[1] == ' ' || rest[1] == '\t') {
		code += rest[:1]
		rest = rest[1:]
	}
	return code, strings.TrimSpace(rest), true
}

// scanState is the explicit state of the per-line subject scan.
//
// Transition table:
//
//	seekStart    --subject start, marks on same line--> seekStart (entry emitted)
//	seekStart    --subject start, no marks----------> collectName
//	collectName  --name fragment--------------------> seekMarks
//	collectName/seekMarks --marks row---------------> seekStart (entry emitted)
//	collectName/seekMarks --new subject start-------> collectName (current subject abandoned, no entry)
//
// The abandon transition reproduces the source system's behavior: a subject
// whose marks row never appears before the next subject starts is dropped
// silently rather than failing the document.
type scanState int

const (
	// stateSeekStart means no subject is open.
	stateSeekStart scanState = iota
	// stateCollectName means a subject is open with no name text collected yet.
	stateCollectName
	// stateSeekMarks means a subject is open and name text has been collected.
	stateSeekMarks
)

// subjectScanner consumes trimmed document lines left to right and
// accumulates closed subject entries.
type subjectScanner struct {
	state     scanState
	code      string
	nameParts []string
	entries   []core.SubjectEntry
	logger    *slog.Logger
}

func newSubjectScanner(logger *slog.Logger) *subjectScanner {
	return &subjectScanner{state: stateSeekStart, logger: logger}
}

func (s *subjectScanner) feed(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if code, rest, ok := matchSubjectStart(line); ok {
		if s.state != stateSeekStart {
			s.abandon()
		}
		s.open(code, rest)
		return
	}

	if s.state == stateSeekStart {
		return
	}

	if loc := marksRowRe.FindStringSubmatchIndex(line); loc != nil {
		s.close(line, loc)
		return
	}

	if !isNoiseLine(line) {
		s.nameParts = append(s.nameParts, line)
		s.state = stateSeekMarks
	}
}

// finish ends the scan, abandoning any still-open subject, and returns the
// collected entries.
func (s *subjectScanner) finish() []core.SubjectEntry {
	if s.state != stateSeekStart {
		s.abandon()
	}
	return s.entries
}

// open begins a new subject. If the remainder of the start line already
// carries the marks row, the subject closes immediately.
func (s *subjectScanner) open(code, rest string) {
	s.code = code
	s.nameParts = s.nameParts[:0]
	s.state = stateCollectName

	if rest == "" {
		return
	}
	if loc := marksRowRe.FindStringSubmatchIndex(rest); loc != nil {
		s.close(rest, loc)
		return
	}
	if !isNoiseLine(rest) {
		s.nameParts = append(s.nameParts, rest)
		s.state = stateSeekMarks
	}
}

// close emits an entry for the open subject from a line containing the marks
// row; text preceding the row joins the collected name.
func (s *subjectScanner) close(line string, loc []int) {
	if before := strings.TrimSpace(line[:loc[0]]); before != "" && !isNoiseLine(before) {
		s.nameParts = append(s.nameParts, before)
	}

	m := make([]string, 0, 5)
	for i := 1; i <= 5; i++ {
		m = append(m, line[loc[2*i]:loc[2*i+1]])
	}

	entry := core.SubjectEntry{
		Code:   s.code,
		Name:   cleanSubjectName(strings.Join(s.nameParts, " ")),
		Status: core.StatusCode(m[3]),
	}

	// Zero-valued internal/external marks are a "not applicable" sentinel
	// in the source documents, stored as absent rather than zero.
	internal, _ := strconv.Atoi(m[0])
	external, _ := strconv.Atoi(m[1])
	total, _ := strconv.Atoi(m[2])
	if internal != 0 {
		entry.InternalMarks = &internal
	}
	if external != 0 {
		entry.ExternalMarks = &external
	}
	entry.TotalMarks = &total

	if d, err := time.Parse("2006-01-02", m[4]); err == nil {
		entry.AnnouncedDate = d
	}

	s.entries = append(s.entries, entry)
	s.code = ""
	s.nameParts = s.nameParts[:0]
	s.state = stateSeekStart
}

// abandon drops the open subject without emitting an entry.
func (s *subjectScanner) abandon() {
	s.logger.Debug("subject abandoned without marks row", "code", s.code)
	s.code = ""
	s.nameParts = s.nameParts[:0]
	s.state = stateSeekStart
}
