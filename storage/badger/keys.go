package badger

import (
	"fmt"

	"github.com/vtu-tools/automarks/core"
)

// Key prefixes for different data types
const (
	studentRecordPrefix = "sturec"
	studentUSNPrefix    = "stuusn"
	termRecordPrefix    = "trmrec"
	subjectRecordPrefix = "subrec"
	subjectCodePrefix   = "subcod"
	resultRecordPrefix  = "resrec"
	batchLogPrefix      = "batlog"
)

// makeStudentKey generates a key for a student record by ID.
func makeStudentKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", studentRecordPrefix, id))
}

// makeStudentUSNKey generates a key for the seat-number index.
func makeStudentUSNKey(usn string) []byte {
	return []byte(studentUSNPrefix + ":" + usn)
}

// makeTermKey generates a key for a term record by ID.
func makeTermKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", termRecordPrefix, id))
}

// makeSubjectKey generates a key for a subject record by ID.
func makeSubjectKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", subjectRecordPrefix, id))
}

// makeSubjectCodeKey generates a key for the subject-code index.
func makeSubjectCodeKey(code string) []byte {
	return []byte(subjectCodePrefix + ":" + code)
}

// makeResultKey generates a key for a result record by ID.
func makeResultKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", resultRecordPrefix, id))
}

// makeBatchLogKey generates a key for a batch log by batch ID.
func makeBatchLogKey(batchID string) []byte {
	return []byte(batchLogPrefix + ":" + batchID)
}
