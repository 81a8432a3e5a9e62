package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the stored record types. The shapes here
// are small and flat, so the serializers are maintained by hand rather than
// generated.
//
// Optional ints are encoded as a presence bool followed by the value.
// Timestamps are encoded as a presence bool followed by Unix microseconds,
// so a zero time.Time round-trips to a zero time.Time.

var (
	// IDMUS serializes an entity ID.
	IDMUS = idMUS{}
	// StudentMUS serializes a Student.
	StudentMUS = studentMUS{}
	// TermMUS serializes a Term.
	TermMUS = termMUS{}
	// SubjectMUS serializes a Subject.
	SubjectMUS = subjectMUS{}
	// ResultMUS serializes a Result.
	ResultMUS = resultMUS{}
	// BatchLogMUS serializes a BatchLog.
	BatchLogMUS = batchLogMUS{}
)

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// optional-int encoding helpers

func marshalIntPtr(v *int, bs []byte) (n int) {
	n = ord.Bool.Marshal(v != nil, bs)
	if v != nil {
		n += varint.Int.Marshal(*v, bs[n:])
	}
	return n
}

func unmarshalIntPtr(bs []byte) (v *int, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	val, n1, err := varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	return &val, n, nil
}

func sizeIntPtr(v *int) (size int) {
	size = ord.Bool.Size(v != nil)
	if v != nil {
		size += varint.Int.Size(*v)
	}
	return size
}

// timestamp encoding helpers

func marshalTime(t time.Time, bs []byte) (n int) {
	n = ord.Bool.Marshal(!t.IsZero(), bs)
	if !t.IsZero() {
		n += varint.Int64.Marshal(t.UnixMicro(), bs[n:])
	}
	return n
}

func unmarshalTime(bs []byte) (t time.Time, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return time.Time{}, n, err
	}
	micros, n1, err := varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) (size int) {
	size = ord.Bool.Size(!t.IsZero())
	if !t.IsZero() {
		size += varint.Int64.Size(t.UnixMicro())
	}
	return size
}

type studentMUS struct{}

func (studentMUS) Marshal(v Student, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.USN, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Cohort, bs[n:])
	n += ord.String.Marshal(v.Branch, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (studentMUS) Unmarshal(bs []byte) (v Student, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.USN, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Cohort, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Branch, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (studentMUS) Size(v Student) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.USN)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Cohort)
	size += ord.String.Size(v.Branch)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

type termMUS struct{}

func (termMUS) Marshal(v Term, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += varint.Int.Marshal(v.Semester, bs[n:])
	n += ord.String.Marshal(v.ExamMonth, bs[n:])
	n += varint.Int.Marshal(v.ExamYear, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	return n
}

func (termMUS) Unmarshal(bs []byte) (v Term, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.Semester, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ExamMonth, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ExamYear, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.InsertedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (termMUS) Size(v Term) (size int) {
	size = IDMUS.Size(v.Id)
	size += varint.Int.Size(v.Semester)
	size += ord.String.Size(v.ExamMonth)
	size += varint.Int.Size(v.ExamYear)
	size += sizeTime(v.InsertedAt)
	return size
}

type subjectMUS struct{}

func (subjectMUS) Marshal(v Subject, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Code, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += marshalIntPtr(v.Credits, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	return n
}

func (subjectMUS) Unmarshal(bs []byte) (v Subject, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.Code, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Credits, n1, err = unmarshalIntPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.InsertedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (subjectMUS) Size(v Subject) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Code)
	size += ord.String.Size(v.Name)
	size += sizeIntPtr(v.Credits)
	size += sizeTime(v.InsertedAt)
	return size
}

type resultMUS struct{}

func (resultMUS) Marshal(v Result, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.StudentId, bs[n:])
	n += IDMUS.Marshal(v.TermId, bs[n:])
	n += IDMUS.Marshal(v.SubjectId, bs[n:])
	n += marshalIntPtr(v.InternalMarks, bs[n:])
	n += marshalIntPtr(v.ExternalMarks, bs[n:])
	n += marshalIntPtr(v.TotalMarks, bs[n:])
	n += ord.String.Marshal(string(v.Status), bs[n:])
	n += marshalTime(v.AnnouncedDate, bs[n:])
	n += ord.String.Marshal(v.UploadBatchId, bs[n:])
	n += marshalTime(v.InsertedAt, bs[n:])
	n += marshalTime(v.UpdatedAt, bs[n:])
	return n
}

func (resultMUS) Unmarshal(bs []byte) (v Result, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.StudentId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TermId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.SubjectId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InternalMarks, n1, err = unmarshalIntPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ExternalMarks, n1, err = unmarshalIntPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.TotalMarks, n1, err = unmarshalIntPtr(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var status string
	if status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Status = StatusCode(status)
	n += n1
	if v.AnnouncedDate, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.UploadBatchId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.InsertedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.UpdatedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (resultMUS) Size(v Result) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.StudentId)
	size += IDMUS.Size(v.TermId)
	size += IDMUS.Size(v.SubjectId)
	size += sizeIntPtr(v.InternalMarks)
	size += sizeIntPtr(v.ExternalMarks)
	size += sizeIntPtr(v.TotalMarks)
	size += ord.String.Size(string(v.Status))
	size += sizeTime(v.AnnouncedDate)
	size += ord.String.Size(v.UploadBatchId)
	size += sizeTime(v.InsertedAt)
	size += sizeTime(v.UpdatedAt)
	return size
}

type batchLogMUS struct{}

func (batchLogMUS) Marshal(v BatchLog, bs []byte) (n int) {
	n = ord.String.Marshal(v.BatchId, bs)
	n += varint.Int.Marshal(v.TotalFiles, bs[n:])
	n += varint.Int.Marshal(v.ProcessedFiles, bs[n:])
	n += varint.Int.Marshal(v.FailedFiles, bs[n:])
	n += ord.String.Marshal(v.CurrentFile, bs[n:])
	n += varint.Int.Marshal(v.CurrentFileIndex, bs[n:])
	n += varint.Int.Marshal(int(v.Status), bs[n:])
	n += varint.Int.Marshal(len(v.Errors), bs[n:])
	for _, e := range v.Errors {
		n += ord.String.Marshal(e, bs[n:])
	}
	n += marshalTime(v.StartedAt, bs[n:])
	n += marshalTime(v.CompletedAt, bs[n:])
	return n
}

func (batchLogMUS) Unmarshal(bs []byte) (v BatchLog, n int, err error) {
	var n1 int
	if v.BatchId, n, err = ord.String.Unmarshal(bs); err != nil {
		return v, n, err
	}
	if v.TotalFiles, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ProcessedFiles, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.FailedFiles, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CurrentFile, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CurrentFileIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var status int
	if status, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Status = BatchStatus(status)
	n += n1
	var count int
	if count, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	for i := 0; i < count; i++ {
		var e string
		if e, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return v, n + n1, err
		}
		n += n1
		v.Errors = append(v.Errors, e)
	}
	if v.StartedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	v.CompletedAt, n1, err = unmarshalTime(bs[n:])
	return v, n + n1, err
}

func (batchLogMUS) Size(v BatchLog) (size int) {
	size = ord.String.Size(v.BatchId)
	size += varint.Int.Size(v.TotalFiles)
	size += varint.Int.Size(v.ProcessedFiles)
	size += varint.Int.Size(v.FailedFiles)
	size += ord.String.Size(v.CurrentFile)
	size += varint.Int.Size(v.CurrentFileIndex)
	size += varint.Int.Size(int(v.Status))
	size += varint.Int.Size(len(v.Errors))
	for _, e := range v.Errors {
		size += ord.String.Size(e)
	}
	size += sizeTime(v.StartedAt)
	size += sizeTime(v.CompletedAt)
	return size
}
