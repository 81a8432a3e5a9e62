// Copyright 2025 VTU Tools Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/vtu-tools/automarks/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalStudent serializes a Student to bytes.
func MarshalStudent(student *core.Student) []byte {
	buf := make([]byte, core.StudentMUS.Size(*student))
	core.StudentMUS.Marshal(*student, buf)
	return buf
}

// UnmarshalStudent deserializes a Student from bytes.
func UnmarshalStudent(data []byte) (*core.Student, error) {
	student, _, err := core.StudentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// MarshalTerm serializes a Term to bytes.
func MarshalTerm(term *core.Term) []byte {
	buf := make([]byte, core.TermMUS.Size(*term))
	core.TermMUS.Marshal(*term, buf)
	return buf
}

// UnmarshalTerm deserializes a Term from bytes.
func UnmarshalTerm(data []byte) (*core.Term, error) {
	term, _, err := core.TermMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &term, nil
}

// MarshalSubject serializes a Subject to bytes.
func MarshalSubject(subject *core.Subject) []byte {
	buf := make([]byte, core.SubjectMUS.Size(*subject))
	core.SubjectMUS.Marshal(*subject, buf)
	return buf
}

// UnmarshalSubject deserializes a Subject from bytes.
func UnmarshalSubject(data []byte) (*core.Subject, error) {
	subject, _, err := core.SubjectMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// MarshalResult serializes a Result to bytes.
func MarshalResult(result *core.Result) []byte {
	buf := make([]byte, core.ResultMUS.Size(*result))
	core.ResultMUS.Marshal(*result, buf)
	return buf
}

// UnmarshalResult deserializes a Result from bytes.
func UnmarshalResult(data []byte) (*core.Result, error) {
	result, _, err := core.ResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MarshalBatchLog serializes a BatchLog to bytes.
func MarshalBatchLog(log *core.BatchLog) []byte {
	buf := make([]byte, core.BatchLogMUS.Size(*log))
	core.BatchLogMUS.Marshal(*log, buf)
	return buf
}

// UnmarshalBatchLog deserializes a BatchLog from bytes.
func UnmarshalBatchLog(data []byte) (*core.BatchLog, error) {
	log, _, err := core.BatchLogMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &log, nil
}
