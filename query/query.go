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


// Package query provides the filtered read model over stored results.
package query

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/vtu-tools/automarks/core"
	"github.com/vtu-tools/automarks/normalize"
	"github.com/vtu-tools/automarks/storage"
)

// Filter narrows a result listing. Zero values mean "any".
type Filter struct {
	USN         string
	Cohort      string
	Branch      string
	Semester    int
	ExamMonth   string
	ExamYear    int
	SubjectCode string
	// Status accepts both short codes ("P") and the long-form values older
	// deployments stored ("PASS", "NOT ELIGIBLE X").
	Status string

	// Offset/Limit paginate the sorted listing. Limit 0 means no limit.
	Offset int
	Limit  int
}

// Row is one denormalized result row, joined across student, term and
// subject for presentation.
type Row struct {
	USN           string    `json:"usn"`
	StudentName   string    `json:"student_name"`
	Cohort        string    `json:"cohort,omitempty"`
	Branch        string    `json:"branch,omitempty"`
	Semester      int       `json:"semester"`
	ExamMonth     string    `json:"exam_month,omitempty"`
	ExamYear      int       `json:"exam_year,omitempty"`
	SubjectCode   string    `json:"subject_code"`
	SubjectName   string    `json:"subject_name"`
	InternalMarks *int      `json:"internal_marks"`
	ExternalMarks *int      `json:"external_marks"`
	TotalMarks    *int      `json:"total_marks"`
	Status        string    `json:"status"`
	AnnouncedDate time.Time `json:"announced_date"`
}

// Service answers read queries against the gateway.
type Service struct {
	gateway storage.Gateway
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a query service.
func NewService(gateway storage.Gateway, opts ...Option) *Service {
	s := &Service{gateway: gateway, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Results lists stored result rows matching the filter, sorted by seat
// number, then semester, then subject code.
//
// Filters on entity identity (USN, subject code) are resolved through the
// indexes first: an unknown seat number or code yields an empty listing, not
// an error. The subject-code filter honors the trailing-letter fallback.
func (s *Service) Results(ctx context.Context, filter Filter) ([]Row, error) {
	var wantStudent, wantSubject core.ID

	if usn := strings.ToUpper(strings.TrimSpace(filter.USN)); usn != "" {
		student, err := s.gateway.GetStudentByUSN(ctx, usn)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		wantStudent = student.Id
	}

	if code := normalize.SubjectCode(filter.SubjectCode); code != "" {
		subject, err := s.gateway.GetSubjectByCode(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		wantSubject = subject.Id
	}

	var wantStatus core.StatusCode
	if filter.Status != "" {
		wantStatus = normalize.Status(filter.Status)
	}
	wantCohort := strings.TrimSpace(filter.Cohort)
	wantBranch := strings.ToUpper(strings.TrimSpace(filter.Branch))
	wantMonth := strings.ToLower(strings.TrimSpace(filter.ExamMonth))

	students := make(map[core.ID]*core.Student)
	terms := make(map[core.ID]*core.Term)
	subjects := make(map[core.ID]*core.Subject)

	var rows []Row
	err := s.gateway.ForEachResult(ctx, func(r *core.Result) error {
		if wantStudent != 0 && r.StudentId != wantStudent {
			return nil
		}
		if wantSubject != 0 && r.SubjectId != wantSubject {
			return nil
		}
		if wantStatus != "" && r.Status != wantStatus {
			return nil
		}

		student, err := s.student(ctx, students, r.StudentId)
		if err != nil {
			return err
		}
		if wantCohort != "" && student.Cohort != wantCohort {
			return nil
		}
		if wantBranch != "" && student.Branch != wantBranch {
			return nil
		}

		term, err := s.term(ctx, terms, r.TermId)
		if err != nil {
			return err
		}
		if filter.Semester != 0 && term.Semester != filter.Semester {
			return nil
		}
		if filter.ExamYear != 0 && term.ExamYear != filter.ExamYear {
			return nil
		}
		if wantMonth != "" && strings.ToLower(term.ExamMonth) != wantMonth {
			return nil
		}

		subject, err := s.subject(ctx, subjects, r.SubjectId)
		if err != nil {
			return err
		}

		rows = append(rows, Row{
			USN:           student.USN,
			StudentName:   student.Name,
			Cohort:        student.Cohort,
			Branch:        student.Branch,
			Semester:      term.Semester,
			ExamMonth:     term.ExamMonth,
			ExamYear:      term.ExamYear,
			SubjectCode:   subject.Code,
			SubjectName:   subject.Name,
			InternalMarks: r.InternalMarks,
			ExternalMarks: r.ExternalMarks,
			TotalMarks:    r.TotalMarks,
			Status:        string(r.Status),
			AnnouncedDate: r.AnnouncedDate,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(rows, func(a, b Row) int {
		if c := strings.Compare(a.USN, b.USN); c != 0 {
			return c
		}
		if a.Semester != b.Semester {
			return a.Semester - b.Semester
		}
		return strings.Compare(a.SubjectCode, b.SubjectCode)
	})

	return paginate(rows, filter.Offset, filter.Limit), nil
}

func paginate(rows []Row, offset, limit int) []Row {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (s *Service) student(ctx context.Context, cache map[core.ID]*core.Student, id core.ID) (*core.Student, error) {
	if student, ok := cache[id]; ok {
		return student, nil
	}
	student, err := s.gateway.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = student
	return student, nil
}

func (s *Service) term(ctx context.Context, cache map[core.ID]*core.Term, id core.ID) (*core.Term, error) {
	if term, ok := cache[id]; ok {
		return term, nil
	}
	term, err := s.gateway.GetTerm(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = term
	return term, nil
}

func (s *Service) subject(ctx context.Context, cache map[core.ID]*core.Subject, id core.ID) (*core.Subject, error) {
	if subject, ok := cache[id]; ok {
		return subject, nil
	}
	subject, err := s.gateway.GetSubject(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = subject
	return subject, nil
}
