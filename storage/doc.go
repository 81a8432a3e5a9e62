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


// Package storage provides the persistence abstraction layer for automarks.
//
// This package defines repository interfaces that decouple storage
// implementation from the extraction and ingestion logic, so different
// backends (BadgerDB, in-memory for tests) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.Gateway interface, never a concrete
// backend type:
//
//	gw, err := badger.NewGateway(path)  // returns storage.Gateway
//
// This keeps consumers decoupled from BadgerDB specifics and lets tests
// substitute in-memory gateways or mocks without modification.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - StudentRepository: seat-number keyed student records
//   - TermRepository: (semester, month, year) examination terms
//   - SubjectRepository: the subject catalog
//   - ResultRepository: per-subject results keyed by (student, term, subject)
//   - BatchLogRepository: persisted batch progress logs
//   - Gateway: all of the above plus the single-transaction bulk flush
//
// All record types use deterministic content-based IDs, which is what makes
// every upsert idempotent: re-ingesting the same document converges on the
// same stored records.
//
// # Thread Safety
//
// All gateway implementations must be thread-safe and support concurrent
// access from multiple goroutines; the ingestion pool relies on it.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
