/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/carverauto/podradar/pkg/models"
)

const fileMode = 0o644

// FileSink appends one JSON line per record to a file. The file is opened
// and closed for every record so external rotation needs no signal.
type FileSink struct {
	mu   sync.Mutex
	path string
}

func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		return nil, ErrMissingPath
	}

	return &FileSink{path: path}, nil
}

func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Write(_ context.Context, rec models.Record) (err error) {
	line, err := encodeLine(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}

	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err = f.Write(line); err != nil {
		return fmt.Errorf("failed to append to %s: %w", s.path, err)
	}

	return nil
}

func (*FileSink) Close() error {
	return nil
}
