// Copyright 2026 The Parley Authors
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

// Package diagnostics routes crash output to a file under the home
// directory and writes on-demand goroutine dumps. A fatal runtime fault
// (the SIGSEGV analogue) leaves a post-mortem trace in the crash file and
// the process terminates abnormally, bypassing graceful teardown.
package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"
)

// CrashFileName is the crash dump file created under the home directory.
const CrashFileName = "crash.log"

// Recorder owns the crash output file.
type Recorder struct {
	file *os.File
}

// Init opens the crash file and installs it as the runtime crash output.
func Init(homeDir string) (*Recorder, error) {
	path := filepath.Join(homeDir, CrashFileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("cannot open crash file %q: %w", path, err)
	}
	if err := debug.SetCrashOutput(f, debug.CrashOptions{}); err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot set crash output: %w", err)
	}
	return &Recorder{file: f}, nil
}

// Dump appends a timestamped all-goroutine stack dump to the crash file.
func (r *Recorder) Dump(reason string) {
	if r == nil || r.file == nil {
		return
	}
	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	fmt.Fprintf(r.file, "=== dump %s: %s ===\n", time.Now().Format(time.RFC3339), reason)
	r.file.Write(buf[:n])
	fmt.Fprintln(r.file, "=== end dump ===")
}

// End detaches the crash output and closes the file. Safe on nil and safe
// to call twice.
func (r *Recorder) End() {
	if r == nil || r.file == nil {
		return
	}
	_ = debug.SetCrashOutput(nil, debug.CrashOptions{})
	r.file.Close()
	r.file = nil
}
