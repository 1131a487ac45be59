// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	jobsDefault = 4
	jobsMin     = 1
	jobsMax     = 64
)

// ErrJobsOutOfRange is returned if the number of concurrent analyses is not
// between 1 and 64.
var ErrJobsOutOfRange = errors.New("number of jobs out of range")

// jobsValue is the number of files analysed concurrently.
type jobsValue int

func (j *jobsValue) String() string {
	return strconv.Itoa(int(*j))
}

// Set implements [flag.Value].
func (j *jobsValue) Set(s string) error {
	jobs, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("parse jobs: %w", err)
	}

	if jobs < jobsMin || jobs > jobsMax {
		return fmt.Errorf("%d not in %d..%d: %w",
			jobs, jobsMin, jobsMax, ErrJobsOutOfRange)
	}

	*j = jobsValue(jobs)

	return nil
}
