// Package partition splits a half-open index range [First, Last) into
// batches handed out to concurrent callers. Partitioners know nothing
// about tasks or the scheduler; they only hand out ranges.
package partition
