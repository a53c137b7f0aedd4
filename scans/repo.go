// Package scans keeps the log of barcodes processed by this process.
package scans

import "github.com/jrsteele09/go-library-checkin/checkin"

type Repo interface {
	Append(result checkin.Result) error
	List() ([]checkin.Result, error)
	Count() int
}
