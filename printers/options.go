package printers

import (
	"io"
	"os"
)

// options contains common display options shared by all printers
type options struct {
	Writer       io.Writer
	HideVariants bool
}

type hasOptions interface {
	options() *options
}

func defaultOptions() options {
	return options{Writer: os.Stdout}
}

// WithWriter sends printer output to w instead of stdout
func WithWriter[T hasOptions](w io.Writer) func(T) {
	return func(p T) {
		p.options().Writer = w
	}
}

// WithoutVariants omits the list of mutually exclusive variants from the output
func WithoutVariants[T hasOptions]() func(T) {
	return func(p T) {
		p.options().HideVariants = true
	}
}
