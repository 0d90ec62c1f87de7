// Package greeter produces the fixed two-line greeting of the project template.
//
// The package has no init side effects: importing it writes nothing. Output
// only happens when Greet or HelloWorld is called.
package greeter

import (
	"fmt"
	"io"
	"os"
)

// The greeting, one constant per output line.
const (
	Line1 = "Hello from UV Python Template!"
	Line2 = "This code is running through UV!"
)

// Lines returns the greeting lines in output order.
// The returned slice is a fresh copy and may be modified by the caller.
func Lines() []string {
	return []string{Line1, Line2}
}

// Greet writes the greeting to w, one line per write, in order.
// The first write error is returned and the remaining lines are not written.
func Greet(w io.Writer) error {
	for i, line := range Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write greeting line %d: %w", i+1, err)
		}
	}
	return nil
}

// HelloWorld writes the greeting to standard output.
func HelloWorld() error {
	return Greet(os.Stdout)
}
